package models

import "strings"

// FieldType is the declared type of a module field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeInteger  FieldType = "integer"
	TypeDecimal  FieldType = "decimal"
	TypeBoolean  FieldType = "boolean"
	TypeDate     FieldType = "date"
	TypeDateTime FieldType = "datetime"
	TypePicklist FieldType = "picklist"
)

// ParseFieldType accepts both the short names above and the type labels the
// service reports in its field metadata. Anything unrecognised is text.
func ParseFieldType(s string) FieldType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "integer", "long integer", "bigint", "int":
		return TypeInteger
	case "decimal", "double", "currency", "percent":
		return TypeDecimal
	case "boolean", "bool":
		return TypeBoolean
	case "date":
		return TypeDate
	case "datetime", "date-time", "date time":
		return TypeDateTime
	case "picklist", "pick list", "multi pick list", "multiselect", "enumerated":
		return TypePicklist
	default:
		return TypeText
	}
}

// FieldDescriptor describes one field of a module.
type FieldDescriptor struct {
	// Key is the normalised lookup key, see [Key].
	Key string `yaml:"key,omitempty" json:"key"`
	// Name is the canonical wire name, e.g. "Last Name".
	Name string    `yaml:"name" json:"name"`
	Type FieldType `yaml:"type" json:"type"`
}

// NewFieldDescriptor derives the key from the wire name.
func NewFieldDescriptor(name string, t FieldType) FieldDescriptor {
	return FieldDescriptor{Key: Key(name), Name: name, Type: t}
}
