// Package codec converts records to and from the service's XML rows.
//
// Encoding writes one row element per record:
//
//	<Contacts>
//	  <row no="1">
//	    <FL val="Last Name">Smith</FL>
//	  </row>
//	</Contacts>
//
// Decoding reads rows back, coercing each value to the declared type of its
// field. A value that does not parse as its declared type is kept as the raw
// text, so one bad field never fails a whole batch.
package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rubyzoho/zohocrm.go/internal/xmltree"
	"github.com/rubyzoho/zohocrm.go/pkg/classify"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
	"github.com/rubyzoho/zohocrm.go/pkg/schema"
)

const (
	rowTag   = "row"
	fieldTag = "FL"
	nameAttr = "val"
	idKey    = "id"
)

// Codec is safe for concurrent use; nothing on it changes after New.
type Codec struct {
	registry *schema.Registry
	ignore   map[string]bool
	logger   zerolog.Logger
}

// New creates a codec over reg. Fields named in ignore are dropped in both
// directions. A nil reg treats every field as text.
func New(reg *schema.Registry, ignore []string) *Codec {
	c := &Codec{
		registry: reg,
		ignore:   make(map[string]bool, len(ignore)),
		logger:   zerolog.Nop(),
	}
	for _, f := range ignore {
		c.ignore[models.Key(f)] = true
	}
	return c
}

// SetLogger sets the logger soft coercion failures are reported to.
func (c *Codec) SetLogger(l zerolog.Logger) *Codec {
	c.logger = l
	return c
}

// Ignored reports whether key is in the ignore-set.
func (c *Codec) Ignored(key string) bool {
	return c.ignore[models.Key(key)]
}

// RootTag is the element name module is written under. The service drops
// spaces from module names, so "Sales Orders" travels as SalesOrders.
func RootTag(module string) string {
	return strings.ReplaceAll(strings.TrimSpace(module), " ", "")
}

// Document builds the wire tree for records. Rows are numbered from 1.
func (c *Codec) Document(module string, records ...models.Record) *xmltree.Element {
	root := xmltree.New(RootTag(module))
	for i, rec := range records {
		row := root.Add(rowTag, xmltree.Attr{Name: "no", Value: strconv.Itoa(i + 1)})
		for _, f := range rec {
			if c.ignore[f.Key] {
				continue
			}
			d := c.descriptor(module, f.Key)
			fl := row.Add(fieldTag, xmltree.Attr{Name: nameAttr, Value: d.Name})
			fl.Text = FormatValue(f.Value, d.Type)
		}
	}
	return root
}

// Encode serialises records as the xmlData payload for module.
func (c *Codec) Encode(module string, records ...models.Record) ([]byte, error) {
	return xmltree.Marshal(c.Document(module, records...))
}

// Decode converts wire rows of module into records.
func (c *Codec) Decode(module string, rows []*xmltree.Element) []models.Record {
	out := make([]models.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, c.decodeRow(module, row))
	}
	return out
}

// DecodeWithID is Decode plus the primary key of module set from the
// identifier the service reports alongside the fields.
func (c *Codec) DecodeWithID(module string, rows []*xmltree.Element) []models.Record {
	out := c.Decode(module, rows)
	pk := classify.PrimaryKey(module)
	for i, row := range rows {
		id, ok := rowID(row)
		if !ok {
			continue
		}
		out[i].Set(pk, id)
	}
	return out
}

// DecodeResult parses a list or search response body and decodes the rows
// found at /response/result/<module>/row, with module written as RootTag.
func (c *Codec) DecodeResult(module string, body []byte) ([]models.Record, error) {
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	}
	return c.Decode(module, root.Find("/response/result/"+RootTag(module)+"/"+rowTag)), nil
}

// DecodeDetails parses a create or update acknowledgement and decodes every
// record detail in it with its identifier injected.
func (c *Codec) DecodeDetails(module string, body []byte) ([]models.Record, error) {
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	}
	details := root.Descendants("recorddetail")
	if len(details) == 0 {
		details = root.Descendants("details")
	}
	return c.DecodeWithID(module, details), nil
}

func (c *Codec) decodeRow(module string, row *xmltree.Element) models.Record {
	rec := make(models.Record, 0, len(row.Children))
	for _, child := range row.Children {
		name := fieldName(child)
		if name == "" {
			continue
		}
		key := models.Key(name)
		if c.ignore[key] {
			continue
		}
		d := c.descriptor(module, name)
		v, ok := Coerce(child.Text, d.Type)
		if !ok {
			c.logger.Debug().
				Str("module", module).
				Str("field", name).
				Str("type", string(d.Type)).
				Msg("value kept as text")
		}
		rec.Set(key, v)
	}
	return rec
}

func (c *Codec) descriptor(module, field string) models.FieldDescriptor {
	if c.registry != nil {
		if d, ok := c.registry.Field(module, field); ok {
			return d
		}
	}
	return models.FieldDescriptor{Key: models.Key(field), Name: models.WireName(models.Key(field)), Type: models.TypeText}
}

// fieldName accepts both <FL val="Name">..</FL> and <Name>..</Name>.
func fieldName(el *xmltree.Element) string {
	if el.Name == fieldTag {
		name, _ := el.Attr(nameAttr)
		return name
	}
	return el.Name
}

func rowID(row *xmltree.Element) (string, bool) {
	for _, child := range row.Children {
		if models.Key(fieldName(child)) == idKey {
			return strings.TrimSpace(child.Text), true
		}
	}
	if id, ok := row.Attr(idKey); ok {
		return id, true
	}
	return "", false
}

// FormatValue renders v as wire text. Times are written with the layout of
// the declared type, date-time when the type says nothing about it.
// Date-times are written in UTC, the zone Coerce reads them back in. Dates
// keep the calendar day of the value as given.
func FormatValue(v any, t models.FieldType) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		if t == models.TypeDate {
			return x.Format(constants.DateLayout)
		}
		return x.UTC().Format(constants.DateTimeLayout)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Coerce converts raw wire text to the native type for t. The second result
// is false when raw did not parse and is returned unchanged.
func Coerce(raw string, t models.FieldType) (any, bool) {
	s := strings.TrimSpace(raw)
	switch t {
	case models.TypeInteger:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n, true
		}
	case models.TypeDecimal:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	case models.TypeBoolean:
		switch strings.ToLower(s) {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	case models.TypeDate:
		if d, err := time.Parse(constants.DateLayout, s); err == nil {
			return d, true
		}
	case models.TypeDateTime:
		if d, err := time.Parse(constants.DateTimeLayout, s); err == nil {
			return d, true
		}
	default:
		return raw, true
	}
	return raw, false
}
