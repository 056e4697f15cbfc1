// Package query picks the remote lookup for a "records where field matches
// value" request.
//
// A module's own identifier is fetched directly, an identifier of another
// module goes through the related-record search, and anything else becomes a
// generic search expression.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rubyzoho/zohocrm.go/pkg/classify"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

// IDField asks for the module's own identifier, whatever it is called.
const IDField = "id"

// Strategy is the remote lookup a query resolves to.
type Strategy int

const (
	ByID Strategy = iota
	ByRelatedKey
	ByField
)

func (s Strategy) String() string {
	switch s {
	case ByID:
		return "ById"
	case ByRelatedKey:
		return "ByRelatedKey"
	case ByField:
		return "ByField"
	default:
		return "Strategy(" + strconv.Itoa(int(s)) + ")"
	}
}

// Remote actions, one per strategy.
const (
	ActionByID         = "getRecordById"
	ActionByRelatedKey = "getSearchRecordsByPDC"
	ActionByField      = "getSearchRecords"
)

// Query is a caller's search intent.
type Query struct {
	Module    string
	Field     string
	Condition string
	Value     string
}

// Plan is the routed form of a Query: the action to call and its parameters,
// without credentials.
type Plan struct {
	Strategy Strategy
	Module   string
	// Field is the resolved field name; IDField is replaced by the primary key.
	Field  string
	Action string
	Params url.Values
}

// Route classifies q.Field for q.Module and builds the matching plan.
// An identifier of another module that the module cannot be searched by is
// rejected before any request is made.
func Route(q Query) (*Plan, error) {
	if q.Module == "" {
		return nil, fmt.Errorf("%w: module not set", constants.ErrUnknownModule)
	}

	field := NormalizeField(q.Field)
	if strings.EqualFold(field, IDField) {
		field = classify.PrimaryKey(q.Module)
	}

	switch {
	case classify.IsRelatedKey(q.Module, field):
		return RelatedKeyPlan(q.Module, field, q.Value)
	case !classify.IsPrimaryKey(q.Module, field):
		return FieldPlan(q.Module, field, q.Condition, q.Value), nil
	default:
		plan := IDPlan(q.Module, q.Value)
		plan.Field = strings.ToLower(field)
		return plan, nil
	}
}

// IDPlan looks up the record id of module directly.
func IDPlan(module, id string) *Plan {
	params := baseParams()
	params.Set("id", id)
	return &Plan{Strategy: ByID, Module: module, Field: classify.PrimaryKey(module), Action: ActionByID, Params: params}
}

// RelatedKeyPlan searches module by another module's identifier field.
// The field must be one the module has a relationship through.
func RelatedKeyPlan(module, field, value string) (*Plan, error) {
	field = strings.ToLower(NormalizeField(field))
	if !classify.IsValidRelated(module, field) {
		return nil, &InvalidRelatedFieldError{Module: module, Field: field}
	}
	params := baseParams()
	params.Set("version", "2")
	params.Set("searchColumn", field)
	params.Set("searchValue", value)
	return &Plan{Strategy: ByRelatedKey, Module: module, Field: field, Action: ActionByRelatedKey, Params: params}, nil
}

// FieldPlan searches module for records whose field matches value under
// condition, returning at most one page.
func FieldPlan(module, field, condition, value string) *Plan {
	field = NormalizeField(field)
	params := baseParams()
	params.Set("searchCondition", SearchCondition(field, condition, value))
	params.Set("fromIndex", "1")
	params.Set("toIndex", strconv.Itoa(constants.RecordsPerPage))
	return &Plan{Strategy: ByField, Module: module, Field: field, Action: ActionByField, Params: params}
}

func baseParams() url.Values {
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("selectColumns", "All")
	return params
}

// NormalizeField trims field and drops a leading ":" so ":id" and "id" mean
// the same thing.
func NormalizeField(field string) string {
	return strings.TrimPrefix(strings.TrimSpace(field), ":")
}

// SearchCondition builds the service's composite search expression,
// (field|condition|value).
func SearchCondition(field, condition, value string) string {
	return "(" + field + "|" + condition + "|" + value + ")"
}

// InvalidRelatedFieldError is returned when a module is queried by another
// module's identifier it has no relationship through.
type InvalidRelatedFieldError struct {
	Module string
	Field  string
}

func (e *InvalidRelatedFieldError) Error() string {
	return fmt.Sprintf("%s %s for module %s", constants.ErrInvalidRelatedField, e.Field, e.Module)
}

func (e *InvalidRelatedFieldError) Is(target error) bool {
	return target == constants.ErrInvalidRelatedField
}
