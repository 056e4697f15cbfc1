package zohocrm

import (
	"context"
	"net/http"

	"github.com/rubyzoho/zohocrm.go/pkg/models"
	"github.com/rubyzoho/zohocrm.go/pkg/query"
)

// FindRecords returns the records of module whose field matches value.
// field "id" means the module's own identifier. condition is only used for
// the generic search, e.g. "=", "contains", "starts with".
func (c *Client) FindRecords(ctx context.Context, module, field, condition, value string) ([]models.Record, error) {
	plan, err := query.Route(query.Query{Module: module, Field: field, Condition: condition, Value: value})
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("module", module).
		Str("field", plan.Field).
		Stringer("strategy", plan.Strategy).
		Msg("find records")
	return c.run(ctx, plan)
}

// FindRecordByID fetches the record id of module.
func (c *Client) FindRecordByID(ctx context.Context, module, id string) ([]models.Record, error) {
	return c.run(ctx, query.IDPlan(module, id))
}

// FindRecordByRelatedID searches module by another module's identifier. It
// fails with InvalidRelatedFieldError, without calling the service, for a
// field the module has no relationship through.
func (c *Client) FindRecordByRelatedID(ctx context.Context, module, field, value string) ([]models.Record, error) {
	plan, err := query.RelatedKeyPlan(module, field, value)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, plan)
}

// FindRecordByField searches module with the expression (field|condition|value).
func (c *Client) FindRecordByField(ctx context.Context, module, field, condition, value string) ([]models.Record, error) {
	return c.run(ctx, query.FieldPlan(module, field, condition, value))
}

func (c *Client) run(ctx context.Context, plan *query.Plan) ([]models.Record, error) {
	if err := c.checkModule(plan.Module); err != nil {
		return nil, err
	}
	body, err := c.call(ctx, http.MethodGet, plan.Module, plan.Action, plan.Params)
	if err != nil || body == nil {
		return nil, err
	}
	return c.codec.DecodeResult(plan.Module, body)
}
