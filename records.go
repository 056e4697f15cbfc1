package zohocrm

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

const (
	actionInsert     = "insertRecords"
	actionUpdate     = "updateRecords"
	actionDelete     = "deleteRecords"
	actionList       = "getRecords"
	actionCustomView = "getCVRecords"
	actionRelated    = "getRelatedRecords"
)

// AddRecord creates rec in module and returns the acknowledgement, which
// carries the new record's identifier under the module's primary key.
// It returns nil when the service acknowledges nothing.
func (c *Client) AddRecord(ctx context.Context, module string, rec models.Record) (models.Record, error) {
	if err := c.checkModule(module); err != nil {
		return nil, err
	}
	data, err := c.codec.Encode(module, rec)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("xmlData", string(data))

	return c.writeOne(ctx, module, actionInsert, params)
}

// UpdateRecord changes the fields in rec on the record id of module.
func (c *Client) UpdateRecord(ctx context.Context, module, id string, rec models.Record) (models.Record, error) {
	if err := c.checkModule(module); err != nil {
		return nil, err
	}
	data, err := c.codec.Encode(module, rec)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("id", id)
	params.Set("xmlData", string(data))

	return c.writeOne(ctx, module, actionUpdate, params)
}

// UpdateRecords changes several records in one call. Each record must carry
// its identifier as an "Id" field. The result holds one entry per record the
// service reported on.
func (c *Client) UpdateRecords(ctx context.Context, module string, recs []models.Record) ([]models.Record, error) {
	if err := c.checkModule(module); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	data, err := c.codec.Encode(module, recs...)
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("version", "4")
	params.Set("xmlData", string(data))

	body, err := c.call(ctx, http.MethodPost, module, actionUpdate, params)
	if err != nil || body == nil {
		return nil, err
	}
	return c.codec.DecodeDetails(module, body)
}

// DeleteRecord removes the record id of module.
func (c *Client) DeleteRecord(ctx context.Context, module, id string) error {
	if err := c.checkModule(module); err != nil {
		return err
	}
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("id", id)

	_, err := c.call(ctx, http.MethodPost, module, actionDelete, params)
	return err
}

// First returns the first record of module, or nil when it is empty.
func (c *Client) First(ctx context.Context, module string) (models.Record, error) {
	recs, err := c.Some(ctx, module, 1, 1)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}

// Some lists records of module starting at the 1-based index from. Indexes
// below 1 start at the first record. count <= 0 asks for a full page.
func (c *Client) Some(ctx context.Context, module string, from, count int) ([]models.Record, error) {
	if err := c.checkModule(module); err != nil {
		return nil, err
	}
	if from < 1 {
		from = 1
	}
	if count <= 0 {
		count = constants.RecordsPerPage
	}
	params := url.Values{}
	params.Set("newFormat", "2")
	params.Set("fromIndex", strconv.Itoa(from))
	params.Set("toIndex", strconv.Itoa(from+count-1))

	return c.list(ctx, module, actionList, params)
}

// RecordsFromCustomView lists the records of the saved view named view,
// between the 1-based indexes from and to inclusive.
func (c *Client) RecordsFromCustomView(ctx context.Context, module, view string, from, to int) ([]models.Record, error) {
	if err := c.checkModule(module); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("cvName", view)
	params.Set("fromIndex", strconv.Itoa(from))
	params.Set("toIndex", strconv.Itoa(to))

	return c.list(ctx, module, actionCustomView, params)
}

// RelatedRecords lists the records of relatedModule attached to the record
// parentID of parentModule.
func (c *Client) RelatedRecords(ctx context.Context, parentModule, parentID, relatedModule string) ([]models.Record, error) {
	if err := c.checkModule(parentModule, relatedModule); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("parentModule", parentModule)
	params.Set("id", parentID)

	return c.list(ctx, relatedModule, actionRelated, params)
}

func (c *Client) list(ctx context.Context, module, action string, params url.Values) ([]models.Record, error) {
	body, err := c.call(ctx, http.MethodGet, module, action, params)
	if err != nil || body == nil {
		return nil, err
	}
	return c.codec.DecodeResult(module, body)
}

func (c *Client) writeOne(ctx context.Context, module, action string, params url.Values) (models.Record, error) {
	body, err := c.call(ctx, http.MethodPost, module, action, params)
	if err != nil || body == nil {
		return nil, err
	}
	recs, err := c.codec.DecodeDetails(module, body)
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}
