package zohocrm

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rubyzoho/zohocrm.go/pkg/models"
	"github.com/rubyzoho/zohocrm.go/pkg/users"
)

const (
	usersModule = "Users"
	actionUsers = "getUsers"
)

// Users returns every user of the account. The list is fetched once per
// client and served from memory afterwards.
func (c *Client) Users(ctx context.Context) ([]models.Record, error) {
	return c.users.Get(ctx)
}

// RefreshUsers fetches the user list again and replaces the cached one.
func (c *Client) RefreshUsers(ctx context.Context) ([]models.Record, error) {
	return c.users.Refresh(ctx)
}

// InvalidateUsers drops the cached user list.
func (c *Client) InvalidateUsers() {
	c.users.Invalidate()
}

// UserFields returns the sorted field keys of a user record.
func (c *Client) UserFields(ctx context.Context) ([]string, error) {
	list, err := c.users.Get(ctx)
	if err != nil {
		return nil, err
	}
	return users.Fields(list), nil
}

func (c *Client) fetchUsers(ctx context.Context) ([]models.Record, error) {
	params := url.Values{}
	params.Set("newFormat", "1")
	params.Set("type", "AllUsers")

	body, err := c.call(ctx, http.MethodGet, usersModule, actionUsers, params)
	if err != nil || body == nil {
		return nil, err
	}
	list, err := users.Parse(body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().Int("count", len(list)).Msg("user list loaded")
	return list, nil
}
