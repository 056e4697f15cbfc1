// Package users caches the account's user list.
//
// The list is fetched on first use and kept until Refresh or Invalidate.
// Concurrent first reads share a single fetch.
package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rubyzoho/zohocrm.go/internal/xmltree"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

// NameKey holds the user's display name in each parsed record.
const NameKey = "user_name"

// Fetcher loads the full user list from the service.
type Fetcher func(ctx context.Context) ([]models.Record, error)

type Cache struct {
	fetch Fetcher
	group singleflight.Group

	mu    sync.RWMutex
	users []models.Record
	// loaded is set once users holds a fetched list; loadedGen is the
	// generation it was fetched for.
	loaded     bool
	loadedGen  uint64
	generation uint64
}

func NewCache(fetch Fetcher) *Cache {
	return &Cache{fetch: fetch}
}

// Get returns the cached list, fetching it if it has not been loaded.
func (c *Cache) Get(ctx context.Context) ([]models.Record, error) {
	c.mu.RLock()
	if c.loaded {
		users := c.users
		c.mu.RUnlock()
		return users, nil
	}
	c.mu.RUnlock()
	return c.load(ctx)
}

// Refresh fetches the list again, whether or not it was loaded. The cached
// list is only replaced when the fetch succeeds; until then Get keeps
// returning it.
func (c *Cache) Refresh(ctx context.Context) ([]models.Record, error) {
	c.mu.Lock()
	c.generation++
	c.mu.Unlock()
	return c.load(ctx)
}

// Invalidate drops the cached list; the next Get fetches it again.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.users = nil
	c.loaded = false
	c.generation++
	c.mu.Unlock()
}

func (c *Cache) load(ctx context.Context) ([]models.Record, error) {
	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	v, err, _ := c.group.Do(fmt.Sprint(gen), func() (any, error) {
		c.mu.RLock()
		if c.loaded && c.loadedGen == gen {
			users := c.users
			c.mu.RUnlock()
			return users, nil
		}
		c.mu.RUnlock()

		users, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.users = users
			c.loaded = true
			c.loadedGen = gen
		}
		c.mu.Unlock()
		return users, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Record), nil
}

// Fields returns the sorted keys of the first user, or nil for an empty list.
func Fields(users []models.Record) []string {
	if len(users) == 0 {
		return nil
	}
	keys := users[0].Keys()
	sort.Strings(keys)
	return keys
}

// Parse reads a user list reply. Each <user> becomes a record holding its
// text under NameKey and one field per attribute.
func Parse(body []byte) ([]models.Record, error) {
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	}
	var nodes []*xmltree.Element
	if root.Name == "users" {
		nodes = root.Children
	} else {
		for _, list := range root.Descendants("users") {
			nodes = append(nodes, list.Children...)
		}
	}

	out := make([]models.Record, 0, len(nodes))
	for _, node := range nodes {
		rec := models.NewRecord(NameKey, strings.TrimSpace(node.Text))
		for _, a := range node.Attrs {
			rec.Set(a.Name, a.Value)
		}
		out = append(out, rec)
	}
	return out, nil
}
