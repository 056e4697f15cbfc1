package zohocrm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rubyzoho/zohocrm.go/internal/xmltree"
	"github.com/rubyzoho/zohocrm.go/pkg/connection"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
	"github.com/rubyzoho/zohocrm.go/pkg/models"
)

const actionFields = "getFields"

// RemoteSource reads field metadata from the service's getFields call.
// It is what New uses when neither a source nor a fields file is given.
type RemoteSource struct {
	endpoint
}

// NewRemoteSource creates a source calling the service at baseURL.
func NewRemoteSource(conn connection.Connection, baseURL, authToken string) *RemoteSource {
	return &RemoteSource{endpoint: endpoint{
		conn:      conn,
		baseURL:   strings.TrimRight(baseURL, "/"),
		authToken: authToken,
		logger:    zerolog.Nop(),
	}}
}

// Describe lists the fields of module in the order the service reports them.
// The Users module has no field metadata and describes as empty.
func (s *RemoteSource) Describe(ctx context.Context, module string) ([]models.FieldDescriptor, error) {
	if module == usersModule {
		return nil, nil
	}

	params := url.Values{}
	params.Set("newFormat", "1")

	body, err := s.call(ctx, http.MethodGet, module, actionFields, params)
	if err != nil || body == nil {
		return nil, err
	}
	return ParseFields(body)
}

// ParseFields reads a getFields reply. Every FL element contributes a field
// named by its label, or its display value when it has no label.
func ParseFields(body []byte) ([]models.FieldDescriptor, error) {
	root, err := xmltree.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	}

	var out []models.FieldDescriptor
	for _, fl := range root.Descendants("FL") {
		name, ok := fl.Attr("label")
		if !ok || name == "" {
			name, _ = fl.Attr("dv")
		}
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		typ, _ := fl.Attr("type")
		out = append(out, models.NewFieldDescriptor(name, models.ParseFieldType(typ)))
	}
	return out, nil
}
