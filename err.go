package zohocrm

import (
	"github.com/rubyzoho/zohocrm.go/pkg/connection"
	"github.com/rubyzoho/zohocrm.go/pkg/query"
	"github.com/rubyzoho/zohocrm.go/pkg/schema"
)

type (
	// TransportError is a non-2xx reply or a call that never got a reply.
	TransportError = connection.TransportError
	// ServiceError is a rejection the service reported in a 2xx reply.
	ServiceError = connection.ServiceError
	// InvalidRelatedFieldError is returned, before any call is made, for a
	// related-record search the module does not support.
	InvalidRelatedFieldError = query.InvalidRelatedFieldError
	// SchemaLoadError names the module whose field metadata failed to load.
	SchemaLoadError = schema.LoadError
	// UnknownModuleError names a module the client was not configured with.
	UnknownModuleError = schema.UnknownModuleError
)
