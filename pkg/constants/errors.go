package constants

import "errors"

// Errors
var (
	ErrTransport           = errors.New("zoho crm transport failure")
	ErrService             = errors.New("zoho crm service error")
	ErrMalformedResponse   = errors.New("malformed zoho crm response")
	ErrInvalidRelatedField = errors.New("not a valid related query field")
	ErrSchemaLoad          = errors.New("field metadata could not be loaded")
	ErrUnknownModule       = errors.New("unknown module")
)

var (
	ErrNoAuthToken = errors.New("auth token not set")
	ErrNoBaseURL   = errors.New("base url not set")
)
