package connection

import (
	"fmt"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

// TransportError is a non-2xx reply or a request that never got a reply.
type TransportError struct {
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("web service call failed: %v", e.Err)
	}
	return fmt.Sprintf("web service call failed with status %d", e.StatusCode)
}

func (e *TransportError) Unwrap() []error {
	if e.Err != nil {
		return []error{constants.ErrTransport, e.Err}
	}
	return []error{constants.ErrTransport}
}

// ServiceError is a rejection the service reported inside a 2xx reply.
type ServiceError struct {
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Is(target error) bool {
	return target == constants.ErrService
}
