package connection

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/rubyzoho/zohocrm.go/internal/xmltree"
	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

// Classify decides whether a reply succeeded. On success it returns the
// embedded service code when there is one, else the HTTP status.
//
// Codes the service reports for "no data" are successes. Codes inside a
// <success> element, as batch updates report per row, are never failures.
func Classify(statusCode int, body []byte) (string, error) {
	if statusCode < 200 || statusCode >= 300 {
		return "", &TransportError{StatusCode: statusCode}
	}

	status := strconv.Itoa(statusCode)
	if len(bytes.TrimSpace(body)) == 0 {
		return status, nil
	}

	root, err := xmltree.Parse(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", constants.ErrMalformedResponse, err)
	}

	code, message, found := embeddedStatus(root)
	if !found {
		return status, nil
	}
	if IsBenign(code) {
		return code, nil
	}
	return "", &ServiceError{Code: code, Message: message}
}

// IsBenign reports whether code means "nothing to return" rather than failure.
func IsBenign(code string) bool {
	return slices.Contains(constants.BenignCodes, code)
}

// ClassifyResponse is Classify for a Response.
func ClassifyResponse(res *Response) (string, error) {
	return Classify(res.StatusCode, res.Body)
}

func embeddedStatus(el *xmltree.Element) (string, string, bool) {
	for _, child := range el.Children {
		if child.Name != "code" {
			continue
		}
		var message string
		for _, sibling := range el.Children {
			if sibling.Name == "message" {
				message = strings.TrimSpace(sibling.Text)
				break
			}
		}
		return strings.TrimSpace(child.Text), message, true
	}
	for _, child := range el.Children {
		if child.Name == "success" {
			continue
		}
		if code, message, ok := embeddedStatus(child); ok {
			return code, message, true
		}
	}
	return "", "", false
}
