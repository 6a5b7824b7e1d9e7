package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
)

var (
	// targetURLKeys are the accepted names of the target url field,
	// in order of precedence.
	targetURLKeys = []string{"targetUrl", "gitUrl", "git-url"}

	// revisionKeys are the accepted names of the revision field,
	// in order of precedence.
	revisionKeys = []string{"revision", "gitCommit", "git-commit"}
)

// Request is the inbound payload of a single invocation.
type Request struct {
	// TargetURL identifies the source location handed to the worker.
	TargetURL string `json:"targetUrl"`

	// Revision is an optional commit or version identifier.
	Revision string `json:"revision,omitempty"`
}

// Args returns the positional argument list for the worker binary.
// The list is [targetUrl] if no revision is set, and [targetUrl, revision]
// otherwise. Values are passed verbatim.
func (r Request) Args() []string {
	if r.Revision == "" {
		return []string{r.TargetURL}
	}

	return []string{r.TargetURL, r.Revision}
}

// ParseRequest extracts a request from a JSON object. The fields are read
// from the top level of the object, or, if the top level does not carry a
// target url, from the object nested under the "body" key. The nested body
// may either be an object or a JSON-encoded string.
//
// ParseRequest does not check whether a target url is present.
func ParseRequest(data []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	if !hasAnyKey(fields, targetURLKeys) {
		if body, ok := fields["body"]; ok {
			return parseBody(body)
		}
	}

	return requestFromFields(fields)
}

func parseBody(body json.RawMessage) (Request, error) {
	// api gateway events carry the body as a json-encoded string
	var encoded string
	if err := json.Unmarshal(body, &encoded); err == nil {
		body = json.RawMessage(encoded)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return Request{}, fmt.Errorf("%w: body: %w", ErrInvalidPayload, err)
	}

	return requestFromFields(fields)
}

func requestFromFields(fields map[string]json.RawMessage) (Request, error) {
	var req Request

	url, err := stringField(fields, targetURLKeys)
	if err != nil {
		return req, err
	}

	revision, err := stringField(fields, revisionKeys)
	if err != nil {
		return req, err
	}

	req.TargetURL = url
	req.Revision = revision

	return req, nil
}

// stringField returns the value of the first key present in fields.
// Null values are treated as absent.
func stringField(fields map[string]json.RawMessage, keys []string) (string, error) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok || string(raw) == "null" {
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return "", fmt.Errorf("%w: field %q must be a string", ErrInvalidPayload, key)
		}

		return value, nil
	}

	return "", nil
}

func hasAnyKey(fields map[string]json.RawMessage, keys []string) bool {
	for _, key := range keys {
		if _, ok := fields[key]; ok {
			return true
		}
	}

	return false
}
