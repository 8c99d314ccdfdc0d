package rets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// MockTransport returns canned envelopes keyed by URL and records every URL
// fetched.
type MockTransport struct {
	err       error
	responses map[string]*Envelope
	Requests  []string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{responses: make(map[string]*Envelope)}
}

func (t *MockTransport) SetError(err error) {
	t.err = err
}

func (t *MockTransport) SetResponse(url, contentType string, body []byte) *MockTransport {
	header := make(http.Header)
	header.Set("Content-Type", contentType)
	t.responses[url] = &Envelope{ContentType: contentType, Header: header, Body: body}
	return t
}

func (t *MockTransport) Fetch(_ context.Context, url string) (*Envelope, error) {
	t.Requests = append(t.Requests, url)

	if t.err != nil {
		return nil, t.err
	}

	env, ok := t.responses[url]
	if !ok {
		return nil, errors.Join(ErrHTTPStatus, fmt.Errorf("(HTTP Status: %d) - no response for %s", http.StatusNotFound, url))
	}

	return env, nil
}
