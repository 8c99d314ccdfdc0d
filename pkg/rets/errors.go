package rets

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrAuthentication         = errors.New("rets authentication failed")
	ErrInvalidPath            = errors.New("invalid path")
	ErrUnsupportedRequest     = errors.New("unsupported request")
	ErrRequest                = errors.New("rets request failed")
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrMultipart is a more specific ErrUnsupportedContentType, errors.Is
	// matches both.
	ErrMultipart = fmt.Errorf("multipart: %w", ErrUnsupportedContentType)
)

// RequestError is returned when the server answers with a reply code other
// than success or no records found.
type RequestError struct {
	Code string
	Text string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("[RETS %s] %s", e.Code, e.Text)
}

func (e *RequestError) Unwrap() error {
	return ErrRequest
}

func invalidPath(path string) error {
	return errors.Wrapf(ErrInvalidPath, "%q must start with /", path)
}

func unsupportedContentType(contentType string) error {
	return errors.Wrapf(ErrUnsupportedContentType, "%q", contentType)
}
