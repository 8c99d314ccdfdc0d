package rets

import (
	"bytes"
	"iter"
	"strings"

	"github.com/jkestr/rechanize/pkg/rets/delim"
	"github.com/pkg/errors"
)

var headerSeparator = []byte("\r\n\r\n")

// ParseMultipart splits a multipart/parallel GetObject body into parts. Any
// other content type is an ErrMultipart.
func ParseMultipart(contentType string, body []byte) (iter.Seq[Part], error) {
	if ClassifyContentType(contentType) != ContentMultipart {
		return nil, errors.Wrapf(ErrMultipart, "%q", contentType)
	}

	return parseParallel(contentType, body)
}

func parseParallel(contentType string, body []byte) (iter.Seq[Part], error) {
	boundary := contentTypeParam(contentType, "boundary")
	if boundary == "" {
		return nil, errors.Wrapf(ErrMultipart, "no boundary in %q", contentType)
	}

	separator := []byte("\r\n--" + boundary)

	// Most servers start the body with the boundary itself, without the CRLF
	// the separator expects.
	if bytes.HasPrefix(body, separator[2:]) {
		body = append([]byte("\r\n"), body...)
	}

	return func(yield func(Part) bool) {
		// Whatever precedes the first boundary is preamble.
		_, rest, found := bytes.Cut(body, separator)
		index := 0

		for found {
			var segment []byte
			segment, rest, found = bytes.Cut(rest, separator)

			rawHeader, data, ok := bytes.Cut(segment, headerSeparator)
			if !ok {
				continue
			}

			part := Part{
				Index:  index,
				Header: delim.ToMap(delim.Multisplit(string(rawHeader), "\n", ":")),
				Data:   data,
			}
			index++

			if !yield(part) {
				return
			}
		}
	}, nil
}

// contentTypeParam returns a parameter of a content-type header value, with
// surrounding quotes removed. Parameter names are matched case insensitively.
func contentTypeParam(contentType, name string) string {
	for _, p := range delim.Multisplit(contentType, ";", "=") {
		if strings.EqualFold(p.Key, name) {
			return strings.Trim(p.Value, `"`)
		}
	}

	return ""
}
