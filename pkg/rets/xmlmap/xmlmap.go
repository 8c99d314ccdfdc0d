// Package xmlmap turns an XML document into nested string keyed maps.
//
// The root element is stripped, attributes and child elements become keys of
// the same map, a tag that repeats collapses into a []any in document order
// and an element with neither attributes nor children becomes its text. Text
// is kept exactly as sent since RETS compact data is tab delimited and a
// leading or trailing tab is significant.
package xmlmap

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

// ContentKey holds the text of an element that also has attributes or children.
const ContentKey = "content"

var ErrNoRootElement = errors.New("xml document has no root element")

// Parse decodes data and returns the contents of its root element.
func Parse(data []byte) (map[string]any, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charset.NewReaderLabel
	d.Entity = xml.HTMLEntity

	for {
		tok, err := d.Token()
		switch {
		case err == io.EOF:
			return nil, ErrNoRootElement
		case err != nil:
			return nil, errors.Wrap(err, "xml parse")
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		v, err := decodeElement(d, start)
		if err != nil {
			return nil, err
		}

		if m, ok := v.(map[string]any); ok {
			return m, nil
		}

		return map[string]any{ContentKey: v}, nil
	}
}

func decodeElement(d *xml.Decoder, start xml.StartElement) (any, error) {
	var (
		text        strings.Builder
		hasChildren bool
	)

	m := make(map[string]any, len(start.Attr))
	for _, attr := range start.Attr {
		m[attr.Name.Local] = attr.Value
	}

	for {
		tok, err := d.Token()
		switch {
		case err == io.EOF:
			return nil, errors.Wrapf(io.ErrUnexpectedEOF, "xml parse: element <%s> not closed", start.Name.Local)
		case err != nil:
			return nil, errors.Wrap(err, "xml parse")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			v, err := decodeElement(d, t)
			if err != nil {
				return nil, err
			}
			hasChildren = true
			add(m, t.Name.Local, v)

		case xml.CharData:
			text.Write(t)

		case xml.EndElement:
			if len(start.Attr) == 0 && !hasChildren {
				return text.String(), nil
			}

			if s := text.String(); strings.TrimSpace(s) != "" {
				m[ContentKey] = s
			}

			return m, nil
		}
	}
}

func add(m map[string]any, key string, v any) {
	existing, ok := m[key]
	if !ok {
		m[key] = v
		return
	}

	if list, ok := existing.([]any); ok {
		m[key] = append(list, v)
		return
	}

	m[key] = []any{existing, v}
}

// String returns m[key] when it holds text.
func String(m map[string]any, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

// Strings returns m[key] as a list of text values. A single occurrence is
// returned as a one element list and a missing key as nil.
func Strings(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case string:
		return []string{v}
	case []any:
		values := make([]string, 0, len(v))
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}

// Map returns m[key] when it holds a nested element.
func Map(m map[string]any, key string) (map[string]any, bool) {
	nested, ok := m[key].(map[string]any)
	return nested, ok
}
