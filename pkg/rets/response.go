package rets

import (
	"errors"
	"iter"
	"net/http"
	"strings"

	"github.com/apex/log"
)

// Envelope is a response as handed back by a Transport.
type Envelope struct {
	ContentType string
	Header      http.Header
	Body        []byte
}

// ContentKind is the parsing strategy chosen for a response.
type ContentKind int

const (
	ContentUnknown ContentKind = iota
	ContentXML
	ContentMultipart
	ContentImage
)

func (k ContentKind) String() string {
	switch k {
	case ContentXML:
		return "xml"
	case ContentMultipart:
		return "multipart"
	case ContentImage:
		return "image"
	default:
		return "unknown"
	}
}

// ClassifyContentType picks a ContentKind from a content-type header value.
func ClassifyContentType(contentType string) ContentKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "text/xml"):
		return ContentXML
	case strings.Contains(ct, "multipart/parallel"):
		return ContentMultipart
	case strings.Contains(ct, "image/"):
		return ContentImage
	default:
		return ContentUnknown
	}
}

// Part is one attachment of a GetObject response.
type Part struct {
	Index  int
	Header map[string]string
	Data   []byte
}

// HeaderValue looks name up ignoring case. Parts of a multipart body keep
// header names as sent while a single image reply has canonical names.
func (p Part) HeaderValue(name string) string {
	if v, ok := p.Header[name]; ok {
		return v
	}

	for key, v := range p.Header {
		if strings.EqualFold(key, name) {
			return v
		}
	}

	return ""
}

// Result holds a parsed response. Records and Parts are single pass, once
// a sequence has been ranged over (or abandoned part way) it yields nothing.
// Only one of the two is populated, depending on Kind.
type Result struct {
	Kind        ContentKind
	ContentType string

	count    int
	hasCount bool
	records  iter.Seq[Record]
	parts    iter.Seq[Part]
	consumed bool
}

func (r *Result) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		if r.consumed || r.records == nil {
			return
		}
		r.consumed = true
		r.records(yield)
	}
}

func (r *Result) Parts() iter.Seq[Part] {
	return func(yield func(Part) bool) {
		if r.consumed || r.parts == nil {
			return
		}
		r.consumed = true
		r.parts(yield)
	}
}

// Count returns the record count a server sends for a search made with
// Count=1 or Count=2.
func (r *Result) Count() (int, bool) {
	return r.count, r.hasCount
}

// CollectRecords drains the result into a slice.
func (r *Result) CollectRecords() []Record {
	var records []Record
	for rec := range r.Records() {
		records = append(records, rec)
	}

	return records
}

// CollectParts drains the result into a slice.
func (r *Result) CollectParts() []Part {
	var parts []Part
	for p := range r.Parts() {
		parts = append(parts, p)
	}

	return parts
}

// Parser turns envelopes into results.
type Parser struct {
	log log.Interface
}

func NewParser(logger log.Interface) *Parser {
	if logger == nil {
		logger = log.Log
	}

	return &Parser{log: logger}
}

// Parse classifies env once and runs the matching parser. A response whose
// content type isn't recognised is tried as compact XML since servers often
// send error replies as text/plain. Any failure of that attempt is an
// ErrUnsupportedContentType, joined with the *RequestError when the reply
// carried a failing code.
func (p *Parser) Parse(env *Envelope) (*Result, error) {
	contentType := env.ContentType
	if contentType == "" && env.Header != nil {
		contentType = env.Header.Get("Content-Type")
	}

	result := &Result{Kind: ClassifyContentType(contentType), ContentType: contentType}

	switch result.Kind {
	case ContentXML:
		if err := p.parseCompact(env.Body, result); err != nil {
			return nil, err
		}

	case ContentMultipart:
		parts, err := parseParallel(contentType, env.Body)
		if err != nil {
			return nil, err
		}
		result.parts = parts

	case ContentImage:
		part := Part{Index: 0, Header: flattenHeader(env.Header), Data: env.Body}
		result.parts = func(yield func(Part) bool) {
			yield(part)
		}

	default:
		err := p.parseCompact(env.Body, result)
		var reqErr *RequestError
		switch {
		case err == nil:
		case errors.As(err, &reqErr):
			return nil, errors.Join(unsupportedContentType(contentType), err)
		default:
			p.log.WithError(err).Debugf("Fallback compact parse failed for %q", contentType)
			return nil, unsupportedContentType(contentType)
		}
	}

	return result, nil
}

func flattenHeader(h http.Header) map[string]string {
	flat := make(map[string]string, len(h))
	for key, values := range h {
		flat[key] = strings.Join(values, ", ")
	}

	return flat
}
