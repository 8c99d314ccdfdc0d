package rets

import (
	"iter"
	"strconv"
	"strings"

	"github.com/jkestr/rechanize/pkg/rets/delim"
	"github.com/jkestr/rechanize/pkg/rets/xmlmap"
	"github.com/pkg/errors"
)

const (
	ReplyCodeSuccess   = "0"
	ReplyCodeNoRecords = "20201"

	defaultDelimiter = "\t"
)

var errNoReplyCode = errors.New("compact reply: no ReplyCode")

// parseCompact decodes a COMPACT reply and fills result with a lazy record
// sequence. The document and reply code are checked up front, rows are split
// as they are consumed.
func (p *Parser) parseCompact(body []byte, result *Result) error {
	doc, err := xmlmap.Parse(body)
	if err != nil {
		return errors.Wrap(err, "compact reply")
	}

	code, ok := xmlmap.String(doc, "ReplyCode")
	if !ok {
		return errNoReplyCode
	}
	text, _ := xmlmap.String(doc, "ReplyText")

	switch code {
	case ReplyCodeSuccess:
	case ReplyCodeNoRecords:
		p.log.Debugf("No records found: %s", text)
		return nil
	default:
		p.log.Warnf("Unknown reply code %s %s", code, text)
		return &RequestError{Code: code, Text: text}
	}

	if count, ok := xmlmap.Map(doc, "COUNT"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(toString(count["Records"]))); err == nil {
			result.count, result.hasCount = n, true
		}
	}

	d, err := compactDelimiter(doc)
	if err != nil {
		return err
	}

	columns, ok := xmlmap.String(doc, "COLUMNS")
	if !ok {
		return nil
	}

	rows := xmlmap.Strings(doc, "DATA")
	framed := strings.HasPrefix(columns, d)
	fields := strings.Split(unframe(columns, d, framed), d)

	result.records = compactRecords(fields, rows, d, framed)

	return nil
}

func compactRecords(fields, rows []string, d string, framed bool) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, row := range rows {
			// <DATA></DATA> carries no row at all.
			if row == "" {
				continue
			}
			values := strings.Split(unframe(row, d, framed), d)
			if !yield(NewRecord(delim.Zip(fields, values))) {
				return
			}
		}
	}
}

// compactDelimiter reads <DELIMITER value="09"/>, the decimal character code
// of the field separator. Tab is assumed when the element is missing.
func compactDelimiter(doc map[string]any) (string, error) {
	el, ok := xmlmap.Map(doc, "DELIMITER")
	if !ok {
		return defaultDelimiter, nil
	}

	raw := strings.TrimSpace(toString(el["value"]))
	if raw == "" {
		return defaultDelimiter, nil
	}

	code, err := strconv.Atoi(raw)
	if err != nil || code <= 0 || code > 255 {
		return "", errors.Errorf("compact reply: bad delimiter value %q", raw)
	}

	return string(rune(code)), nil
}

// unframe strips a single leading and trailing delimiter from a framed
// COLUMNS or DATA value, eg "\tA\tB\t" becomes "A\tB".
func unframe(s, d string, framed bool) string {
	if !framed {
		return s
	}

	s = strings.TrimPrefix(s, d)
	return strings.TrimSuffix(s, d)
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}
