package rets

import (
	"bytes"
	"encoding/json"

	"github.com/jkestr/rechanize/pkg/rets/delim"
)

// Record is one row of a compact result set. Fields keep the order of the
// COLUMNS declaration.
type Record struct {
	fields []delim.Pair
}

// NewRecord builds a record from pairs. A repeated field name keeps its
// first position and takes the last value.
func NewRecord(pairs []delim.Pair) Record {
	index := make(map[string]int, len(pairs))
	fields := make([]delim.Pair, 0, len(pairs))

	for _, p := range pairs {
		if i, ok := index[p.Key]; ok {
			fields[i].Value = p.Value
			continue
		}
		index[p.Key] = len(fields)
		fields = append(fields, p)
	}

	return Record{fields: fields}
}

func (r Record) Get(name string) (string, bool) {
	for _, f := range r.fields {
		if f.Key == name {
			return f.Value, true
		}
	}

	return "", false
}

// Fields returns the field names in column order.
func (r Record) Fields() []string {
	names := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		names = append(names, f.Key)
	}

	return names
}

func (r Record) Values() []string {
	values := make([]string, 0, len(r.fields))
	for _, f := range r.fields {
		values = append(values, f.Value)
	}

	return values
}

func (r Record) Map() map[string]string {
	return delim.ToMap(r.fields)
}

func (r Record) Len() int {
	return len(r.fields)
}

// MarshalJSON writes the record as an object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			b.WriteByte(',')
		}

		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}

		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')

	return b.Bytes(), nil
}

// UnmarshalJSON reads an object written by MarshalJSON, keeping key order.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}

	var pairs []delim.Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}

		key, _ := tok.(string)

		var value string
		if err := dec.Decode(&value); err != nil {
			return err
		}

		pairs = append(pairs, delim.Pair{Key: key, Value: value})
	}

	*r = NewRecord(pairs)

	return nil
}
