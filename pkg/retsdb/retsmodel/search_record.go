package retsmodel

import (
	"encoding/json"
	"time"

	"github.com/jkestr/rechanize/pkg/rets"
)

// SearchRecord is one row of a saved search. Fields holds the row as a JSON
// object in column order.
type SearchRecord struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex;size:64"`
	Resource    string    `json:"resource" gorm:"index:idx_search_record_resource_class"`
	Class       string    `json:"class" gorm:"index:idx_search_record_resource_class"`
	Query       string    `json:"query"`
	ResourceKey string    `json:"resource_key" gorm:"index"`
	Fields      string    `json:"fields"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SearchRecord) TableName() string {
	return "search_records"
}

// NewSearchRecord fills in everything but the ID and UUID. keyField names the
// column holding the listing key, when blank the first column is used.
func NewSearchRecord(resource, class, query, keyField string, rec rets.Record) (*SearchRecord, error) {
	fields, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}

	sr := &SearchRecord{
		Resource: resource,
		Class:    class,
		Query:    query,
		Fields:   string(fields),
	}

	switch {
	case keyField != "":
		sr.ResourceKey, _ = rec.Get(keyField)
	case rec.Len() > 0:
		sr.ResourceKey = rec.Values()[0]
	}

	return sr, nil
}

// Record decodes Fields back into a rets.Record.
func (r SearchRecord) Record() (rets.Record, error) {
	var rec rets.Record
	err := json.Unmarshal([]byte(r.Fields), &rec)
	return rec, err
}
