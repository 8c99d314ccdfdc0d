package stor

import (
	"fmt"
	"sync"

	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"gorm.io/gorm"
)

// InMemorySearchRecordStor keeps saved records in a slice. Lookups that find
// nothing return gorm.ErrRecordNotFound like the gorm stors do.
type InMemorySearchRecordStor struct {
	mu      sync.Mutex
	records []retsmodel.SearchRecord
}

func NewInMemorySearchRecordStor() *InMemorySearchRecordStor {
	return &InMemorySearchRecordStor{}
}

func (s *InMemorySearchRecordStor) SaveRecords(resource, class, query, keyField string, records []rets.Record) ([]retsmodel.SearchRecord, error) {
	saved, err := toSearchRecords(resource, class, query, keyField, records)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range saved {
		saved[i].ID = len(s.records) + 1
		s.records = append(s.records, saved[i])
	}

	return saved, nil
}

func (s *InMemorySearchRecordStor) GetRecordByUUID(recordUUID string) (*retsmodel.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.UUID == recordUUID {
			return &r, nil
		}
	}

	return nil, fmt.Errorf("no such record %s: %w", recordUUID, gorm.ErrRecordNotFound)
}

func (s *InMemorySearchRecordStor) ListRecordsByResourceKey(resourceKey string) ([]retsmodel.SearchRecord, error) {
	return s.filter(func(r retsmodel.SearchRecord) bool { return r.ResourceKey == resourceKey }), nil
}

func (s *InMemorySearchRecordStor) ListRecordsForQuery(query string) ([]retsmodel.SearchRecord, error) {
	return s.filter(func(r retsmodel.SearchRecord) bool { return r.Query == query }), nil
}

func (s *InMemorySearchRecordStor) filter(keep func(retsmodel.SearchRecord) bool) []retsmodel.SearchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var records []retsmodel.SearchRecord
	for _, r := range s.records {
		if keep(r) {
			records = append(records, r)
		}
	}

	return records
}

type InMemoryObjectPartStor struct {
	mu    sync.Mutex
	parts []retsmodel.ObjectPart
}

func NewInMemoryObjectPartStor() *InMemoryObjectPartStor {
	return &InMemoryObjectPartStor{}
}

func (s *InMemoryObjectPartStor) CreateObjectPart(part *retsmodel.ObjectPart) (*retsmodel.ObjectPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	part.ID = len(s.parts) + 1
	part.UUID = fmt.Sprintf("object-part-%d", part.ID)
	s.parts = append(s.parts, *part)

	return part, nil
}

func (s *InMemoryObjectPartStor) ListObjectPartsForContentID(contentID string) ([]retsmodel.ObjectPart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var parts []retsmodel.ObjectPart
	for _, p := range s.parts {
		if p.ContentID == contentID {
			parts = append(parts, p)
		}
	}

	return parts, nil
}

type InMemoryMetadataSnapshotStor struct {
	mu        sync.Mutex
	snapshots []retsmodel.MetadataSnapshot
}

func NewInMemoryMetadataSnapshotStor() *InMemoryMetadataSnapshotStor {
	return &InMemoryMetadataSnapshotStor{}
}

func (s *InMemoryMetadataSnapshotStor) CreateMetadataSnapshot(snapshot *retsmodel.MetadataSnapshot) (*retsmodel.MetadataSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot.ID = len(s.snapshots) + 1
	snapshot.UUID = fmt.Sprintf("metadata-snapshot-%d", snapshot.ID)
	s.snapshots = append(s.snapshots, *snapshot)

	return snapshot, nil
}

func (s *InMemoryMetadataSnapshotStor) GetLatestMetadataSnapshot(host, typ string) (*retsmodel.MetadataSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if snap := s.snapshots[i]; snap.Host == host && snap.Type == typ {
			return &snap, nil
		}
	}

	return nil, fmt.Errorf("no %s metadata for %s: %w", typ, host, gorm.ErrRecordNotFound)
}
