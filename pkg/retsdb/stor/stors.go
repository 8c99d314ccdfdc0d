package stor

import (
	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
)

type SearchRecordStor interface {
	SaveRecords(resource, class, query, keyField string, records []rets.Record) ([]retsmodel.SearchRecord, error)
	GetRecordByUUID(uuid string) (*retsmodel.SearchRecord, error)
	ListRecordsByResourceKey(resourceKey string) ([]retsmodel.SearchRecord, error)
	ListRecordsForQuery(query string) ([]retsmodel.SearchRecord, error)
}

type ObjectPartStor interface {
	CreateObjectPart(part *retsmodel.ObjectPart) (*retsmodel.ObjectPart, error)
	ListObjectPartsForContentID(contentID string) ([]retsmodel.ObjectPart, error)
}

type MetadataSnapshotStor interface {
	CreateMetadataSnapshot(snapshot *retsmodel.MetadataSnapshot) (*retsmodel.MetadataSnapshot, error)
	GetLatestMetadataSnapshot(host, typ string) (*retsmodel.MetadataSnapshot, error)
}
