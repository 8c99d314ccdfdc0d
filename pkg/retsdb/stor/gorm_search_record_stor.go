package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/jkestr/rechanize/pkg/rets"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"gorm.io/gorm"
)

type GormSearchRecordStor struct {
	db *gorm.DB
}

func NewGormSearchRecordStor(db *gorm.DB) *GormSearchRecordStor {
	return &GormSearchRecordStor{db: db}
}

// SaveRecords stores every record in a single transaction, nothing is
// saved if any insert fails.
func (s *GormSearchRecordStor) SaveRecords(resource, class, query, keyField string, records []rets.Record) ([]retsmodel.SearchRecord, error) {
	saved, err := toSearchRecords(resource, class, query, keyField, records)
	if err != nil {
		return nil, err
	}

	if len(saved) == 0 {
		return saved, nil
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(&saved).Error
	})

	if err != nil {
		return nil, err
	}

	return saved, nil
}

func (s *GormSearchRecordStor) GetRecordByUUID(recordUUID string) (*retsmodel.SearchRecord, error) {
	var record retsmodel.SearchRecord
	if err := s.db.Where("uuid = ?", recordUUID).First(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *GormSearchRecordStor) ListRecordsByResourceKey(resourceKey string) ([]retsmodel.SearchRecord, error) {
	var records []retsmodel.SearchRecord
	err := s.db.Where("resource_key = ?", resourceKey).Order("id").Find(&records).Error
	return records, err
}

func (s *GormSearchRecordStor) ListRecordsForQuery(query string) ([]retsmodel.SearchRecord, error) {
	var records []retsmodel.SearchRecord
	err := s.db.Where("query = ?", query).Order("id").Find(&records).Error
	return records, err
}

func toSearchRecords(resource, class, query, keyField string, records []rets.Record) ([]retsmodel.SearchRecord, error) {
	saved := make([]retsmodel.SearchRecord, 0, len(records))
	for _, rec := range records {
		sr, err := retsmodel.NewSearchRecord(resource, class, query, keyField, rec)
		if err != nil {
			return nil, err
		}

		if sr.UUID, err = uuid.GenerateUUID(); err != nil {
			return nil, err
		}

		saved = append(saved, *sr)
	}

	return saved, nil
}
