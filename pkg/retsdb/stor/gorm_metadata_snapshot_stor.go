package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"gorm.io/gorm"
)

type GormMetadataSnapshotStor struct {
	db *gorm.DB
}

func NewGormMetadataSnapshotStor(db *gorm.DB) *GormMetadataSnapshotStor {
	return &GormMetadataSnapshotStor{db: db}
}

func (s *GormMetadataSnapshotStor) CreateMetadataSnapshot(snapshot *retsmodel.MetadataSnapshot) (*retsmodel.MetadataSnapshot, error) {
	var err error

	if snapshot.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(snapshot).Error
	})

	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (s *GormMetadataSnapshotStor) GetLatestMetadataSnapshot(host, typ string) (*retsmodel.MetadataSnapshot, error) {
	var snapshot retsmodel.MetadataSnapshot
	err := s.db.Where("host = ? AND type = ?", host, typ).Order("id desc").First(&snapshot).Error
	if err != nil {
		return nil, err
	}

	return &snapshot, nil
}
