package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/jkestr/rechanize/pkg/retsdb/retsmodel"
	"gorm.io/gorm"
)

type GormObjectPartStor struct {
	db *gorm.DB
}

func NewGormObjectPartStor(db *gorm.DB) *GormObjectPartStor {
	return &GormObjectPartStor{db: db}
}

func (s *GormObjectPartStor) CreateObjectPart(part *retsmodel.ObjectPart) (*retsmodel.ObjectPart, error) {
	var err error

	if part.UUID, err = uuid.GenerateUUID(); err != nil {
		return nil, err
	}

	err = WithTxRetry(s.db, func(tx *gorm.DB) error {
		return tx.Create(part).Error
	})

	if err != nil {
		return nil, err
	}

	return part, nil
}

func (s *GormObjectPartStor) ListObjectPartsForContentID(contentID string) ([]retsmodel.ObjectPart, error) {
	var parts []retsmodel.ObjectPart
	err := s.db.Where("content_id = ?", contentID).Order("id").Find(&parts).Error
	return parts, err
}
