package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contacthub/backend/internal/logger"
	"github.com/contacthub/backend/internal/types"
)

type ContactRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) (*types.Contact, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Contact, error)
	GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error)
	GetFavoritesByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error)
	GetByOwnerIDs(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) ([]*types.Contact, error)
	Save(ctx context.Context, tx *gorm.DB, contact *types.Contact) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Contact, error)
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (cr *contactRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return cr.db
}

func (cr *contactRepo) Create(ctx context.Context, tx *gorm.DB, contact *types.Contact) (*types.Contact, error) {
	if err := cr.conn(tx).WithContext(ctx).Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

func (cr *contactRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Contact, error) {
	var contact types.Contact
	if err := cr.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (cr *contactRepo) GetByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	if err := cr.conn(tx).WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) GetFavoritesByOwnerID(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	if err := cr.conn(tx).WithContext(ctx).
		Where("owner_id = ? AND favorite = ?", ownerID, true).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) GetByOwnerIDs(ctx context.Context, tx *gorm.DB, ownerIDs []uuid.UUID) ([]*types.Contact, error) {
	var results []*types.Contact
	if len(ownerIDs) == 0 {
		return results, nil
	}
	if err := cr.conn(tx).WithContext(ctx).
		Where("owner_id IN ?", ownerIDs).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *contactRepo) Save(ctx context.Context, tx *gorm.DB, contact *types.Contact) error {
	return cr.conn(tx).WithContext(ctx).Save(contact).Error
}

func (cr *contactRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return cr.conn(tx).WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Contact{}).Error
}

func (cr *contactRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := cr.conn(tx).WithContext(ctx).
		Model(&types.Contact{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *contactRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Contact, error) {
	var results []*types.Contact
	if err := cr.conn(tx).WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
