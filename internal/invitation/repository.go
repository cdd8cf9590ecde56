// Package invitation serves the document CRUD contract over the invitations,
// templates and display-design collections.
package invitation

import (
	"context"
	"time"

	"gorm.io/gorm"

	"invitation-canvas-editor/internal/domain"
	"invitation-canvas-editor/internal/utils"
)

// Filter narrows a listing. Zero fields match everything.
type Filter struct {
	UserID    uint64
	Category  string
	Type      string
	Published *bool
}

type Repository interface {
	FindByID(ctx context.Context, c domain.Collection, id string) (*domain.Record, error)
	FindBySlug(ctx context.Context, c domain.Collection, slug string) (*domain.Record, error)
	List(ctx context.Context, c domain.Collection, f Filter, page, pageSize int) ([]domain.Record, utils.Meta, error)
	Create(ctx context.Context, c domain.Collection, rec *domain.Record) error
	Update(ctx context.Context, c domain.Collection, id string, cols map[string]any) error
	Delete(ctx context.Context, c domain.Collection, id string) error
	SlugExists(ctx context.Context, slug string) (bool, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) table(ctx context.Context, c domain.Collection) *gorm.DB {
	return r.db.WithContext(ctx).Table(string(c))
}

func (r *RepositoryImpl) FindByID(ctx context.Context, c domain.Collection, id string) (*domain.Record, error) {
	var rec domain.Record
	if err := r.table(ctx, c).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RepositoryImpl) FindBySlug(ctx context.Context, c domain.Collection, slug string) (*domain.Record, error) {
	var rec domain.Record
	if err := r.table(ctx, c).Where("slug = ?", slug).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *RepositoryImpl) List(ctx context.Context, c domain.Collection, f Filter, page, pageSize int) ([]domain.Record, utils.Meta, error) {
	query := r.table(ctx, c)
	if f.UserID != 0 {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Type != "" {
		query = query.Where("type = ?", f.Type)
	}
	if f.Published != nil {
		query = query.Where("is_published = ?", *f.Published)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, utils.Meta{}, err
	}

	records := []domain.Record{}
	err := query.Order("updated_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records).Error

	return records, utils.NewMeta(total, page, pageSize), err
}

func (r *RepositoryImpl) Create(ctx context.Context, c domain.Collection, rec *domain.Record) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return r.table(ctx, c).Create(rec).Error
}

// Update writes only cols. It returns gorm.ErrRecordNotFound when no row has id.
func (r *RepositoryImpl) Update(ctx context.Context, c domain.Collection, id string, cols map[string]any) error {
	cols["updated_at"] = time.Now().UTC()
	result := r.table(ctx, c).Where("id = ?", id).Updates(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, c domain.Collection, id string) error {
	result := r.table(ctx, c).Where("id = ?", id).Delete(&domain.Record{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SlugExists checks every collection, since a public URL resolves a slug in any of them.
func (r *RepositoryImpl) SlugExists(ctx context.Context, slug string) (bool, error) {
	for _, c := range domain.Collections() {
		var count int64
		if err := r.table(ctx, c).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return false, err
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
