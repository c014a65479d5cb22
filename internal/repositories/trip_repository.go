package repositories

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"roamly/internal/models/db_models"
)

type TripRepository interface {
	Insert(ctx context.Context, trip *db_models.Trip) error
	FindById(ctx context.Context, id string) (*db_models.Trip, error)
	ListByOwner(ctx context.Context, ownerID string, page int, pageSize int) ([]db_models.Trip, error)
	UpdateEnhancedPlan(ctx context.Context, id string, plan []byte) error
	UpdatePlan(ctx context.Context, id string, plan []byte) error
	UpdateImageRefs(ctx context.Context, id string, refs []byte) error
	Delete(ctx context.Context, id string) (*db_models.Trip, error)
	Restore(ctx context.Context, trip *db_models.Trip) error
}

type tripRepository struct {
	db *gorm.DB
}

func NewTripRepository(db *gorm.DB) TripRepository {
	return &tripRepository{
		db: db,
	}
}

func (t *tripRepository) Insert(ctx context.Context, trip *db_models.Trip) error {
	return t.db.WithContext(ctx).Create(trip).Error
}

func (t *tripRepository) FindById(ctx context.Context, id string) (*db_models.Trip, error) {
	var trip db_models.Trip
	err := t.db.WithContext(ctx).First(&trip, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &trip, nil
}

func (t *tripRepository) ListByOwner(ctx context.Context, ownerID string, page int, pageSize int) ([]db_models.Trip, error) {
	var trips []db_models.Trip
	err := t.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&trips).Error

	if err != nil {
		return nil, err
	}

	return trips, nil
}

// UpdateEnhancedPlan writes the merged plan and flips is_enhanced in a
// single statement, so readers never see the flag without the plan.
func (t *tripRepository) UpdateEnhancedPlan(ctx context.Context, id string, plan []byte) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"trip_plan":   datatypes.JSON(plan),
			"is_enhanced": true,
		}).Error
}

func (t *tripRepository) UpdatePlan(ctx context.Context, id string, plan []byte) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", id).
		Update("trip_plan", datatypes.JSON(plan)).Error
}

func (t *tripRepository) UpdateImageRefs(ctx context.Context, id string, refs []byte) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Trip{}).
		Where("id = ?", id).
		Update("image_refs", datatypes.JSON(refs)).Error
}

// Delete removes the row and returns the deleted document so callers can
// park it for a later restore.
func (t *tripRepository) Delete(ctx context.Context, id string) (*db_models.Trip, error) {
	trip, err := t.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, nil
	}

	if err := t.db.WithContext(ctx).Unscoped().Delete(&db_models.Trip{}, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return trip, nil
}

func (t *tripRepository) Restore(ctx context.Context, trip *db_models.Trip) error {
	return t.db.WithContext(ctx).Create(trip).Error
}
