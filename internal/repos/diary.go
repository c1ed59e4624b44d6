package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/seojin-dev/moodshift-backend/internal/platform/logger"
	"github.com/seojin-dev/moodshift-backend/internal/types"
)

type DiaryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, diary *types.Diary) (*types.Diary, error)
	GetByID(ctx context.Context, tx *gorm.DB, diaryID uuid.UUID) (*types.Diary, error)
	GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.Diary, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Diary, error)
	ListByMonth(ctx context.Context, tx *gorm.DB, userID uuid.UUID, year, month int) ([]*types.Diary, error)
	Save(ctx context.Context, tx *gorm.DB, diary *types.Diary) (*types.Diary, error)
	Delete(ctx context.Context, tx *gorm.DB, diaryID uuid.UUID) error
}

type diaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiaryRepo(db *gorm.DB, baseLog *logger.Logger) DiaryRepo {
	return &diaryRepo{db: db, log: baseLog.With("repo", "DiaryRepo")}
}

func (dr *diaryRepo) Create(ctx context.Context, tx *gorm.DB, diary *types.Diary) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Create(diary).Error; err != nil {
		return nil, translateError(err)
	}
	return diary, nil
}

func (dr *diaryRepo) GetByID(ctx context.Context, tx *gorm.DB, diaryID uuid.UUID) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Diary
	if err := transaction.WithContext(ctx).
		Where("id = ?", diaryID).
		First(&result).Error; err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}

func (dr *diaryRepo) GetByUserAndDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var result types.Diary
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND diary_date = ?", userID, date).
		First(&result).Error; err != nil {
		return nil, translateError(err)
	}
	return &result, nil
}

func (dr *diaryRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, offset, limit int) ([]*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	var results []*types.Diary
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("diary_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *diaryRepo) ListByMonth(ctx context.Context, tx *gorm.DB, userID uuid.UUID, year, month int) ([]*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	// ISO date strings compare lexicographically, so a month is a prefix
	// range.
	start := fmt.Sprintf("%04d-%02d-01", year, month)
	nextYear, nextMonth := year, month+1
	if nextMonth > 12 {
		nextYear, nextMonth = year+1, 1
	}
	end := fmt.Sprintf("%04d-%02d-01", nextYear, nextMonth)

	var results []*types.Diary
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND diary_date >= ? AND diary_date < ?", userID, start, end).
		Order("diary_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *diaryRepo) Save(ctx context.Context, tx *gorm.DB, diary *types.Diary) (*types.Diary, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	if err := transaction.WithContext(ctx).Save(diary).Error; err != nil {
		return nil, translateError(err)
	}
	return diary, nil
}

func (dr *diaryRepo) Delete(ctx context.Context, tx *gorm.DB, diaryID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}

	return translateError(transaction.WithContext(ctx).
		Where("id = ?", diaryID).
		Delete(&types.Diary{}).Error)
}
