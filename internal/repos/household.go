package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
)

type HouseholdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.Household, error)
	// GetByIDsWithMembers preloads members and their user rows.
	GetByIDsWithMembers(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.Household, error)
	GetByInviteCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Household, error)
	UpdateInviteCode(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, code string) error
	// DeleteByIDs hard-deletes households. Membership rows cascade via FK;
	// invitation and finance rows are the caller's responsibility.
	DeleteByIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	repoLog := baseLog.With("repo", "HouseholdRepo")
	return &householdRepo{db: db, log: repoLog}
}

func (hr *householdRepo) Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if len(households) == 0 {
		return []*types.Household{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (hr *householdRepo) GetByIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.Household
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", householdIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *householdRepo) GetByIDsWithMembers(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.Household
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Members").
		Preload("Members.User").
		Where("id IN ?", householdIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *householdRepo) GetByInviteCodes(ctx context.Context, tx *gorm.DB, codes []string) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	var results []*types.Household
	if len(codes) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("invite_code IN ?", codes).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *householdRepo) UpdateInviteCode(ctx context.Context, tx *gorm.DB, householdID uuid.UUID, code string) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Household{}).
		Where("id = ?", householdID).
		Update("invite_code", code).Error
}

func (hr *householdRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if len(householdIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", householdIDs).
		Delete(&types.Household{}).Error
}
