package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
)

type MemberRepo interface {
	Create(ctx context.Context, tx *gorm.DB, members []*types.HouseholdMember) ([]*types.HouseholdMember, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.HouseholdMember, error)
	GetByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.HouseholdMember, error)
	CountByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (int64, error)
	UpdateRole(ctx context.Context, tx *gorm.DB, memberID uuid.UUID, role types.Role) error
	DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error
	DeleteByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error
}

type memberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemberRepo(db *gorm.DB, baseLog *logger.Logger) MemberRepo {
	repoLog := baseLog.With("repo", "MemberRepo")
	return &memberRepo{db: db, log: repoLog}
}

func (mr *memberRepo) Create(ctx context.Context, tx *gorm.DB, members []*types.HouseholdMember) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(members) == 0 {
		return []*types.HouseholdMember{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (mr *memberRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.HouseholdMember
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) GetByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) ([]*types.HouseholdMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var results []*types.HouseholdMember
	if len(householdIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("User").
		Where("household_id IN ?", householdIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memberRepo) CountByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.HouseholdMember{}).
		Where("household_id = ?", householdID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *memberRepo) UpdateRole(ctx context.Context, tx *gorm.DB, memberID uuid.UUID, role types.Role) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.HouseholdMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
}

func (mr *memberRepo) DeleteByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(userIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Delete(&types.HouseholdMember{}).Error
}

func (mr *memberRepo) DeleteByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(householdIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Delete(&types.HouseholdMember{}).Error
}
