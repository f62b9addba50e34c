package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
)

type InvitationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, invitations []*types.HouseholdInvitation) ([]*types.HouseholdInvitation, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, invitationIDs []uuid.UUID) ([]*types.HouseholdInvitation, error)
	GetPendingByTargetUserIDs(ctx context.Context, tx *gorm.DB, targetUserIDs []uuid.UUID) ([]*types.HouseholdInvitation, error)
	GetPendingByHouseholdAndTarget(ctx context.Context, tx *gorm.DB, householdID, targetUserID uuid.UUID) ([]*types.HouseholdInvitation, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, invitationID uuid.UUID, status types.InvitationStatus) error
}

type invitationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInvitationRepo(db *gorm.DB, baseLog *logger.Logger) InvitationRepo {
	repoLog := baseLog.With("repo", "InvitationRepo")
	return &invitationRepo{db: db, log: repoLog}
}

func (ir *invitationRepo) Create(ctx context.Context, tx *gorm.DB, invitations []*types.HouseholdInvitation) ([]*types.HouseholdInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(invitations) == 0 {
		return []*types.HouseholdInvitation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (ir *invitationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, invitationIDs []uuid.UUID) ([]*types.HouseholdInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.HouseholdInvitation
	if len(invitationIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", invitationIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *invitationRepo) GetPendingByTargetUserIDs(ctx context.Context, tx *gorm.DB, targetUserIDs []uuid.UUID) ([]*types.HouseholdInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.HouseholdInvitation
	if len(targetUserIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("target_user_id IN ? AND status = ?", targetUserIDs, types.InvitationPending).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *invitationRepo) GetPendingByHouseholdAndTarget(ctx context.Context, tx *gorm.DB, householdID, targetUserID uuid.UUID) ([]*types.HouseholdInvitation, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.HouseholdInvitation
	if err := transaction.WithContext(ctx).
		Where("household_id = ? AND target_user_id = ? AND status = ?", householdID, targetUserID, types.InvitationPending).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *invitationRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, invitationID uuid.UUID, status types.InvitationStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	return transaction.WithContext(ctx).
		Model(&types.HouseholdInvitation{}).
		Where("id = ?", invitationID).
		Update("status", status).Error
}
