package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/apierr"
	"github.com/3-da/sharedbudget-backend/internal/platform/kvstore"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/repos"
	"github.com/3-da/sharedbudget-backend/internal/utils"
)

const inviteCodeRetries = 5

type HouseholdService interface {
	Create(ctx context.Context, userID uuid.UUID, name string, maxMembers int) (*types.Household, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.Household, error)
	JoinByCode(ctx context.Context, userID uuid.UUID, inviteCode string) (*types.Household, error)
	RegenerateInviteCode(ctx context.Context, userID uuid.UUID) (string, error)
	Leave(ctx context.Context, userID uuid.UUID) error
	RemoveMember(ctx context.Context, ownerID, memberUserID uuid.UUID) error
	TransferOwnership(ctx context.Context, ownerID, newOwnerUserID uuid.UUID) error
}

type householdService struct {
	db            *gorm.DB
	log           *logger.Logger
	kv            kvstore.Store
	userRepo      repos.UserRepo
	householdRepo repos.HouseholdRepo
	memberRepo    repos.MemberRepo
	financeRepo   repos.FinanceRepo
	notifier      Notifier
}

func NewHouseholdService(
	db *gorm.DB,
	log *logger.Logger,
	kv kvstore.Store,
	userRepo repos.UserRepo,
	householdRepo repos.HouseholdRepo,
	memberRepo repos.MemberRepo,
	financeRepo repos.FinanceRepo,
	notifier Notifier,
) HouseholdService {
	serviceLog := log.With("service", "HouseholdService")
	return &householdService{
		db:            db,
		log:           serviceLog,
		kv:            kv,
		userRepo:      userRepo,
		householdRepo: householdRepo,
		memberRepo:    memberRepo,
		financeRepo:   financeRepo,
		notifier:      notifier,
	}
}

func summaryCacheKey(householdID uuid.UUID) string {
	return "household:summary:" + householdID.String()
}

func (hs *householdService) invalidateSummary(ctx context.Context, householdID uuid.UUID) {
	if err := hs.kv.Del(ctx, summaryCacheKey(householdID)); err != nil {
		hs.log.Warn("Failed to invalidate summary cache", "household_id", householdID.String(), "error", err)
	}
}

// membership returns the caller's membership row, or NotFound when the user
// belongs to no household.
func (hs *householdService) membership(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.HouseholdMember, error) {
	members, err := hs.memberRepo.GetByUserIDs(ctx, tx, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if len(members) == 0 {
		return nil, apierr.NotFound("no_household", "user is not a member of any household")
	}
	return members[0], nil
}

func (hs *householdService) Create(ctx context.Context, userID uuid.UUID, name string, maxMembers int) (*types.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.BadRequest("missing_name", "household name is required")
	}
	if maxMembers == 0 {
		maxMembers = types.DefaultMaxMembers
	}
	if maxMembers < 1 {
		return nil, apierr.BadRequest("invalid_max_members", "maxMembers must be at least 1")
	}

	existing, err := hs.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if len(existing) > 0 {
		return nil, apierr.Conflict("already_in_household", "user already belongs to a household")
	}

	household := &types.Household{
		ID:         uuid.New(),
		Name:       name,
		MaxMembers: maxMembers,
	}
	member := &types.HouseholdMember{
		ID:          uuid.New(),
		HouseholdID: household.ID,
		UserID:      userID,
		Role:        types.RoleOwner,
		JoinedAt:    time.Now().UTC(),
	}

	// The invite code has a unique index, so a collision surfaces as a
	// duplicated-key error and we retry with a fresh code.
	var txErr error
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err := utils.NewInviteCode()
		if err != nil {
			return nil, fmt.Errorf("generate invite code: %w", err)
		}
		household.InviteCode = code
		txErr = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if _, err := hs.householdRepo.Create(ctx, tx, []*types.Household{household}); err != nil {
				return err
			}
			if _, err := hs.memberRepo.Create(ctx, tx, []*types.HouseholdMember{member}); err != nil {
				return err
			}
			return nil
		})
		if txErr == nil {
			break
		}
		if !errors.Is(txErr, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			// Exhausted retries, or the member row collided because the
			// user joined elsewhere concurrently.
			return nil, apierr.Conflict("already_in_household", "user already belongs to a household")
		}
		return nil, fmt.Errorf("create household: %w", txErr)
	}

	hs.log.Info("Household created", "household_id", household.ID.String(), "user_id", userID.String())
	return hs.Get(ctx, userID)
}

func (hs *householdService) Get(ctx context.Context, userID uuid.UUID) (*types.Household, error) {
	member, err := hs.membership(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	households, err := hs.householdRepo.GetByIDsWithMembers(ctx, nil, []uuid.UUID{member.HouseholdID})
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	if len(households) == 0 {
		return nil, apierr.NotFound("household_not_found", "household no longer exists")
	}
	return households[0], nil
}

func (hs *householdService) JoinByCode(ctx context.Context, userID uuid.UUID, inviteCode string) (*types.Household, error) {
	inviteCode = strings.ToUpper(strings.TrimSpace(inviteCode))
	if inviteCode == "" {
		return nil, apierr.BadRequest("missing_invite_code", "invite code is required")
	}

	existing, err := hs.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if len(existing) > 0 {
		return nil, apierr.Conflict("already_in_household", "user already belongs to a household")
	}

	households, err := hs.householdRepo.GetByInviteCodes(ctx, nil, []string{inviteCode})
	if err != nil {
		return nil, fmt.Errorf("get household by invite code: %w", err)
	}
	if len(households) == 0 {
		return nil, apierr.NotFound("invalid_invite_code", "no household matches this invite code")
	}
	household := households[0]

	err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := hs.memberRepo.CountByHouseholdID(ctx, tx, household.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count >= int64(household.MaxMembers) {
			return apierr.Conflict("household_full", "household has reached its member limit")
		}
		member := &types.HouseholdMember{
			ID:          uuid.New(),
			HouseholdID: household.ID,
			UserID:      userID,
			Role:        types.RoleMember,
			JoinedAt:    time.Now().UTC(),
		}
		if _, err := hs.memberRepo.Create(ctx, tx, []*types.HouseholdMember{member}); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierr.Conflict("already_in_household", "user already belongs to a household")
		}
		return nil, err
	}

	hs.log.Info("Member joined household", "household_id", household.ID.String(), "user_id", userID.String())
	return hs.Get(ctx, userID)
}

func (hs *householdService) RegenerateInviteCode(ctx context.Context, userID uuid.UUID) (string, error) {
	member, err := hs.membership(ctx, nil, userID)
	if err != nil {
		return "", err
	}
	if member.Role != types.RoleOwner {
		return "", apierr.Forbidden("not_owner", "only the owner can regenerate the invite code")
	}

	var code string
	for attempt := 0; attempt < inviteCodeRetries; attempt++ {
		code, err = utils.NewInviteCode()
		if err != nil {
			return "", fmt.Errorf("generate invite code: %w", err)
		}
		err = hs.householdRepo.UpdateInviteCode(ctx, nil, member.HouseholdID, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	return "", fmt.Errorf("regenerate invite code: %w", err)
}

func (hs *householdService) Leave(ctx context.Context, userID uuid.UUID) error {
	member, err := hs.membership(ctx, nil, userID)
	if err != nil {
		return err
	}

	if member.Role == types.RoleOwner {
		count, err := hs.memberRepo.CountByHouseholdID(ctx, nil, member.HouseholdID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count > 1 {
			return apierr.Forbidden("owner_cannot_leave", "transfer ownership or remove other members first")
		}
		// Sole member: dissolve the household entirely.
		err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := hs.financeRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{member.HouseholdID}); err != nil {
				return err
			}
			if err := hs.memberRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{member.HouseholdID}); err != nil {
				return err
			}
			return hs.householdRepo.DeleteByIDs(ctx, tx, []uuid.UUID{member.HouseholdID})
		})
		if err != nil {
			return fmt.Errorf("dissolve household: %w", err)
		}
		hs.invalidateSummary(ctx, member.HouseholdID)
		hs.log.Info("Household dissolved", "household_id", member.HouseholdID.String())
		return nil
	}

	err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := hs.financeRepo.DeleteByUserAndHousehold(ctx, tx, userID, member.HouseholdID); err != nil {
			return err
		}
		return hs.memberRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{userID})
	})
	if err != nil {
		return fmt.Errorf("leave household: %w", err)
	}
	hs.invalidateSummary(ctx, member.HouseholdID)
	hs.log.Info("Member left household", "household_id", member.HouseholdID.String(), "user_id", userID.String())
	return nil
}

func (hs *householdService) RemoveMember(ctx context.Context, ownerID, memberUserID uuid.UUID) error {
	if ownerID == memberUserID {
		return apierr.Forbidden("cannot_remove_self", "use leave to remove yourself")
	}

	owner, err := hs.membership(ctx, nil, ownerID)
	if err != nil {
		return err
	}
	if owner.Role != types.RoleOwner {
		return apierr.Forbidden("not_owner", "only the owner can remove members")
	}

	targets, err := hs.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{memberUserID})
	if err != nil {
		return fmt.Errorf("get target membership: %w", err)
	}
	if len(targets) == 0 || targets[0].HouseholdID != owner.HouseholdID {
		return apierr.NotFound("member_not_found", "user is not a member of your household")
	}

	err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := hs.financeRepo.DeleteByUserAndHousehold(ctx, tx, memberUserID, owner.HouseholdID); err != nil {
			return err
		}
		return hs.memberRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{memberUserID})
	})
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	hs.invalidateSummary(ctx, owner.HouseholdID)

	households, err := hs.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{owner.HouseholdID})
	if err != nil || len(households) == 0 {
		hs.log.Warn("Skipping removal notification, household lookup failed", "household_id", owner.HouseholdID.String())
		return nil
	}
	removed, err := hs.userRepo.GetByIDs(ctx, nil, []uuid.UUID{memberUserID})
	if err != nil || len(removed) == 0 {
		return nil
	}
	if err := hs.notifier.MemberRemoved(ctx, removed[0].Email, households[0].Name); err != nil {
		return fmt.Errorf("notify removed member: %w", err)
	}
	return nil
}

func (hs *householdService) TransferOwnership(ctx context.Context, ownerID, newOwnerUserID uuid.UUID) error {
	if ownerID == newOwnerUserID {
		return apierr.Forbidden("cannot_target_self", "ownership cannot be transferred to yourself")
	}

	owner, err := hs.membership(ctx, nil, ownerID)
	if err != nil {
		return err
	}
	if owner.Role != types.RoleOwner {
		return apierr.Forbidden("not_owner", "only the owner can transfer ownership")
	}

	targets, err := hs.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{newOwnerUserID})
	if err != nil {
		return fmt.Errorf("get target membership: %w", err)
	}
	if len(targets) == 0 || targets[0].HouseholdID != owner.HouseholdID {
		return apierr.NotFound("member_not_found", "user is not a member of your household")
	}

	err = hs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := hs.memberRepo.UpdateRole(ctx, tx, owner.ID, types.RoleMember); err != nil {
			return err
		}
		return hs.memberRepo.UpdateRole(ctx, tx, targets[0].ID, types.RoleOwner)
	})
	if err != nil {
		return fmt.Errorf("transfer ownership: %w", err)
	}
	hs.log.Info("Ownership transferred",
		"household_id", owner.HouseholdID.String(),
		"owner_id", ownerID.String(),
		"member_id", newOwnerUserID.String())
	return nil
}
