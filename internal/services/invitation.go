package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/apierr"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/repos"
)

type InvitationService interface {
	Invite(ctx context.Context, senderID uuid.UUID, targetEmail string) (*types.HouseholdInvitation, error)
	Respond(ctx context.Context, targetUserID, invitationID uuid.UUID, accept bool) error
	Cancel(ctx context.Context, senderID, invitationID uuid.UUID) error
	ListPending(ctx context.Context, targetUserID uuid.UUID) ([]*types.HouseholdInvitation, error)
}

type invitationService struct {
	db             *gorm.DB
	log            *logger.Logger
	userRepo       repos.UserRepo
	householdRepo  repos.HouseholdRepo
	memberRepo     repos.MemberRepo
	invitationRepo repos.InvitationRepo
	notifier       Notifier
}

func NewInvitationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	householdRepo repos.HouseholdRepo,
	memberRepo repos.MemberRepo,
	invitationRepo repos.InvitationRepo,
	notifier Notifier,
) InvitationService {
	serviceLog := log.With("service", "InvitationService")
	return &invitationService{
		db:             db,
		log:            serviceLog,
		userRepo:       userRepo,
		householdRepo:  householdRepo,
		memberRepo:     memberRepo,
		invitationRepo: invitationRepo,
		notifier:       notifier,
	}
}

func (is *invitationService) Invite(ctx context.Context, senderID uuid.UUID, targetEmail string) (*types.HouseholdInvitation, error) {
	targetEmail = normalizeEmail(targetEmail)
	if targetEmail == "" {
		return nil, apierr.BadRequest("missing_email", "target email is required")
	}

	senderMembers, err := is.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{senderID})
	if err != nil {
		return nil, fmt.Errorf("get sender membership: %w", err)
	}
	if len(senderMembers) == 0 {
		return nil, apierr.NotFound("no_household", "join or create a household before inviting")
	}
	if senderMembers[0].Role != types.RoleOwner {
		return nil, apierr.Forbidden("not_owner", "only the owner can send invitations")
	}
	householdID := senderMembers[0].HouseholdID

	households, err := is.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{householdID})
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	if len(households) == 0 {
		return nil, apierr.NotFound("household_not_found", "household no longer exists")
	}
	count, err := is.memberRepo.CountByHouseholdID(ctx, nil, householdID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}
	if count >= int64(households[0].MaxMembers) {
		return nil, apierr.Conflict("household_full", "household has reached its member limit")
	}

	targets, err := is.userRepo.GetByEmails(ctx, nil, []string{targetEmail})
	if err != nil {
		return nil, fmt.Errorf("get target user: %w", err)
	}
	if len(targets) == 0 {
		return nil, apierr.NotFound("user_not_found", "no account exists for this email")
	}
	target := targets[0]

	if target.ID == senderID {
		return nil, apierr.BadRequest("cannot_invite_self", "you cannot invite yourself")
	}

	targetMembers, err := is.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{target.ID})
	if err != nil {
		return nil, fmt.Errorf("get target membership: %w", err)
	}
	if len(targetMembers) > 0 {
		return nil, apierr.Conflict("already_in_household", "user already belongs to a household")
	}

	pending, err := is.invitationRepo.GetPendingByHouseholdAndTarget(ctx, nil, householdID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("get pending invitations: %w", err)
	}
	if len(pending) > 0 {
		return nil, apierr.Conflict("invitation_pending", "an invitation to this user is already pending")
	}

	invitation := &types.HouseholdInvitation{
		ID:           uuid.New(),
		HouseholdID:  householdID,
		SenderID:     senderID,
		TargetUserID: target.ID,
		Status:       types.InvitationPending,
	}
	if _, err := is.invitationRepo.Create(ctx, nil, []*types.HouseholdInvitation{invitation}); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	is.log.Info("Invitation created",
		"invitation_id", invitation.ID.String(),
		"household_id", householdID.String(),
		"target_id", target.ID.String())

	senders, err := is.userRepo.GetByIDs(ctx, nil, []uuid.UUID{senderID})
	if err != nil || len(senders) == 0 {
		return invitation, nil
	}
	senderName := senders[0].FirstName + " " + senders[0].LastName
	if err := is.notifier.InvitationReceived(ctx, target.Email, senderName, households[0].Name); err != nil {
		return nil, fmt.Errorf("notify invitee: %w", err)
	}
	return invitation, nil
}

// Respond resolves a pending invitation. Accepting re-checks membership and
// capacity at resolution time, not invite time, because both can change
// while the invitation sits pending.
func (is *invitationService) Respond(ctx context.Context, targetUserID, invitationID uuid.UUID, accept bool) error {
	invitations, err := is.invitationRepo.GetByIDs(ctx, nil, []uuid.UUID{invitationID})
	if err != nil {
		return fmt.Errorf("get invitation: %w", err)
	}
	if len(invitations) == 0 {
		return apierr.NotFound("invitation_not_found", "invitation does not exist")
	}
	invitation := invitations[0]

	if invitation.TargetUserID != targetUserID {
		return apierr.Forbidden("not_invitee", "invitation is addressed to another user")
	}

	if invitation.Status != types.InvitationPending {
		return apierr.Conflict("invitation_resolved", "invitation has already been resolved")
	}

	if !accept {
		if err := is.invitationRepo.UpdateStatus(ctx, nil, invitationID, types.InvitationDeclined); err != nil {
			return fmt.Errorf("decline invitation: %w", err)
		}
		is.log.Info("Invitation declined", "invitation_id", invitationID.String())
		return is.notifySender(ctx, invitation, false)
	}

	memberships, err := is.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{targetUserID})
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}
	if len(memberships) > 0 {
		return apierr.Conflict("already_in_household", "user already belongs to a household")
	}

	households, err := is.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{invitation.HouseholdID})
	if err != nil {
		return fmt.Errorf("get household: %w", err)
	}
	if len(households) == 0 {
		return apierr.NotFound("household_not_found", "household no longer exists")
	}
	household := households[0]

	err = is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := is.memberRepo.CountByHouseholdID(ctx, tx, household.ID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count >= int64(household.MaxMembers) {
			return apierr.Conflict("household_full", "household has reached its member limit")
		}
		member := &types.HouseholdMember{
			ID:          uuid.New(),
			HouseholdID: household.ID,
			UserID:      targetUserID,
			Role:        types.RoleMember,
			JoinedAt:    time.Now().UTC(),
		}
		if _, err := is.memberRepo.Create(ctx, tx, []*types.HouseholdMember{member}); err != nil {
			return err
		}
		return is.invitationRepo.UpdateStatus(ctx, tx, invitationID, types.InvitationAccepted)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierr.Conflict("already_in_household", "user already belongs to a household")
		}
		return err
	}

	is.log.Info("Invitation accepted",
		"invitation_id", invitationID.String(),
		"household_id", household.ID.String())
	return is.notifySender(ctx, invitation, true)
}

func (is *invitationService) Cancel(ctx context.Context, senderID, invitationID uuid.UUID) error {
	invitations, err := is.invitationRepo.GetByIDs(ctx, nil, []uuid.UUID{invitationID})
	if err != nil {
		return fmt.Errorf("get invitation: %w", err)
	}
	if len(invitations) == 0 {
		return apierr.NotFound("invitation_not_found", "invitation does not exist")
	}
	invitation := invitations[0]

	if invitation.SenderID != senderID {
		return apierr.Forbidden("not_sender", "only the sender can cancel an invitation")
	}
	if invitation.Status != types.InvitationPending {
		return apierr.Conflict("invitation_resolved", "invitation has already been resolved")
	}

	if err := is.invitationRepo.UpdateStatus(ctx, nil, invitationID, types.InvitationCancelled); err != nil {
		return fmt.Errorf("cancel invitation: %w", err)
	}
	is.log.Info("Invitation cancelled", "invitation_id", invitationID.String())
	return nil
}

func (is *invitationService) ListPending(ctx context.Context, targetUserID uuid.UUID) ([]*types.HouseholdInvitation, error) {
	invitations, err := is.invitationRepo.GetPendingByTargetUserIDs(ctx, nil, []uuid.UUID{targetUserID})
	if err != nil {
		return nil, fmt.Errorf("list pending invitations: %w", err)
	}
	return invitations, nil
}

func (is *invitationService) notifySender(ctx context.Context, invitation *types.HouseholdInvitation, accepted bool) error {
	senders, err := is.userRepo.GetByIDs(ctx, nil, []uuid.UUID{invitation.SenderID})
	if err != nil || len(senders) == 0 {
		is.log.Warn("Skipping response notification, sender lookup failed", "invitation_id", invitation.ID.String())
		return nil
	}
	targets, err := is.userRepo.GetByIDs(ctx, nil, []uuid.UUID{invitation.TargetUserID})
	if err != nil || len(targets) == 0 {
		return nil
	}
	households, err := is.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{invitation.HouseholdID})
	householdName := ""
	if err == nil && len(households) > 0 {
		householdName = households[0].Name
	}
	targetName := targets[0].FirstName + " " + targets[0].LastName
	if err := is.notifier.InvitationResponded(ctx, senders[0].Email, targetName, householdName, accepted); err != nil {
		return fmt.Errorf("notify sender: %w", err)
	}
	return nil
}
