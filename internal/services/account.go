package services

import (
	"context"
	"encoding/json"
	"fmt"
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

const (
	deletionRequestPrefix      = "delreq:"
	deletionRequestOwnerPrefix = "delreq:owner:"
	deletionTargetPrefix       = "delreq:target:"

	// DefaultDeletionRequestTTL bounds how long an unanswered deletion
	// request stays visible; expiry is the TTL store's job, there is no
	// sweeper.
	DefaultDeletionRequestTTL = 7 * 24 * time.Hour
)

type AccountService interface {
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	RequestDeletion(ctx context.Context, ownerID, targetMemberID uuid.UUID) (string, error)
	ListPendingDeletionRequests(ctx context.Context, userID uuid.UUID) ([]*types.PendingDeletionRequest, error)
	RespondToDeletionRequest(ctx context.Context, callerID uuid.UUID, requestID string, accept bool) (string, error)
	CancelDeletionRequest(ctx context.Context, ownerID uuid.UUID) error
}

type accountService struct {
	db            *gorm.DB
	log           *logger.Logger
	kv            kvstore.Store
	userRepo      repos.UserRepo
	householdRepo repos.HouseholdRepo
	memberRepo    repos.MemberRepo
	financeRepo   repos.FinanceRepo
	auth          AuthService
	notifier      Notifier
	requestTTL    time.Duration
}

func NewAccountService(
	db *gorm.DB,
	log *logger.Logger,
	kv kvstore.Store,
	userRepo repos.UserRepo,
	householdRepo repos.HouseholdRepo,
	memberRepo repos.MemberRepo,
	financeRepo repos.FinanceRepo,
	auth AuthService,
	notifier Notifier,
	requestTTL time.Duration,
) AccountService {
	if requestTTL <= 0 {
		requestTTL = DefaultDeletionRequestTTL
	}
	serviceLog := log.With("service", "AccountService")
	return &accountService{
		db:            db,
		log:           serviceLog,
		kv:            kv,
		userRepo:      userRepo,
		householdRepo: householdRepo,
		memberRepo:    memberRepo,
		financeRepo:   financeRepo,
		auth:          auth,
		notifier:      notifier,
		requestTTL:    requestTTL,
	}
}

func payloadKey(requestID string) string {
	return deletionRequestPrefix + requestID
}

func ownerIndexKey(ownerID uuid.UUID) string {
	return deletionRequestOwnerPrefix + ownerID.String()
}

func targetIndexKey(targetID uuid.UUID) string {
	return deletionTargetPrefix + targetID.String()
}

// DeleteAccount handles every self-deletion branch except "owner with
// co-members", which must go through the delegation request flow.
func (as *accountService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	members, err := as.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("get membership: %w", err)
	}

	if len(members) == 0 {
		if _, err := as.auth.InvalidateAllSessions(ctx, nil, userID); err != nil {
			return err
		}
		return as.anonymizeUser(ctx, userID)
	}

	member := members[0]

	if member.Role == types.RoleOwner {
		count, err := as.memberRepo.CountByHouseholdID(ctx, nil, member.HouseholdID)
		if err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if count > 1 {
			return apierr.Forbidden("household_has_members",
				"transfer ownership or request deletion from another member first")
		}
		if _, err := as.auth.InvalidateAllSessions(ctx, nil, userID); err != nil {
			return err
		}
		err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := as.financeRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{member.HouseholdID}); err != nil {
				return err
			}
			if err := as.memberRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{member.HouseholdID}); err != nil {
				return err
			}
			return as.householdRepo.DeleteByIDs(ctx, tx, []uuid.UUID{member.HouseholdID})
		})
		if err != nil {
			return fmt.Errorf("dissolve household: %w", err)
		}
		if err := as.kv.Del(ctx, summaryCacheKey(member.HouseholdID)); err != nil {
			as.log.Warn("Failed to invalidate summary cache", "household_id", member.HouseholdID.String(), "error", err)
		}
		return as.anonymizeUser(ctx, userID)
	}

	if _, err := as.auth.InvalidateAllSessions(ctx, nil, userID); err != nil {
		return err
	}
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := as.financeRepo.DeleteByUserAndHousehold(ctx, tx, userID, member.HouseholdID); err != nil {
			return err
		}
		return as.memberRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{userID})
	})
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	if err := as.kv.Del(ctx, summaryCacheKey(member.HouseholdID)); err != nil {
		as.log.Warn("Failed to invalidate summary cache", "household_id", member.HouseholdID.String(), "error", err)
	}
	return as.anonymizeUser(ctx, userID)
}

func (as *accountService) RequestDeletion(ctx context.Context, ownerID, targetMemberID uuid.UUID) (string, error) {
	if targetMemberID == ownerID {
		return "", apierr.Forbidden("cannot_target_self", "the deletion request must target another member")
	}

	owners, err := as.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{ownerID})
	if err != nil {
		return "", fmt.Errorf("get membership: %w", err)
	}
	if len(owners) == 0 {
		return "", apierr.NotFound("no_household", "user is not a member of any household")
	}
	owner := owners[0]
	if owner.Role != types.RoleOwner {
		return "", apierr.Forbidden("not_owner", "only the owner can request delegated deletion")
	}

	count, err := as.memberRepo.CountByHouseholdID(ctx, nil, owner.HouseholdID)
	if err != nil {
		return "", fmt.Errorf("count members: %w", err)
	}
	if count < 2 {
		return "", apierr.BadRequest("sole_member", "no other members exist, delete the account directly")
	}

	targets, err := as.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{targetMemberID})
	if err != nil {
		return "", fmt.Errorf("get target membership: %w", err)
	}
	if len(targets) == 0 || targets[0].HouseholdID != owner.HouseholdID {
		return "", apierr.NotFound("member_not_found", "user is not a member of your household")
	}

	// The owner index is advisory; only a live payload behind it counts as
	// an outstanding request. A dangling index is repaired here instead of
	// blocking the owner until it expires.
	existingID, err := as.kv.Get(ctx, ownerIndexKey(ownerID))
	if err != nil {
		return "", fmt.Errorf("get owner index: %w", err)
	}
	if existingID != nil {
		payload, err := as.kv.Get(ctx, payloadKey(string(existingID)))
		if err != nil {
			return "", fmt.Errorf("get payload: %w", err)
		}
		if payload != nil {
			return "", apierr.Conflict("request_pending", "a deletion request is already outstanding")
		}
		if err := as.kv.Del(ctx, ownerIndexKey(ownerID)); err != nil {
			return "", fmt.Errorf("clean stale owner index: %w", err)
		}
	}

	requestID, err := utils.NewRequestID()
	if err != nil {
		return "", fmt.Errorf("generate request id: %w", err)
	}
	request := &types.DeletionRequest{
		RequestID:      requestID,
		OwnerID:        ownerID,
		TargetMemberID: targetMemberID,
		HouseholdID:    owner.HouseholdID,
		RequestedAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal deletion request: %w", err)
	}

	// Three keys, one TTL. The writes are not atomic together; the payload
	// is authoritative and both indexes are advisory, so a partial write
	// degrades to an invisible request at worst.
	if err := as.kv.Set(ctx, payloadKey(requestID), payload, as.requestTTL); err != nil {
		return "", fmt.Errorf("set payload: %w", err)
	}
	if err := as.kv.Set(ctx, ownerIndexKey(ownerID), []byte(requestID), as.requestTTL); err != nil {
		return "", fmt.Errorf("set owner index: %w", err)
	}
	if err := as.kv.Set(ctx, targetIndexKey(targetMemberID), []byte(requestID), as.requestTTL); err != nil {
		return "", fmt.Errorf("set target index: %w", err)
	}

	as.log.Info("Deletion request created",
		"owner_id", ownerID.String(),
		"target_id", targetMemberID.String(),
		"household_id", owner.HouseholdID.String())

	ownerUsers, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{ownerID})
	if err != nil || len(ownerUsers) == 0 {
		return requestID, nil
	}
	targetUsers, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{targetMemberID})
	if err != nil || len(targetUsers) == 0 {
		return requestID, nil
	}
	households, err := as.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{owner.HouseholdID})
	if err != nil || len(households) == 0 {
		return requestID, nil
	}
	ownerName := ownerUsers[0].FirstName + " " + ownerUsers[0].LastName
	if err := as.notifier.DeletionRequested(ctx, targetUsers[0].Email, ownerName, households[0].Name); err != nil {
		return "", fmt.Errorf("notify target: %w", err)
	}
	return requestID, nil
}

// ListPendingDeletionRequests reads through the target index. A stale index
// whose payload expired or was consumed is deleted on the spot and reported
// as no pending requests.
func (as *accountService) ListPendingDeletionRequests(ctx context.Context, userID uuid.UUID) ([]*types.PendingDeletionRequest, error) {
	indexed, err := as.kv.Get(ctx, targetIndexKey(userID))
	if err != nil {
		return nil, fmt.Errorf("get target index: %w", err)
	}
	if indexed == nil {
		return []*types.PendingDeletionRequest{}, nil
	}

	requestID := string(indexed)
	payload, err := as.kv.Get(ctx, payloadKey(requestID))
	if err != nil {
		return nil, fmt.Errorf("get payload: %w", err)
	}
	if payload == nil {
		if err := as.kv.Del(ctx, targetIndexKey(userID)); err != nil {
			return nil, fmt.Errorf("clean stale target index: %w", err)
		}
		as.log.Info("Cleaned stale deletion request index", "target_id", userID.String())
		return []*types.PendingDeletionRequest{}, nil
	}

	var request types.DeletionRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return nil, fmt.Errorf("unmarshal deletion request: %w", err)
	}

	pending := &types.PendingDeletionRequest{
		RequestID:   request.RequestID,
		RequestedAt: request.RequestedAt,
	}
	owners, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{request.OwnerID})
	if err != nil {
		return nil, fmt.Errorf("get owner: %w", err)
	}
	if len(owners) > 0 {
		pending.OwnerFirstName = owners[0].FirstName
		pending.OwnerLastName = owners[0].LastName
		pending.OwnerEmail = owners[0].Email
	}
	households, err := as.householdRepo.GetByIDs(ctx, nil, []uuid.UUID{request.HouseholdID})
	if err != nil {
		return nil, fmt.Errorf("get household: %w", err)
	}
	if len(households) > 0 {
		pending.HouseholdName = households[0].Name
	}
	return []*types.PendingDeletionRequest{pending}, nil
}

func (as *accountService) RespondToDeletionRequest(ctx context.Context, callerID uuid.UUID, requestID string, accept bool) (string, error) {
	payload, err := as.kv.Get(ctx, payloadKey(requestID))
	if err != nil {
		return "", fmt.Errorf("get payload: %w", err)
	}
	if payload == nil {
		return "", apierr.NotFound("request_not_found", "deletion request not found or has expired")
	}

	var request types.DeletionRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return "", fmt.Errorf("unmarshal deletion request: %w", err)
	}
	if request.TargetMemberID != callerID {
		return "", apierr.Forbidden("not_target", "deletion request is addressed to another member")
	}

	// Consume the request before touching durable state. Whoever loses a
	// concurrent race sees a missing payload and gets NotFound, so the
	// request resolves at most once.
	err = as.kv.Del(ctx,
		payloadKey(requestID),
		ownerIndexKey(request.OwnerID),
		targetIndexKey(request.TargetMemberID))
	if err != nil {
		return "", fmt.Errorf("consume deletion request: %w", err)
	}

	if accept {
		err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			ownerMember, callerMember, err := as.requestMembers(ctx, tx, &request)
			if err != nil {
				return err
			}
			if _, err := as.auth.InvalidateAllSessions(ctx, tx, request.OwnerID); err != nil {
				return err
			}
			if err := as.memberRepo.UpdateRole(ctx, tx, ownerMember.ID, types.RoleMember); err != nil {
				return err
			}
			if err := as.memberRepo.UpdateRole(ctx, tx, callerMember.ID, types.RoleOwner); err != nil {
				return err
			}
			if err := as.financeRepo.DeleteByUserAndHousehold(ctx, tx, request.OwnerID, request.HouseholdID); err != nil {
				return err
			}
			return as.memberRepo.DeleteByUserIDs(ctx, tx, []uuid.UUID{request.OwnerID})
		})
		if err != nil {
			return "", err
		}
		if err := as.kv.Del(ctx, summaryCacheKey(request.HouseholdID)); err != nil {
			as.log.Warn("Failed to invalidate summary cache", "household_id", request.HouseholdID.String(), "error", err)
		}
		if err := as.anonymizeUser(ctx, request.OwnerID); err != nil {
			return "", err
		}
		as.log.Info("Deletion request accepted",
			"owner_id", request.OwnerID.String(),
			"target_id", callerID.String(),
			"household_id", request.HouseholdID.String())
		return "ownership transferred, the former owner's account was deleted", nil
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := as.requestMembers(ctx, tx, &request); err != nil {
			return err
		}
		if _, err := as.auth.InvalidateAllSessions(ctx, tx, request.OwnerID); err != nil {
			return err
		}
		if err := as.financeRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{request.HouseholdID}); err != nil {
			return err
		}
		if err := as.memberRepo.DeleteByHouseholdIDs(ctx, tx, []uuid.UUID{request.HouseholdID}); err != nil {
			return err
		}
		return as.householdRepo.DeleteByIDs(ctx, tx, []uuid.UUID{request.HouseholdID})
	})
	if err != nil {
		return "", err
	}
	if err := as.kv.Del(ctx, summaryCacheKey(request.HouseholdID)); err != nil {
		as.log.Warn("Failed to invalidate summary cache", "household_id", request.HouseholdID.String(), "error", err)
	}
	if err := as.anonymizeUser(ctx, request.OwnerID); err != nil {
		return "", err
	}
	as.log.Info("Deletion request rejected, household dissolved",
		"owner_id", request.OwnerID.String(),
		"household_id", request.HouseholdID.String())
	return "household and all its data were deleted", nil
}

func (as *accountService) CancelDeletionRequest(ctx context.Context, ownerID uuid.UUID) error {
	indexed, err := as.kv.Get(ctx, ownerIndexKey(ownerID))
	if err != nil {
		return fmt.Errorf("get owner index: %w", err)
	}
	if indexed == nil {
		return apierr.NotFound("request_not_found", "no outstanding deletion request")
	}

	requestID := string(indexed)
	payload, err := as.kv.Get(ctx, payloadKey(requestID))
	if err != nil {
		return fmt.Errorf("get payload: %w", err)
	}
	if payload == nil {
		if err := as.kv.Del(ctx, ownerIndexKey(ownerID)); err != nil {
			return fmt.Errorf("clean stale owner index: %w", err)
		}
		return apierr.NotFound("request_not_found", "no outstanding deletion request")
	}

	var request types.DeletionRequest
	if err := json.Unmarshal(payload, &request); err != nil {
		return fmt.Errorf("unmarshal deletion request: %w", err)
	}

	err = as.kv.Del(ctx,
		payloadKey(requestID),
		ownerIndexKey(ownerID),
		targetIndexKey(request.TargetMemberID))
	if err != nil {
		return fmt.Errorf("delete deletion request: %w", err)
	}
	as.log.Info("Deletion request cancelled", "owner_id", ownerID.String())
	return nil
}

// requestMembers re-reads both memberships inside the resolving transaction.
// The payload can be older than the durable state: either party may have
// moved households, or ownership may have been transferred, while the request
// sat in the TTL store. A request that no longer matches reality is void; it
// stays consumed, but no durable state is touched.
func (as *accountService) requestMembers(ctx context.Context, tx *gorm.DB, request *types.DeletionRequest) (*types.HouseholdMember, *types.HouseholdMember, error) {
	members, err := as.memberRepo.GetByUserIDs(ctx, tx, []uuid.UUID{request.OwnerID, request.TargetMemberID})
	if err != nil {
		return nil, nil, err
	}
	var ownerMember, targetMember *types.HouseholdMember
	for _, m := range members {
		switch m.UserID {
		case request.OwnerID:
			ownerMember = m
		case request.TargetMemberID:
			targetMember = m
		}
	}
	if ownerMember == nil || targetMember == nil {
		return nil, nil, apierr.NotFound("member_not_found", "membership changed before the request was resolved")
	}
	if ownerMember.HouseholdID != request.HouseholdID || targetMember.HouseholdID != request.HouseholdID {
		return nil, nil, apierr.Conflict("membership_changed", "household membership changed since the request was made")
	}
	if ownerMember.Role != types.RoleOwner {
		return nil, nil, apierr.Conflict("membership_changed", "the requesting member no longer holds ownership")
	}
	return ownerMember, targetMember, nil
}

// anonymizeUser scrubs the identifying fields in place and soft-deletes the
// row. A user that can no longer be found is treated as already anonymized,
// which keeps the call safe to retry after a crash between the durable
// mutation and this write.
func (as *accountService) anonymizeUser(ctx context.Context, userID uuid.UUID) error {
	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if len(users) == 0 {
		return nil
	}
	user := users[0]

	unusable, err := utils.UnusableHash()
	if err != nil {
		return fmt.Errorf("generate unusable hash: %w", err)
	}

	user.Email = "deleted-" + uuid.NewString() + "@anonymized.invalid"
	user.Password = unusable
	user.FirstName = "Deleted"
	user.LastName = "User"
	user.DeletedAt = gorm.DeletedAt{Time: time.Now().UTC(), Valid: true}

	if err := as.userRepo.Update(ctx, nil, user); err != nil {
		return fmt.Errorf("anonymize user: %w", err)
	}
	as.log.Info("User anonymized", "user_id", userID.String())
	return nil
}
