package services

import (
	"context"
	"encoding/json"
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
)

const summaryCacheTTL = 5 * time.Minute

// HouseholdSummary is the cached aggregate served by Summary.
type HouseholdSummary struct {
	HouseholdID  uuid.UUID `json:"household_id"`
	MemberCount  int64     `json:"member_count"`
	ExpenseCents int64     `json:"expense_cents"`
	SavedCents   int64     `json:"saved_cents"`
	SalaryCents  int64     `json:"salary_cents"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type FinanceService interface {
	AddExpense(ctx context.Context, userID uuid.UUID, title, category string, amountCents int64, spentAt time.Time) (*types.Expense, error)
	ListExpenses(ctx context.Context, userID uuid.UUID) ([]*types.Expense, error)
	DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error

	AddSavingsGoal(ctx context.Context, userID uuid.UUID, name string, targetCents, savedCents int64) (*types.SavingsGoal, error)
	ListSavingsGoals(ctx context.Context, userID uuid.UUID) ([]*types.SavingsGoal, error)
	DeleteSavingsGoal(ctx context.Context, userID, goalID uuid.UUID) error

	AddSalaryRecord(ctx context.Context, userID uuid.UUID, amountCents int64, month string) (*types.SalaryRecord, error)
	ListSalaryRecords(ctx context.Context, userID uuid.UUID) ([]*types.SalaryRecord, error)
	DeleteSalaryRecord(ctx context.Context, userID, recordID uuid.UUID) error

	Summary(ctx context.Context, userID uuid.UUID) (*HouseholdSummary, error)
}

type financeService struct {
	db          *gorm.DB
	log         *logger.Logger
	kv          kvstore.Store
	memberRepo  repos.MemberRepo
	financeRepo repos.FinanceRepo
}

func NewFinanceService(
	db *gorm.DB,
	log *logger.Logger,
	kv kvstore.Store,
	memberRepo repos.MemberRepo,
	financeRepo repos.FinanceRepo,
) FinanceService {
	serviceLog := log.With("service", "FinanceService")
	return &financeService{
		db:          db,
		log:         serviceLog,
		kv:          kv,
		memberRepo:  memberRepo,
		financeRepo: financeRepo,
	}
}

func (fs *financeService) membership(ctx context.Context, userID uuid.UUID) (*types.HouseholdMember, error) {
	members, err := fs.memberRepo.GetByUserIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("get membership: %w", err)
	}
	if len(members) == 0 {
		return nil, apierr.NotFound("no_household", "user is not a member of any household")
	}
	return members[0], nil
}

func (fs *financeService) invalidate(ctx context.Context, householdID uuid.UUID) {
	if err := fs.kv.Del(ctx, summaryCacheKey(householdID)); err != nil {
		fs.log.Warn("Failed to invalidate summary cache", "household_id", householdID.String(), "error", err)
	}
}

func (fs *financeService) AddExpense(ctx context.Context, userID uuid.UUID, title, category string, amountCents int64, spentAt time.Time) (*types.Expense, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apierr.BadRequest("missing_title", "expense title is required")
	}
	if amountCents <= 0 {
		return nil, apierr.BadRequest("invalid_amount", "amount must be positive")
	}
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	if spentAt.IsZero() {
		spentAt = time.Now().UTC()
	}
	expense := &types.Expense{
		ID:          uuid.New(),
		UserID:      userID,
		HouseholdID: member.HouseholdID,
		Title:       title,
		Category:    strings.TrimSpace(category),
		AmountCents: amountCents,
		SpentAt:     spentAt,
	}
	if _, err := fs.financeRepo.CreateExpenses(ctx, nil, []*types.Expense{expense}); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	fs.invalidate(ctx, member.HouseholdID)
	return expense, nil
}

func (fs *financeService) ListExpenses(ctx context.Context, userID uuid.UUID) ([]*types.Expense, error) {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fs.financeRepo.ListExpensesByHouseholdID(ctx, nil, member.HouseholdID)
}

func (fs *financeService) DeleteExpense(ctx context.Context, userID, expenseID uuid.UUID) error {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return err
	}
	affected, err := fs.financeRepo.DeleteExpenseByID(ctx, nil, userID, expenseID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("expense_not_found", "expense does not exist or is not yours")
	}
	fs.invalidate(ctx, member.HouseholdID)
	return nil
}

func (fs *financeService) AddSavingsGoal(ctx context.Context, userID uuid.UUID, name string, targetCents, savedCents int64) (*types.SavingsGoal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.BadRequest("missing_name", "goal name is required")
	}
	if targetCents <= 0 || savedCents < 0 {
		return nil, apierr.BadRequest("invalid_amount", "target must be positive and saved non-negative")
	}
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	goal := &types.SavingsGoal{
		ID:          uuid.New(),
		UserID:      userID,
		HouseholdID: member.HouseholdID,
		Name:        name,
		TargetCents: targetCents,
		SavedCents:  savedCents,
	}
	if _, err := fs.financeRepo.CreateSavingsGoals(ctx, nil, []*types.SavingsGoal{goal}); err != nil {
		return nil, fmt.Errorf("create savings goal: %w", err)
	}
	fs.invalidate(ctx, member.HouseholdID)
	return goal, nil
}

func (fs *financeService) ListSavingsGoals(ctx context.Context, userID uuid.UUID) ([]*types.SavingsGoal, error) {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	return fs.financeRepo.ListSavingsGoalsByHouseholdID(ctx, nil, member.HouseholdID)
}

func (fs *financeService) DeleteSavingsGoal(ctx context.Context, userID, goalID uuid.UUID) error {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return err
	}
	affected, err := fs.financeRepo.DeleteSavingsGoalByID(ctx, nil, userID, goalID)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("goal_not_found", "savings goal does not exist or is not yours")
	}
	fs.invalidate(ctx, member.HouseholdID)
	return nil
}

func (fs *financeService) AddSalaryRecord(ctx context.Context, userID uuid.UUID, amountCents int64, month string) (*types.SalaryRecord, error) {
	month = strings.TrimSpace(month)
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, apierr.BadRequest("invalid_month", "month must be formatted YYYY-MM")
	}
	if amountCents <= 0 {
		return nil, apierr.BadRequest("invalid_amount", "amount must be positive")
	}
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}
	record := &types.SalaryRecord{
		ID:          uuid.New(),
		UserID:      userID,
		HouseholdID: member.HouseholdID,
		AmountCents: amountCents,
		Month:       month,
	}
	if _, err := fs.financeRepo.CreateSalaryRecords(ctx, nil, []*types.SalaryRecord{record}); err != nil {
		return nil, fmt.Errorf("create salary record: %w", err)
	}
	fs.invalidate(ctx, member.HouseholdID)
	return record, nil
}

func (fs *financeService) ListSalaryRecords(ctx context.Context, userID uuid.UUID) ([]*types.SalaryRecord, error) {
	if _, err := fs.membership(ctx, userID); err != nil {
		return nil, err
	}
	return fs.financeRepo.ListSalaryRecordsByUserID(ctx, nil, userID)
}

func (fs *financeService) DeleteSalaryRecord(ctx context.Context, userID, recordID uuid.UUID) error {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return err
	}
	affected, err := fs.financeRepo.DeleteSalaryRecordByID(ctx, nil, userID, recordID)
	if err != nil {
		return fmt.Errorf("delete salary record: %w", err)
	}
	if affected == 0 {
		return apierr.NotFound("record_not_found", "salary record does not exist or is not yours")
	}
	fs.invalidate(ctx, member.HouseholdID)
	return nil
}

// Summary serves the household aggregate from the TTL cache when possible
// and recomputes it on a miss. Writes invalidate the key, so a stale entry
// can only outlive the data by the cache TTL.
func (fs *financeService) Summary(ctx context.Context, userID uuid.UUID) (*HouseholdSummary, error) {
	member, err := fs.membership(ctx, userID)
	if err != nil {
		return nil, err
	}

	cached, err := fs.kv.Get(ctx, summaryCacheKey(member.HouseholdID))
	if err != nil {
		fs.log.Warn("Summary cache read failed", "household_id", member.HouseholdID.String(), "error", err)
	}
	if cached != nil {
		var summary HouseholdSummary
		if err := json.Unmarshal(cached, &summary); err == nil {
			return &summary, nil
		}
		fs.log.Warn("Discarding undecodable summary cache entry", "household_id", member.HouseholdID.String())
	}

	totals, err := fs.financeRepo.TotalsByHouseholdID(ctx, nil, member.HouseholdID)
	if err != nil {
		return nil, fmt.Errorf("compute totals: %w", err)
	}
	count, err := fs.memberRepo.CountByHouseholdID(ctx, nil, member.HouseholdID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	summary := &HouseholdSummary{
		HouseholdID:  member.HouseholdID,
		MemberCount:  count,
		ExpenseCents: totals.ExpenseCents,
		SavedCents:   totals.SavedCents,
		SalaryCents:  totals.SalaryCents,
		GeneratedAt:  time.Now().UTC(),
	}
	encoded, err := json.Marshal(summary)
	if err == nil {
		if err := fs.kv.Set(ctx, summaryCacheKey(member.HouseholdID), encoded, summaryCacheTTL); err != nil {
			fs.log.Warn("Summary cache write failed", "household_id", member.HouseholdID.String(), "error", err)
		}
	}
	return summary, nil
}
