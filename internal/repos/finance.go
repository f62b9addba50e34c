package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/3-da/sharedbudget-backend/internal/domain"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
)

// HouseholdTotals is the aggregate the summary cache stores.
type HouseholdTotals struct {
	ExpenseCents int64 `json:"expense_cents"`
	SavedCents   int64 `json:"saved_cents"`
	SalaryCents  int64 `json:"salary_cents"`
}

type FinanceRepo interface {
	CreateExpenses(ctx context.Context, tx *gorm.DB, rows []*types.Expense) ([]*types.Expense, error)
	CreateSavingsGoals(ctx context.Context, tx *gorm.DB, rows []*types.SavingsGoal) ([]*types.SavingsGoal, error)
	CreateSalaryRecords(ctx context.Context, tx *gorm.DB, rows []*types.SalaryRecord) ([]*types.SalaryRecord, error)

	ListExpensesByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.Expense, error)
	ListSavingsGoalsByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.SavingsGoal, error)
	ListSalaryRecordsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SalaryRecord, error)

	DeleteExpenseByID(ctx context.Context, tx *gorm.DB, userID, expenseID uuid.UUID) (int64, error)
	DeleteSavingsGoalByID(ctx context.Context, tx *gorm.DB, userID, goalID uuid.UUID) (int64, error)
	DeleteSalaryRecordByID(ctx context.Context, tx *gorm.DB, userID, recordID uuid.UUID) (int64, error)

	// DeleteByUserAndHousehold scrubs one member's rows across all three
	// tables; used by the account deletion branches.
	DeleteByUserAndHousehold(ctx context.Context, tx *gorm.DB, userID, householdID uuid.UUID) error
	// DeleteByHouseholdIDs removes every finance row of the households;
	// used when a household is dissolved.
	DeleteByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error

	TotalsByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*HouseholdTotals, error)
}

type financeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFinanceRepo(db *gorm.DB, baseLog *logger.Logger) FinanceRepo {
	repoLog := baseLog.With("repo", "FinanceRepo")
	return &financeRepo{db: db, log: repoLog}
}

func (fr *financeRepo) CreateExpenses(ctx context.Context, tx *gorm.DB, rows []*types.Expense) ([]*types.Expense, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(rows) == 0 {
		return []*types.Expense{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (fr *financeRepo) CreateSavingsGoals(ctx context.Context, tx *gorm.DB, rows []*types.SavingsGoal) ([]*types.SavingsGoal, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(rows) == 0 {
		return []*types.SavingsGoal{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (fr *financeRepo) CreateSalaryRecords(ctx context.Context, tx *gorm.DB, rows []*types.SalaryRecord) ([]*types.SalaryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(rows) == 0 {
		return []*types.SalaryRecord{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (fr *financeRepo) ListExpensesByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.Expense, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.Expense
	if err := transaction.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("spent_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *financeRepo) ListSavingsGoalsByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) ([]*types.SavingsGoal, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.SavingsGoal
	if err := transaction.WithContext(ctx).
		Where("household_id = ?", householdID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *financeRepo) ListSalaryRecordsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SalaryRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	var results []*types.SalaryRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("month DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *financeRepo) DeleteExpenseByID(ctx context.Context, tx *gorm.DB, userID, expenseID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", expenseID, userID).
		Delete(&types.Expense{})
	return res.RowsAffected, res.Error
}

func (fr *financeRepo) DeleteSavingsGoalByID(ctx context.Context, tx *gorm.DB, userID, goalID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", goalID, userID).
		Delete(&types.SavingsGoal{})
	return res.RowsAffected, res.Error
}

func (fr *financeRepo) DeleteSalaryRecordByID(ctx context.Context, tx *gorm.DB, userID, recordID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	res := transaction.WithContext(ctx).
		Where("id = ? AND user_id = ?", recordID, userID).
		Delete(&types.SalaryRecord{})
	return res.RowsAffected, res.Error
}

func (fr *financeRepo) DeleteByUserAndHousehold(ctx context.Context, tx *gorm.DB, userID, householdID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND household_id = ?", userID, householdID).
		Delete(&types.Expense{}).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND household_id = ?", userID, householdID).
		Delete(&types.SavingsGoal{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND household_id = ?", userID, householdID).
		Delete(&types.SalaryRecord{}).Error
}

func (fr *financeRepo) DeleteByHouseholdIDs(ctx context.Context, tx *gorm.DB, householdIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if len(householdIDs) == 0 {
		return nil
	}
	if err := transaction.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Delete(&types.Expense{}).Error; err != nil {
		return err
	}
	if err := transaction.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Delete(&types.SavingsGoal{}).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Delete(&types.SalaryRecord{}).Error
}

func (fr *financeRepo) TotalsByHouseholdID(ctx context.Context, tx *gorm.DB, householdID uuid.UUID) (*HouseholdTotals, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	totals := &HouseholdTotals{}
	if err := transaction.WithContext(ctx).
		Model(&types.Expense{}).
		Where("household_id = ?", householdID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&totals.ExpenseCents).Error; err != nil {
		return nil, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.SavingsGoal{}).
		Where("household_id = ?", householdID).
		Select("COALESCE(SUM(saved_cents), 0)").
		Scan(&totals.SavedCents).Error; err != nil {
		return nil, err
	}
	if err := transaction.WithContext(ctx).
		Model(&types.SalaryRecord{}).
		Where("household_id = ?", householdID).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&totals.SalaryCents).Error; err != nil {
		return nil, err
	}
	return totals, nil
}
