package finance

import (
	"time"

	"github.com/google/uuid"
)

// Household-scoped personal finance rows. All three carry the (user_id,
// household_id) pair so account deletion can scrub one member's rows without
// touching the rest of the household.

type Expense struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	HouseholdID uuid.UUID `gorm:"index;not null;column:household_id" json:"household_id"`
	Title       string    `gorm:"not null" json:"title"`
	AmountCents int64     `gorm:"not null;column:amount_cents" json:"amount_cents"`
	Category    string    `gorm:"column:category" json:"category"`
	SpentAt     time.Time `gorm:"not null;column:spent_at" json:"spent_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Expense) TableName() string { return "expense" }

type SavingsGoal struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	HouseholdID uuid.UUID `gorm:"index;not null;column:household_id" json:"household_id"`
	Name        string    `gorm:"not null" json:"name"`
	TargetCents int64     `gorm:"not null;column:target_cents" json:"target_cents"`
	SavedCents  int64     `gorm:"not null;column:saved_cents" json:"saved_cents"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (SavingsGoal) TableName() string { return "savings_goal" }

type SalaryRecord struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"index;not null;column:user_id" json:"user_id"`
	HouseholdID uuid.UUID `gorm:"index;not null;column:household_id" json:"household_id"`
	AmountCents int64     `gorm:"not null;column:amount_cents" json:"amount_cents"`
	Month       string    `gorm:"not null;column:month" json:"month"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (SalaryRecord) TableName() string { return "salary_record" }
