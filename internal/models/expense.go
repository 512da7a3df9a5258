package models

// Expense represents a single spending record. Amount is in cents and must
// be positive. CategoryID is nullable: uncategorized spend is still counted
// by the analytics layer, never dropped.
type Expense struct {
	Base
	UserID      string  `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount      int64   `gorm:"type:bigint;not null" json:"amount"`
	Description string  `gorm:"not null" json:"description"`
	CategoryID  *string `gorm:"type:uuid" json:"category_id,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// Validate checks that the record is well-formed. It is applied to records
// arriving from outside the database (imports, the local store) so that one
// malformed row cannot poison a derived result.
func (e *Expense) Validate() error {
	if e.Amount <= 0 {
		return errInvalidAmount
	}
	if e.Description == "" {
		return errEmptyDescription
	}
	if e.CreatedAt.IsZero() {
		return errMissingTimestamp
	}
	return nil
}

type validationError string

func (v validationError) Error() string { return string(v) }

const (
	errInvalidAmount    = validationError("amount must be positive")
	errEmptyDescription = validationError("description is required")
	errMissingTimestamp = validationError("created_at is required")
)

// RejectedExpense pairs a record that failed validation with the reason.
type RejectedExpense struct {
	Expense Expense `json:"expense"`
	Reason  string  `json:"reason"`
}

// ScreenExpenses splits a record set into valid and rejected records.
// Rejected records carry the validation reason instead of being silently
// discarded, so callers can log or surface them.
func ScreenExpenses(expenses []Expense) (valid []Expense, rejected []RejectedExpense) {
	valid = make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if err := e.Validate(); err != nil {
			rejected = append(rejected, RejectedExpense{Expense: e, Reason: err.Error()})
			continue
		}
		valid = append(valid, e)
	}
	return valid, rejected
}
