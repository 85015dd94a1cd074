package expense

import (
	"strings"
	"time"

	errors "github.com/frahmantamala/expense-insight/internal"
	"github.com/frahmantamala/expense-insight/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

// CreateExpenseDTO is the request payload for recording an expense.
// Amount accepts either a JSON number or a numeric string.
type CreateExpenseDTO struct {
	Date          string           `json:"date"`
	Amount        *decimal.Decimal `json:"amount"`
	Currency      string           `json:"currency,omitempty"`
	Category      string           `json:"category"`
	Merchant      *string          `json:"merchant,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	Tags          []string         `json:"tags,omitempty"`
	PaymentMethod *string          `json:"paymentMethod,omitempty"`
	Recurring     *bool            `json:"recurring,omitempty"`
}

// Validate checks the required fields and returns the parsed date in loc.
func (dto CreateExpenseDTO) Validate(loc *time.Location) (time.Time, *errors.AppError) {
	var date time.Time

	v := validation.NewValidator()
	v.Field("date", dto.Date).
		Required(errors.ErrCodeInvalidDate).
		Custom(func(value interface{}) *errors.AppError {
			parsed, _, ok := ParseTime(value.(string), loc)
			if !ok {
				return errors.NewValidationFieldError("date", "date is not a valid date", errors.ErrCodeInvalidDate)
			}
			date = parsed
			return nil
		})
	v.Field("amount", dto.Amount).
		Required(errors.ErrCodeInvalidAmount).
		NonZero(errors.ErrCodeInvalidAmount)
	v.Field("currency", strings.TrimSpace(dto.Currency)).
		Custom(func(value interface{}) *errors.AppError {
			if c := value.(string); c != "" && !isCurrencyCode(c) {
				return errors.NewValidationFieldError("currency", "currency must be a 3-letter code", errors.ErrCodeInvalidCurrency)
			}
			return nil
		})
	v.Field("category", dto.Category).
		Required(errors.ErrCodeInvalidCategory).
		MaxLength(100, errors.ErrCodeInvalidCategory)

	if err := v.Validate(); err != nil {
		return time.Time{}, err
	}
	return date, nil
}

func isCurrencyCode(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// ListExpensesResponse wraps a filtered listing.
type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Count    int        `json:"count"`
}
