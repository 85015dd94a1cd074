package expense

import (
	"strings"
	"time"

	expenseDatamodel "github.com/frahmantamala/expense-insight/internal/core/datamodel/expense"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const UncategorizedLabel = "Uncategorized"

const (
	PaymentMethodCard   = "card"
	PaymentMethodCash   = "cash"
	PaymentMethodUPI    = "upi"
	PaymentMethodWallet = "wallet"
)

// Expense is one spending (positive amount) or refund (non-positive amount) entry.
type Expense struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Date          time.Time       `json:"date"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Category      string          `json:"category"`
	Merchant      *string         `json:"merchant"`
	Notes         *string         `json:"notes"`
	Tags          []string        `json:"tags"`
	PaymentMethod *string         `json:"paymentMethod"`
	Recurring     bool            `json:"recurring"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CategoryLabel returns the category used for grouping.
func (e *Expense) CategoryLabel() string {
	if c := strings.TrimSpace(e.Category); c != "" {
		return c
	}
	return UncategorizedLabel
}

// NormalizePaymentMethod trims and lower-cases a payment method. Blank input is unset.
func NormalizePaymentMethod(pm *string) *string {
	if pm == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*pm))
	if v == "" {
		return nil
	}
	return &v
}

func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// NewExpense builds a record from an already validated payload.
func NewExpense(userID string, dto CreateExpenseDTO, date time.Time, defaultCurrency string) *Expense {
	currency := strings.ToUpper(strings.TrimSpace(dto.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	recurring := false
	if dto.Recurring != nil {
		recurring = *dto.Recurring
	}

	return &Expense{
		ID:            uuid.NewString(),
		UserID:        userID,
		Date:          date,
		Amount:        *dto.Amount,
		Currency:      currency,
		Category:      strings.TrimSpace(dto.Category),
		Merchant:      optionalText(dto.Merchant),
		Notes:         optionalText(dto.Notes),
		Tags:          cleanTags(dto.Tags),
		PaymentMethod: NormalizePaymentMethod(dto.PaymentMethod),
		Recurring:     recurring,
		CreatedAt:     time.Now(),
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:            e.ID,
		UserID:        e.UserID,
		Date:          e.Date,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Category:      e.Category,
		Merchant:      e.Merchant,
		Notes:         e.Notes,
		Tags:          e.Tags,
		PaymentMethod: e.PaymentMethod,
		Recurring:     e.Recurring,
		CreatedAt:     e.CreatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	tags := e.Tags
	if tags == nil {
		tags = []string{}
	}
	return &Expense{
		ID:            e.ID,
		UserID:        e.UserID,
		Date:          e.Date,
		Amount:        e.Amount,
		Currency:      e.Currency,
		Category:      e.Category,
		Merchant:      e.Merchant,
		Notes:         e.Notes,
		Tags:          tags,
		PaymentMethod: e.PaymentMethod,
		Recurring:     e.Recurring,
		CreatedAt:     e.CreatedAt,
	}
}

func FromDataModelSlice(expenses []*expenseDatamodel.Expense) []*Expense {
	result := make([]*Expense, len(expenses))
	for i, e := range expenses {
		result[i] = FromDataModel(e)
	}
	return result
}
