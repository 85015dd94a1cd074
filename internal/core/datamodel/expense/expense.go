package expense

import (
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID            string          `gorm:"primaryKey;type:varchar(36)"`
	UserID        string          `gorm:"column:user_id;type:varchar(36);not null;index"`
	Date          time.Time       `gorm:"column:date;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	Currency      string          `gorm:"column:currency;type:varchar(3);not null"`
	Category      string          `gorm:"column:category;not null"`
	Merchant      *string         `gorm:"column:merchant"`
	Notes         *string         `gorm:"column:notes"`
	Tags          []string        `gorm:"column:tags;type:text;serializer:json"`
	PaymentMethod *string         `gorm:"column:payment_method"`
	Recurring     bool            `gorm:"column:recurring;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
