package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" db:"id"`
	Email        string    `gorm:"column:email;uniqueIndex;not null" db:"email"`
	Name         *string   `gorm:"column:name" db:"name"`
	Image        *string   `gorm:"column:image" db:"image"`
	PasswordHash *string   `gorm:"column:password_hash" db:"password_hash"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" db:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" db:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
