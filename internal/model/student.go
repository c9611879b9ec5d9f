package model

import "time"

type Student struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	Slug         string     `json:"slug"`
	PasswordHash string     `json:"-"`
	TelegramID   *int64     `json:"telegram_id,omitempty"`
	IsActive     bool       `json:"is_active"`
	IsDeleted    bool       `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}
