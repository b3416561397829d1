package models

import "time"

// User represents a registered account. The login key is the email address.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required"`
	Password  string    `json:"-" gorm:"type:varchar(255)" validate:"required"` // bcrypt digest, never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublicView is the representation of a user that is safe to return to clients.
type PublicView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Public returns the client-facing view of the user (id and email only).
func (u *User) Public() PublicView {
	return PublicView{ID: u.ID, Email: u.Email}
}
