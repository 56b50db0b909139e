package models

import "time"

// User represents a user in the system
// Password is stored hashed (bcrypt); never return plain in JSON responses
type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserDto is the wire shape of a user for register, update and lookups.
// Password is write-only and is never filled in by UserToDto.
type UserDto struct {
	ID       *int64 `json:"id,omitempty"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
}

// LoginDto carries the credentials for POST /login
type LoginDto struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// NewPasswordDto carries a change-password request
type NewPasswordDto struct {
	UserID              int64  `json:"userId"`
	OldPassword         string `json:"oldPassword"`
	NewPassword         string `json:"newPassword"`
	RepeatedNewPassword string `json:"repeatedNewPassword"`
}

// UserToDto maps a stored user to its transfer object, leaving the password out.
func UserToDto(u User) UserDto {
	id := u.ID
	return UserDto{
		ID:       &id,
		Username: u.Username,
		Name:     u.Name,
	}
}

// UserFromDto builds a new, not yet persisted user from a transfer object.
func UserFromDto(d UserDto) User {
	u := User{
		Username: d.Username,
		Name:     d.Name,
		Password: d.Password,
	}
	if d.ID != nil {
		u.ID = *d.ID
	}
	return u
}

// ApplyUpdate copies the mutable fields of d onto u.
// Only the display name can change; id, username and password are kept.
func (u *User) ApplyUpdate(d UserDto) {
	u.Name = d.Name
}
