package user

import "time"

// User is a poll participant. Participants are anonymous; the client
// generates the UUID and the only profile datum is a year of birth used
// for audience gating.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserUUID    string    `gorm:"uniqueIndex;not null" json:"user_uuid"`
	YearOfBirth int       `gorm:"not null" json:"year_of_birth"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	UserUUID    string `json:"user_uuid" binding:"required"`
	YearOfBirth int    `json:"year_of_birth" binding:"required"`
}
