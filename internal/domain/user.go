package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account that owns documents
type User struct {
	ID              uint64 `gorm:"primaryKey"`
	Name            string
	Email           string `gorm:"uniqueIndex"`
	Password        string `gorm:"-"` // input only, not stored in db
	PasswordHash    string
	Role            string `gorm:"default:user"`
	InvitationCount int    `gorm:"default:0"`
	TokenVersion    int    `gorm:"default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	IsActive        bool `gorm:"default:true"`
}

// Profile is the identity surface exposed to editor clients
type Profile struct {
	ID              uint64    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	InvitationCount int       `json:"invitation_count"`
	CreatedAt       time.Time `json:"created_at"`
}

func (u *User) ToProfile() Profile {
	return Profile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		InvitationCount: u.InvitationCount,
		CreatedAt:       u.CreatedAt,
	}
}
