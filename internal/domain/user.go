package domain

import "time"

// User is the single account record held in a tenant document.
// It is created once at registration and never deleted.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	TenantID     string    `json:"tenantId"`
	CreatedAt    time.Time `json:"createdAt"`
	Active       bool      `json:"active"`
}

// PublicUser is the user record with the credential hash removed.
type PublicUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	TenantID  string    `json:"tenantId"`
	CreatedAt time.Time `json:"createdAt"`
	Active    bool      `json:"active"`
}

// Public strips the password hash for API responses.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		TenantID:  u.TenantID,
		CreatedAt: u.CreatedAt,
		Active:    u.Active,
	}
}
