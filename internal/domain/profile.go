package domain

import "time"

// Profile is the public identity of a user. The row is created the first
// time we see the user, so every post author has a profile even if they
// never filled anything in.
type Profile struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayLabel returns the name to show for this profile, falling back
// from display name to username to the raw user id.
func (p *Profile) DisplayLabel() string {
	if p == nil {
		return ""
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != "" {
		return p.Username
	}
	return p.ID
}
