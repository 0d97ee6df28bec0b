package domain

// User is an external identity referenced by memberships and invitations.
// This system reads user records for display and email lookups but never
// owns or mutates them.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
