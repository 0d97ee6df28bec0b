package domain

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// AdminTier reports whether r carries administrative privileges. Every
// organization must keep at least one active admin-tier member.
func (r Role) AdminTier() bool {
	return r == RoleOwner || r == RoleAdmin
}

// AtLeast reports whether r is the same rank as min or higher.
func (r Role) AtLeast(min Role) bool {
	return roleRank(r) >= roleRank(min)
}

func roleRank(r Role) int {
	switch r {
	case RoleOwner:
		return 3
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	}
	return 0
}

// Membership relates one user to one entity. The (entity, user) pair is
// unique regardless of the active flag: removal deactivates the row, and a
// later re-add reactivates it with a new role instead of inserting a
// duplicate.
type Membership struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	JoinedOn  time.Time `json:"joined_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Member is a membership joined with minimal user display info, as returned
// by member listings.
type Member struct {
	Membership
	UserName      string `json:"user_name"`
	UserEmail     string `json:"user_email"`
	UserAvatarURL string `json:"user_avatar_url,omitempty"`
}

// MemberFilter narrows a member listing. The zero value lists all active
// members in insertion order.
type MemberFilter struct {
	Role            Role
	IncludeInactive bool
	Limit           int
	Offset          int
}
