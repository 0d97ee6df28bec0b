package domain

import "time"

type EntityKind string

const (
	EntityKindPersonal     EntityKind = "personal"
	EntityKindOrganization EntityKind = "organization"
)

// Entity is a tenant-scoped workspace: either a personal workspace (one per
// user, never deleted) or an organization with many members.
type Entity struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Kind        EntityKind `json:"kind"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	AvatarURL   string     `json:"avatar_url,omitempty"`
	CreatedBy   string     `json:"created_by"`
	CreatedOn   time.Time  `json:"created_on"`
	UpdatedOn   time.Time  `json:"updated_on"`
}

// EntityWithRole annotates an entity with the caller's role in it.
type EntityWithRole struct {
	Entity
	Role Role `json:"role"`
}
