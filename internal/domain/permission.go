package domain

// Capability names a single action that a role may or may not be granted.
type Capability string

const (
	CapabilityViewEntity     Capability = "entity:view"
	CapabilityEditEntity     Capability = "entity:edit"
	CapabilityDeleteEntity   Capability = "entity:delete"
	CapabilityManageMembers  Capability = "members:manage"
	CapabilityInviteMembers  Capability = "members:invite"
	CapabilityCreateProjects Capability = "projects:create"
	CapabilityManageProjects Capability = "projects:manage"
	CapabilityViewProjects   Capability = "projects:view"
	CapabilityManageAPIKeys  Capability = "apikeys:manage"
	CapabilityViewAPIKeys    Capability = "apikeys:view"
)

// Permissions is the fixed capability set granted by a role. It is static
// configuration: the per-role sets are built once by PermissionsForRole and
// never mutated at runtime.
type Permissions struct {
	ViewEntity     bool `json:"view_entity"`
	EditEntity     bool `json:"edit_entity"`
	DeleteEntity   bool `json:"delete_entity"`
	ManageMembers  bool `json:"manage_members"`
	InviteMembers  bool `json:"invite_members"`
	CreateProjects bool `json:"create_projects"`
	ManageProjects bool `json:"manage_projects"`
	ViewProjects   bool `json:"view_projects"`
	ManageAPIKeys  bool `json:"manage_api_keys"`
	ViewAPIKeys    bool `json:"view_api_keys"`
}

// Has reports whether the set grants the given capability.
func (p Permissions) Has(c Capability) bool {
	switch c {
	case CapabilityViewEntity:
		return p.ViewEntity
	case CapabilityEditEntity:
		return p.EditEntity
	case CapabilityDeleteEntity:
		return p.DeleteEntity
	case CapabilityManageMembers:
		return p.ManageMembers
	case CapabilityInviteMembers:
		return p.InviteMembers
	case CapabilityCreateProjects:
		return p.CreateProjects
	case CapabilityManageProjects:
		return p.ManageProjects
	case CapabilityViewProjects:
		return p.ViewProjects
	case CapabilityManageAPIKeys:
		return p.ManageAPIKeys
	case CapabilityViewAPIKeys:
		return p.ViewAPIKeys
	}
	return false
}

// PermissionsForRole maps a role to its fixed capability set. Unknown roles
// get an empty set.
func PermissionsForRole(r Role) Permissions {
	switch r {
	case RoleOwner:
		return Permissions{
			ViewEntity:     true,
			EditEntity:     true,
			DeleteEntity:   true,
			ManageMembers:  true,
			InviteMembers:  true,
			CreateProjects: true,
			ManageProjects: true,
			ViewProjects:   true,
			ManageAPIKeys:  true,
			ViewAPIKeys:    true,
		}
	case RoleAdmin:
		return Permissions{
			ViewEntity:     true,
			EditEntity:     true,
			ManageMembers:  true,
			InviteMembers:  true,
			CreateProjects: true,
			ManageProjects: true,
			ViewProjects:   true,
			ManageAPIKeys:  true,
			ViewAPIKeys:    true,
		}
	case RoleMember:
		return Permissions{
			ViewEntity:     true,
			CreateProjects: true,
			ViewProjects:   true,
			ViewAPIKeys:    true,
		}
	}
	return Permissions{}
}

// MinimumRoleFor scans the roles from least to most privileged and returns
// the first one granting the capability. The second return is false when no
// role grants it.
func MinimumRoleFor(c Capability) (Role, bool) {
	for _, r := range []Role{RoleMember, RoleAdmin, RoleOwner} {
		if PermissionsForRole(r).Has(c) {
			return r, true
		}
	}
	return "", false
}
