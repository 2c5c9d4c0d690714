package models

// Capability names a single action a role may perform.
type Capability string

const (
	CapManageUsers     Capability = "users:manage"
	CapManageQuestions Capability = "questions:manage"
	CapManageTests     Capability = "tests:manage"
	CapAssignTests     Capability = "tests:assign"
	CapViewAllTests    Capability = "tests:view_all"
	CapViewAllResults  Capability = "results:view_all"
	CapViewAnalytics   Capability = "tests:analytics"
)

// RoleCapabilities is the permission model. Teachers manage the question bank
// and tests but not other users.
var RoleCapabilities = map[UserRole][]Capability{
	RoleStudent: {},
	RoleTeacher: {
		CapManageQuestions,
		CapManageTests,
		CapAssignTests,
		CapViewAllTests,
		CapViewAllResults,
		CapViewAnalytics,
	},
	RoleAdmin: {
		CapManageUsers,
		CapManageQuestions,
		CapManageTests,
		CapAssignTests,
		CapViewAllTests,
		CapViewAllResults,
		CapViewAnalytics,
	},
}

// Can reports whether the role holds the capability. Unknown roles hold none.
func (r UserRole) Can(capability Capability) bool {
	for _, c := range RoleCapabilities[r] {
		if c == capability {
			return true
		}
	}
	return false
}

// IsValid reports whether r is one of ValidRoles.
func (r UserRole) IsValid() bool {
	for _, role := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
