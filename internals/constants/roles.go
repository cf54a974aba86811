package constants

import "fmt"

const (
	RoleProfessor = "PROFESSEUR"
	RoleStudent   = "ETUDIANT"
	RoleManager   = "GESTIONNAIRE"
)

// Message used by OnlyRole when the role does not match.
const (
	ErrOnlyRoleCanAccess = "❌ Only %s accounts can access %s."
)

func RoleError(role, feature string) string {
	return fmt.Sprintf(ErrOnlyRoleCanAccess, role, feature)
}

var AllRoles = []string{
	RoleProfessor,
	RoleStudent,
	RoleManager,
}

func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
