package deletion

import (
	"strings"

	"workforce/internal/core"
)

// NormalizeRole 將各種寫法收斂到固定的角色字彙
func NormalizeRole(raw string) core.Role {
	role := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case role == "":
		return ""
	case role == "superadmin" || role == "super_admin" || role == "super admin" || role == "super-admin":
		return core.RoleSuperAdmin
	case strings.Contains(role, "admin"):
		return core.RoleAdmin
	case strings.Contains(role, "hr"):
		return core.RoleHR
	case strings.Contains(role, "employee"):
		return core.RoleEmployee
	}
	return core.Role(role)
}

// CanDelete 只查能力表，沒有列在表上的組合一律拒絕
func CanDelete(requester, target core.Role) bool {
	for _, allowed := range core.RoleDeletableTargets[requester] {
		if allowed == target {
			return true
		}
	}
	return false
}
