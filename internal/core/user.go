package core

type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleHR         Role = "hr"
	RoleManager    Role = "manager"
	RoleLeads      Role = "leads"
	RoleEmployee   Role = "employee"
)

// 角色刪除能力表：requester → 可刪除的目標角色
var RoleDeletableTargets = map[Role][]Role{
	RoleSuperAdmin: {RoleHR, RoleEmployee},
	RoleAdmin:      {RoleHR, RoleEmployee},
	RoleHR:         {RoleEmployee},
}
