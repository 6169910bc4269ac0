package core

import "github.com/golang-jwt/jwt/v4"

// Claims 上游登入服務簽發的 access token
type Claims struct {
	UserID    string `json:"userId"`
	CompanyID string `json:"companyId"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// gin context keys
const (
	ContextUserIDKey   = "userID"
	ContextTenantIDKey = "tenantID"
	ContextRoleKey     = "role"
)
