package service

import (
	"workforce/internal/database/mongodb/repository"
	redisRepository "workforce/internal/database/redis/repository"
	"workforce/internal/identity"
	"workforce/internal/service/deletion"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewHealthService,
	NewSecurityAuditService,
	NewIdentityCleanupService,
	NewReassignmentService,
	NewTenantResolver,
	identity.NewClerkDirectory,
	deletion.NewEngine,
	wire.Bind(new(deletion.IdentityDirectory), new(*identity.ClerkDirectory)),
	wire.Bind(new(deletion.IdentityCleaner), new(*IdentityCleanupService)),
	wire.Bind(new(deletion.ListingInvalidator), new(*redisRepository.ListingCacheRepository)),
	wire.Bind(new(deletion.SecurityAuditor), new(*SecurityAuditService)),
)

// NewTenantResolver 將 TenantRepository 轉成刪除引擎使用的 TenantResolver
func NewTenantResolver(tenants *repository.TenantRepository) deletion.TenantResolver {
	return func(tenantID string) (deletion.Tenant, error) {
		store, err := tenants.Tenant(tenantID)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
