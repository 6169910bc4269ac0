package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	redisRepository "workforce/internal/database/redis/repository"
	"workforce/internal/dto"
	cErr "workforce/internal/pkg/error"
	"workforce/internal/service/deletion"
	"workforce/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const activeListingSuffix = "active"

type listingCache interface {
	Key(tenantID string, entity core.EntityType, suffix ...string) string
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ReassignmentService 刪除被 DEPENDENT_RECORDS 擋下時，列出可以接手的對象
type ReassignmentService struct {
	tenants deletion.TenantResolver
	cache   listingCache
	trace   *telemetry.Trace
	logger  *zap.Logger
}

func NewReassignmentService(
	tenants deletion.TenantResolver,
	cache *redisRepository.ListingCacheRepository,
	trace *telemetry.Trace,
	logger *zap.Logger,
) *ReassignmentService {
	return &ReassignmentService{tenants: tenants, cache: cache, trace: trace, logger: logger}
}

// Candidates 與刪除時的 target 驗證使用相同範圍：
// 員工需同部門同職稱，職稱需同部門，部門不限
func (s *ReassignmentService) Candidates(ctx context.Context, tenantID string, entity core.EntityType, sourceID string) (_ *dto.CandidateListDto, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer func() { end(returnedError) }()

	if !entity.Valid() {
		return nil, cErr.BadRequestParams(fmt.Sprintf("unsupported entity %q", entity))
	}
	if strings.TrimSpace(tenantID) == "" {
		return nil, cErr.Validation("tenantId", "tenantId is required")
	}
	source, err := deletion.ParseRef(strings.ToLower(entity.Singular())+"Id", sourceID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants(tenantID)
	if err != nil {
		return nil, cErr.DatabaseError("open tenant store").Wrap(err)
	}

	var scope dto.CandidateDto
	if err := s.loadSource(ctx, tenant, entity, source, &scope); err != nil {
		return nil, err
	}

	all, cached, err := s.listing(ctx, tenant, tenantID, entity)
	if err != nil {
		return nil, err
	}

	candidates := make([]*dto.CandidateDto, 0, len(all))
	for _, c := range all {
		if c.ID == source.Hex() || !inScope(entity, &scope, c) {
			continue
		}
		candidates = append(candidates, c)
	}
	return &dto.CandidateListDto{
		Entity:     string(entity),
		SourceID:   source.Hex(),
		Candidates: candidates,
		Cached:     cached,
	}, nil
}

func (s *ReassignmentService) loadSource(ctx context.Context, tenant deletion.Tenant, entity core.EntityType, source deletion.Ref, out *dto.CandidateDto) error {
	var err error
	switch entity {
	case core.EntityEmployee:
		var e model.Employee
		if err = tenant.FindOne(ctx, entity.Collection(), source.ById(), &e); err == nil {
			*out = *employeeCandidate(&e)
		}
	case core.EntityDesignation:
		var d model.Designation
		if err = tenant.FindOne(ctx, entity.Collection(), source.ById(), &d); err == nil {
			*out = *designationCandidate(&d)
		}
	default:
		var d model.Department
		if err = tenant.FindOne(ctx, entity.Collection(), source.ById(), &d); err == nil {
			*out = *departmentCandidate(&d)
		}
	}
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return cErr.NotFound(entity.Singular() + " not found")
		}
		return cErr.DatabaseError("load " + strings.ToLower(entity.Singular())).Wrap(err)
	}
	return nil
}

// listing 租戶內所有未刪除的實體，先讀 Redis，miss 時查 Mongo 再回填
func (s *ReassignmentService) listing(ctx context.Context, tenant deletion.Tenant, tenantID string, entity core.EntityType) ([]*dto.CandidateDto, bool, error) {
	key := s.cache.Key(tenantID, entity, activeListingSuffix)
	if raw, hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("listing cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		var out []*dto.CandidateDto
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, true, nil
		}
		s.logger.Warn("listing cache entry corrupted", zap.String("key", key))
	}

	out, err := s.query(ctx, tenant, entity)
	if err != nil {
		return nil, false, cErr.DatabaseError("list " + string(entity)).Wrap(err)
	}
	if raw, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, raw, 0); err != nil {
			s.logger.Warn("listing cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return out, false, nil
}

func (s *ReassignmentService) query(ctx context.Context, tenant deletion.Tenant, entity core.EntityType) ([]*dto.CandidateDto, error) {
	active := bson.M{"isDeleted": bson.M{"$ne": true}}
	var out []*dto.CandidateDto
	switch entity {
	case core.EntityEmployee:
		var rows []model.Employee
		if err := tenant.Find(ctx, entity.Collection(), active, &rows); err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, employeeCandidate(&rows[i]))
		}
	case core.EntityDesignation:
		var rows []model.Designation
		if err := tenant.Find(ctx, entity.Collection(), active, &rows); err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, designationCandidate(&rows[i]))
		}
	default:
		var rows []model.Department
		if err := tenant.Find(ctx, entity.Collection(), active, &rows); err != nil {
			return nil, err
		}
		for i := range rows {
			out = append(out, departmentCandidate(&rows[i]))
		}
	}
	return out, nil
}

func inScope(entity core.EntityType, source, candidate *dto.CandidateDto) bool {
	switch entity {
	case core.EntityEmployee:
		return strings.EqualFold(source.DepartmentID, candidate.DepartmentID) &&
			strings.EqualFold(source.DesignationID, candidate.DesignationID)
	case core.EntityDesignation:
		return strings.EqualFold(source.DepartmentID, candidate.DepartmentID)
	default:
		return true
	}
}

func employeeCandidate(e *model.Employee) *dto.CandidateDto {
	return &dto.CandidateDto{
		ID:            e.ID.Hex(),
		Name:          e.DisplayName(),
		Code:          e.EmployeeCode,
		Email:         e.PrimaryEmail(),
		DepartmentID:  e.DepartmentID.String(),
		DesignationID: e.DesignationID.String(),
	}
}

func designationCandidate(d *model.Designation) *dto.CandidateDto {
	return &dto.CandidateDto{ID: d.ID.Hex(), Name: d.Designation, DepartmentID: d.DepartmentID.String()}
}

func departmentCandidate(d *model.Department) *dto.CandidateDto {
	return &dto.CandidateDto{ID: d.ID.Hex(), Name: d.Department}
}
