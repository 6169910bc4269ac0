package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workforce/config"
	"workforce/internal/core"
	"workforce/internal/database/mongodb/model"
	"workforce/internal/database/mongodb/repository"
	"workforce/internal/identity"
	"workforce/internal/telemetry"

	"github.com/cenkalti/backoff/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	defaultOutboxBatchSize   = 50
	defaultOutboxMaxAttempts = 8
	defaultOutboxBaseDelay   = 30 * time.Second
	defaultOutboxMaxDelay    = time.Hour
	defaultOutboxLease       = 5 * time.Minute
)

type identityDeleter interface {
	DeleteUser(ctx context.Context, userID string) error
}

type identityOutbox interface {
	EnsureIndexes(ctx context.Context, tenantID string) error
	TenantIDs(ctx context.Context) ([]string, error)
	ClaimDue(ctx context.Context, tenantID string, now time.Time, lease time.Duration) (*model.IdentityDeletionJob, error)
	MarkDone(ctx context.Context, tenantID string, jobID primitive.ObjectID) error
	MarkRetry(ctx context.Context, tenantID string, jobID primitive.ObjectID, status core.OutboxStatus, lastError string, nextAttemptAt time.Time) error
	CountByStatus(ctx context.Context, tenantID string, status core.OutboxStatus) (int64, error)
}

// DrainReport 一次 drain 的統計
type DrainReport struct {
	Tenants  int `json:"tenants"`
	Claimed  int `json:"claimed"`
	Done     int `json:"done"`
	Retrying int `json:"retrying"`
	Failed   int `json:"failed"`
}

// IdentityCleanupService 刪除外部身分帳號並維護 outbox 任務狀態
type IdentityCleanupService struct {
	directory   identityDeleter
	outbox      identityOutbox
	trace       *telemetry.Trace
	metric      *telemetry.Metric
	logger      *zap.Logger
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	lease       time.Duration
	now         func() time.Time
}

func NewIdentityCleanupService(
	directory *identity.ClerkDirectory,
	outbox *repository.IdentityOutboxRepository,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	config *config.Configuration,
) *IdentityCleanupService {
	return newIdentityCleanupService(directory, outbox, trace, metric, logger, config.Outbox)
}

func newIdentityCleanupService(
	directory identityDeleter,
	outbox identityOutbox,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	conf config.Outbox,
) *IdentityCleanupService {
	s := &IdentityCleanupService{
		directory:   directory,
		outbox:      outbox,
		trace:       trace,
		metric:      metric,
		logger:      logger,
		batchSize:   conf.BatchSize,
		maxAttempts: conf.MaxAttempts,
		baseDelay:   time.Duration(conf.BaseDelaySeconds) * time.Second,
		maxDelay:    time.Duration(conf.MaxDelaySeconds) * time.Second,
		lease:       time.Duration(conf.LeaseSeconds) * time.Second,
		now:         func() time.Time { return time.Now().UTC() },
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultOutboxBatchSize
	}
	if s.maxAttempts <= 0 {
		s.maxAttempts = defaultOutboxMaxAttempts
	}
	if s.baseDelay <= 0 {
		s.baseDelay = defaultOutboxBaseDelay
	}
	if s.maxDelay < s.baseDelay {
		s.maxDelay = max(defaultOutboxMaxDelay, s.baseDelay)
	}
	if s.lease <= 0 {
		s.lease = defaultOutboxLease
	}
	return s
}

// Lease drain 領取任務時的租約長度
func (s *IdentityCleanupService) Lease() time.Duration {
	return s.lease
}

// Attempt 刪除一個外部帳號；失敗時回傳原始錯誤，任務已排入重試
func (s *IdentityCleanupService) Attempt(ctx context.Context, tenantID string, job model.IdentityDeletionJob) error {
	_, err := s.attempt(ctx, tenantID, job)
	return err
}

func (s *IdentityCleanupService) attempt(ctx context.Context, tenantID string, job model.IdentityDeletionJob) (status core.OutboxStatus, returnedError error) {
	meta := core.TraceOutboxMeta{TenantID: tenantID, JobID: job.ID.Hex(), ExternalUserID: job.ExternalUserID, Attempts: job.Attempts + 1}
	ctx, span, end := s.trace.WithSpan(ctx)
	defer func() {
		meta.Status = string(status)
		s.trace.ApplyTraceAttributes(span, meta)
		s.metric.ObserveIdentityCleanup(status)
		end(returnedError)
	}()

	err := s.directory.DeleteUser(ctx, job.ExternalUserID)
	if err == nil || identity.IsNotFound(err) {
		if markErr := s.outbox.MarkDone(ctx, tenantID, job.ID); markErr != nil {
			// 下次領取時帳號已不存在，仍會被標記完成
			s.logger.Warn("identity outbox mark done failed",
				zap.String("tenantId", tenantID),
				zap.String("jobId", job.ID.Hex()),
				zap.Error(markErr),
			)
		}
		return core.OutboxStatusDone, nil
	}

	attempts := job.Attempts + 1
	status, next := s.schedule(attempts)
	if markErr := s.outbox.MarkRetry(ctx, tenantID, job.ID, status, err.Error(), next); markErr != nil {
		s.logger.Error("identity outbox mark retry failed",
			zap.String("tenantId", tenantID),
			zap.String("jobId", job.ID.Hex()),
			zap.Error(markErr),
		)
	}
	fields := []zap.Field{
		zap.String("tenantId", tenantID),
		zap.String("jobId", job.ID.Hex()),
		zap.String("externalUserId", job.ExternalUserID),
		zap.Int("attempts", attempts),
		zap.Error(err),
	}
	if status == core.OutboxStatusFailed {
		s.logger.Error("identity cleanup exhausted retries", fields...)
	} else {
		s.logger.Warn("identity cleanup failed, retry scheduled", append(fields, zap.Time("nextAttemptAt", next))...)
	}
	return status, err
}

// schedule 達到上限改為 failed，否則以指數退避決定下次時間
func (s *IdentityCleanupService) schedule(attempts int) (core.OutboxStatus, time.Time) {
	now := s.now()
	if attempts >= s.maxAttempts {
		return core.OutboxStatusFailed, now
	}
	return core.OutboxStatusPending, now.Add(s.delay(attempts))
}

// delay 第 n 次失敗後的等待時間：base * 2^(n-1)，上限 maxDelay
func (s *IdentityCleanupService) delay(attempts int) time.Duration {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     s.baseDelay,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         s.maxDelay,
	}
	b.Reset()
	d := s.baseDelay
	for i := 0; i < attempts; i++ {
		d = b.NextBackOff()
	}
	return d
}

// Drain 逐一租戶領取到期任務；單一租戶失敗不影響其他租戶
func (s *IdentityCleanupService) Drain(ctx context.Context) (report DrainReport, returnedError error) {
	ctx, _, end := s.trace.WithSpan(ctx, string(core.SpanOutboxDrain))
	defer func() { end(returnedError) }()

	tenantIDs, err := s.outbox.TenantIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list tenants: %w", err)
	}

	var errs []error
	for _, tenantID := range tenantIDs {
		report.Tenants++
		for range s.batchSize {
			if err := ctx.Err(); err != nil {
				return report, errors.Join(append(errs, err)...)
			}
			job, err := s.outbox.ClaimDue(ctx, tenantID, s.now(), s.lease)
			if err != nil {
				s.logger.Warn("identity outbox claim failed", zap.String("tenantId", tenantID), zap.Error(err))
				errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
				break
			}
			if job == nil {
				break
			}
			report.Claimed++
			status, _ := s.attempt(ctx, tenantID, *job)
			switch status {
			case core.OutboxStatusDone:
				report.Done++
			case core.OutboxStatusFailed:
				report.Failed++
			default:
				report.Retrying++
			}
		}
	}
	if report.Claimed > 0 {
		s.logger.Info("identity outbox drained",
			zap.Int("tenants", report.Tenants),
			zap.Int("claimed", report.Claimed),
			zap.Int("done", report.Done),
			zap.Int("retrying", report.Retrying),
			zap.Int("failed", report.Failed),
		)
	}
	return report, errors.Join(errs...)
}

// EnsureIndexes 為每個租戶的 outbox 建立索引
func (s *IdentityCleanupService) EnsureIndexes(ctx context.Context) error {
	tenantIDs, err := s.outbox.TenantIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tenants: %w", err)
	}
	var errs []error
	for _, tenantID := range tenantIDs {
		if err := s.outbox.EnsureIndexes(ctx, tenantID); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenantID, err))
		}
	}
	return errors.Join(errs...)
}

// Status 各租戶 pending / failed 任務數，省略全為 0 的租戶
func (s *IdentityCleanupService) Status(ctx context.Context) (map[string]map[core.OutboxStatus]int64, error) {
	tenantIDs, err := s.outbox.TenantIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	out := make(map[string]map[core.OutboxStatus]int64)
	for _, tenantID := range tenantIDs {
		counts := make(map[core.OutboxStatus]int64, 2)
		var total int64
		for _, status := range []core.OutboxStatus{core.OutboxStatusPending, core.OutboxStatusFailed} {
			n, err := s.outbox.CountByStatus(ctx, tenantID, status)
			if err != nil {
				return nil, fmt.Errorf("tenant %s: %w", tenantID, err)
			}
			counts[status] = n
			total += n
		}
		if total > 0 {
			out[tenantID] = counts
		}
	}
	return out, nil
}
