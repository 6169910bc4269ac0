package service

import (
	"context"

	"workforce/internal/core"
	"workforce/internal/database/fluentd/model"
	"workforce/internal/database/fluentd/repository"
	"workforce/internal/service/deletion"

	"go.uber.org/zap"
)

type securityEventSink interface {
	LogSecurityEvent(ctx context.Context, event model.SecurityEvent) error
}

// SecurityAuditService 刪除授權稽核：寫 zap 並送 Fluentd
type SecurityAuditService struct {
	sink   securityEventSink
	logger *zap.Logger
}

func NewSecurityAuditService(logs *repository.LogRepository, logger *zap.Logger) *SecurityAuditService {
	return &SecurityAuditService{sink: logs, logger: logger}
}

// RecordSecurityEvent 送出失敗只記錄，不影響刪除流程
func (s *SecurityAuditService) RecordSecurityEvent(ctx context.Context, event core.SecurityEvent, record deletion.SecurityRecord) {
	fields := []zap.Field{
		zap.String("event", string(event)),
		zap.String("tenantId", record.TenantID),
		zap.String("requesterId", record.RequesterID),
		zap.String("requesterRole", string(record.RequesterRole)),
		zap.String("targetId", record.TargetID),
		zap.String("targetRole", string(record.TargetRole)),
	}
	entry := model.SecurityEvent{
		Event:         string(event),
		TenantID:      record.TenantID,
		RequesterID:   record.RequesterID,
		RequesterRole: string(record.RequesterRole),
		TargetID:      record.TargetID,
		TargetRole:    string(record.TargetRole),
	}
	if event == core.SecurityEventDeleteDenied {
		entry.Reason = "insufficient role"
		s.logger.Warn("security event", fields...)
	} else {
		s.logger.Info("security event", fields...)
	}

	if s.sink == nil {
		return
	}
	if err := s.sink.LogSecurityEvent(context.WithoutCancel(ctx), entry); err != nil {
		s.logger.Warn("security event forward failed", append(fields, zap.Error(err))...)
	}
}
