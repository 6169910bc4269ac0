package command

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"workforce/internal/core"
	"workforce/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type identityOutbox interface {
	Drain(ctx context.Context) (service.DrainReport, error)
	Status(ctx context.Context) (map[string]map[core.OutboxStatus]int64, error)
	EnsureIndexes(ctx context.Context) error
}

// IdentityOutboxHandler 手動操作身分帳號刪除補償任務
type IdentityOutboxHandler struct {
	logger  *zap.Logger
	outbox  identityOutbox
	timeout time.Duration
}

func NewIdentityOutboxHandler(logger *zap.Logger, outbox *service.IdentityCleanupService) *IdentityOutboxHandler {
	return newIdentityOutboxHandler(logger, outbox)
}

func newIdentityOutboxHandler(logger *zap.Logger, outbox identityOutbox) *IdentityOutboxHandler {
	return &IdentityOutboxHandler{logger: logger, outbox: outbox, timeout: 10 * time.Minute}
}

func (handler *IdentityOutboxHandler) Drain(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), handler.timeout)
	defer cancel()

	report, err := handler.outbox.Drain(ctx)
	if printErr := printJSON(cmd, report); printErr != nil {
		return printErr
	}
	return err
}

func (handler *IdentityOutboxHandler) Status(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), handler.timeout)
	defer cancel()

	status, err := handler.outbox.Status(ctx)
	if err != nil {
		return err
	}
	if len(status) == 0 {
		cmd.Println("no pending or failed identity cleanup jobs")
		return nil
	}
	tenants := make([]string, 0, len(status))
	for tenantID := range status {
		tenants = append(tenants, tenantID)
	}
	sort.Strings(tenants)
	for _, tenantID := range tenants {
		counts := status[tenantID]
		cmd.Printf("%s\tpending=%d\tfailed=%d\n", tenantID, counts[core.OutboxStatusPending], counts[core.OutboxStatusFailed])
	}
	return nil
}

func (handler *IdentityOutboxHandler) EnsureIndexes(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), handler.timeout)
	defer cancel()

	if err := handler.outbox.EnsureIndexes(ctx); err != nil {
		return err
	}
	handler.logger.Info("identity outbox indexes ensured")
	cmd.Println("indexes ensured")
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
