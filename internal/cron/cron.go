package cron

import (
	"context"
	"time"

	"workforce/config"
	"workforce/internal/service"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron)

const defaultOutboxSchedule = "*/30 * * * * *"

type outboxDrainer interface {
	Drain(ctx context.Context) (service.DrainReport, error)
}

type Cron struct {
	logger   *zap.Logger
	server   *cron.Cron
	schedule string
	outbox   outboxDrainer
}

// NewCron .
func NewCron(logger *zap.Logger, config *config.Configuration, outbox *service.IdentityCleanupService) *Cron {
	return newCron(logger, config.Outbox.Schedule, outbox)
}

func newCron(logger *zap.Logger, schedule string, outbox outboxDrainer) *Cron {
	if schedule == "" {
		schedule = defaultOutboxSchedule
	}
	server := cron.New(
		cron.WithSeconds(),
		// 上一輪還沒跑完就跳過，避免同一個 job 被重複 claim
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	return &Cron{
		logger:   logger,
		server:   server,
		schedule: schedule,
		outbox:   outbox,
	}
}

func (c *Cron) Run() error {
	if _, err := c.server.AddFunc(c.schedule, c.drainIdentityOutbox); err != nil {
		return err
	}
	c.server.Start()
	return nil
}

func (c *Cron) Stop(ctx context.Context) error {
	select {
	case <-c.server.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (c *Cron) drainIdentityOutbox() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if report, err := c.outbox.Drain(ctx); err != nil {
		c.logger.Error("[Cron] identity outbox drain failed", zap.Error(err), zap.Any("report", report))
	}
}
