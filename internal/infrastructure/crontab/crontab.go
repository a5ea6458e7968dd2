// Package crontab schedules the background maintenance passes of the
// service. All jobs are opt-in; the default deployment runs none.
package crontab

import (
	"context"
	"time"

	"github.com/mileusna/crontab"

	"github.com/tahien663-cpu/chat-api/internal/config"
	"github.com/tahien663-cpu/chat-api/internal/domain/conversation"
	"github.com/tahien663-cpu/chat-api/internal/infrastructure/logger"
	"github.com/tahien663-cpu/chat-api/internal/utils/platformerrors"
)

const (
	// CronJobTimeout bounds each job execution.
	CronJobTimeout = 10 * time.Minute

	// maintenanceBatchSize caps how many conversations one pass touches.
	maintenanceBatchSize = 200
)

type Crontab struct {
	ctab                *crontab.Crontab
	conversationService *conversation.ConversationService
}

func NewCrontab(conversationService *conversation.ConversationService) *Crontab {
	return &Crontab{
		ctab:                crontab.New(),
		conversationService: conversationService,
	}
}

// Run schedules the configured jobs and blocks until ctx is cancelled.
func (c *Crontab) Run(ctx context.Context) error {
	log := logger.GetLogger()
	cfg := config.GetGlobal()

	if cfg != nil && cfg.MaintenanceEnabled {
		staleAge := cfg.MaintenanceStaleAge
		if staleAge <= 0 {
			staleAge = 24 * time.Hour
		}

		// run once on start so a restart repairs the backlog promptly
		c.realignSummaries(ctx, staleAge)

		if err := c.ctab.AddJob(cfg.MaintenanceSchedule, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), CronJobTimeout)
			defer cancel()
			c.realignSummaries(jobCtx, staleAge)
		}); err != nil {
			return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add maintenance job")
		}
		log.Warn().Str("schedule", cfg.MaintenanceSchedule).Dur("stale_age", staleAge).Msg("Conversation maintenance scheduled")
	}

	// Schedule environment reload job
	if err := c.ctab.AddJob("* * * * *", func() {
		config.Load()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add env reload job")
	}

	<-ctx.Done()
	c.ctab.Shutdown()
	return nil
}

func (c *Crontab) realignSummaries(ctx context.Context, staleAge time.Duration) {
	log := logger.GetLogger()

	cutoff := time.Now().UTC().Add(-staleAge)
	result, err := c.conversationService.RealignStaleSummaries(ctx, cutoff, maintenanceBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("Conversation maintenance pass failed")
		return
	}

	if result.Pruned == 0 && result.Realigned == 0 {
		return
	}
	log.Info().
		Int("pruned", result.Pruned).
		Int("realigned", result.Realigned).
		Msg("Conversation maintenance pass finished")
}
