package services

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BackfillJob runs the legacy-round backfill on a cron schedule. New
// rounds always persist their derived fields, so the sweep only works
// through the backlog of pre-migration records and becomes a cheap
// no-op once that drains.
type BackfillJob struct {
	rounds    *RoundService
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *logrus.Logger
}

func NewBackfillJob(rounds *RoundService, schedule string, batchSize int, logger *logrus.Logger) *BackfillJob {
	return &BackfillJob{
		rounds:    rounds,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(),
		logger:    logger,
	}
}

func (j *BackfillJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.run); err != nil {
		return fmt.Errorf("invalid backfill schedule %q: %w", j.schedule, err)
	}
	j.cron.Start()
	j.logger.WithField("schedule", j.schedule).Info("Backfill job scheduled")
	return nil
}

func (j *BackfillJob) Stop() {
	<-j.cron.Stop().Done()
}

func (j *BackfillJob) run() {
	updated, err := j.rounds.BackfillLegacyRounds(context.Background(), j.batchSize)
	if err != nil {
		j.logger.WithError(err).Error("Backfill sweep failed")
		return
	}
	j.logger.WithField("updated", updated).Debug("Backfill sweep complete")
}
