package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/pkg/container"
)

// asynqScheduler wraps the asynq scheduler.
type asynqScheduler struct {
	scheduler *asynq.Scheduler
}

// setupScheduler registers the periodic overdue scan and starts the scheduler.
func setupScheduler(c *container.Container) *asynqScheduler {
	scheduler := asynq.NewScheduler(redisOpt(c), nil)

	spec := c.Config.Worker.OverdueScanSpec
	if _, err := scheduler.Register(spec, asynq.NewTask(TypeOverdueScan, nil)); err != nil {
		log.Fatal().Err(err).Str("spec", spec).Msg("failed to register overdue scan")
	}

	go func() {
		log.Info().Str("spec", spec).Msg("scheduler starting")
		if err := scheduler.Run(); err != nil {
			log.Fatal().Err(err).Msg("scheduler failed")
		}
	}()

	return &asynqScheduler{scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	s.scheduler.Shutdown()
}
