package main

import (
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-api/pkg/container"
)

// asynqServer wraps the asynq server with its mux.
type asynqServer struct {
	server *asynq.Server
}

func redisOpt(c *container.Container) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     c.Config.Redis.Host,
		Password: c.Config.Redis.Password,
		DB:       c.Config.Redis.DB,
	}
}

// setupAsynqServer starts the task server with the overdue-scan handler.
func setupAsynqServer(c *container.Container) *asynqServer {
	srv := asynq.NewServer(redisOpt(c), asynq.Config{
		Concurrency: c.Config.Worker.Concurrency,
	})

	handlers := &taskHandlers{borrows: c.BorrowService}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOverdueScan, handlers.HandleOverdueScan)

	go func() {
		log.Info().Int("concurrency", c.Config.Worker.Concurrency).Msg("asynq server starting")
		if err := srv.Run(mux); err != nil {
			log.Fatal().Err(err).Msg("asynq server failed")
		}
	}()

	return &asynqServer{server: srv}
}

func (s *asynqServer) Shutdown() {
	s.server.Shutdown()
}
