package worker

import (
	"context"
	"time"

	"facturapos/internal/repository"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const retryBatchSize = 50

// RetrySweeper periodically re-attempts deliveries left in "pendiente"
// whose next_retry_at has passed.
type RetrySweeper struct {
	envioRepo repository.EnvioRepository
	entrega   *EntregaWorker
	cron      *cron.Cron
}

func NewRetrySweeper(envioRepo repository.EnvioRepository, entrega *EntregaWorker) *RetrySweeper {
	return &RetrySweeper{
		envioRepo: envioRepo,
		entrega:   entrega,
		cron:      cron.New(),
	}
}

// Start registers the sweep and begins running it every minute.
func (s *RetrySweeper) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("@every 1m", func() { s.Sweep(ctx) })
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Msg("retry sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *RetrySweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep picks up one batch of due retries and re-attempts them inline.
func (s *RetrySweeper) Sweep(ctx context.Context) {
	due, err := s.envioRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry sweep: listing pending deliveries failed")
		return
	}
	if len(due) == 0 {
		return
	}
	log.Info().Int("count", len(due)).Msg("retry sweep: re-attempting deliveries")
	for i := range due {
		s.entrega.Retry(ctx, &due[i])
	}
}
