package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dml-mx/facturacion-portal-go/internal/repository"
	"github.com/dml-mx/facturacion-portal-go/internal/storage"
)

// staleUploadAge is how long an abandoned temp upload may linger before
// the sweep removes it. Normal submissions delete their file
// themselves; this only catches crashes.
const staleUploadAge = time.Hour

type CleanupJob struct {
	sessionRepo repository.SessionRepository
	store       *storage.Store
	interval    time.Duration
	done        chan struct{}
}

func NewCleanupJob(
	sessionRepo repository.SessionRepository,
	store *storage.Store,
	interval time.Duration,
) *CleanupJob {
	return &CleanupJob{
		sessionRepo: sessionRepo,
		store:       store,
		interval:    interval,
		done:        make(chan struct{}),
	}
}

func (j *CleanupJob) Start() {
	go j.run()
	log.Info().Dur("interval", j.interval).Msg("cleanup job started")
}

func (j *CleanupJob) Stop() {
	close(j.done)
	log.Info().Msg("cleanup job stopped")
}

func (j *CleanupJob) run() {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.cleanup()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.cleanup()
		}
	}
}

func (j *CleanupJob) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to cleanup expired sessions")
	} else if count > 0 {
		log.Info().Int64("count", count).Msg("cleaned up expired sessions")
	}

	removed, err := j.store.RemoveStaleTemp(staleUploadAge)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep stale uploads")
	} else if removed > 0 {
		log.Info().Int("count", removed).Msg("swept stale uploads")
	}
}
