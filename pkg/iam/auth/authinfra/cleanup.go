package authinfra

import (
	"context"
	"time"

	"github.com/mensajero-app/mensajero/pkg/iam/auth"
	"github.com/mensajero-app/mensajero/pkg/logx"
)

// CleanupService periodically sweeps expired tokens from the store, on
// top of the opportunistic sweep every write performs.
type CleanupService struct {
	store    auth.TokenStore
	interval time.Duration
}

func NewCleanupService(store auth.TokenStore, interval time.Duration) *CleanupService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &CleanupService{store: store, interval: interval}
}

// Start blocks until ctx is cancelled.
func (s *CleanupService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.store.SweepExpired(ctx); err != nil {
				logx.WithError(err).Error("token sweep failed")
			}
		}
	}
}
