package engine

import (
	"context"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
)

// MetricBoard is the progress indicator set of one partition.
type MetricBoard struct {
	Locale   string
	Progress domain.Progress
	Metrics  []domain.Metric
}

// Metrics derives progress indicators for the resolved login.
func (s *Service) Metrics(ctx context.Context, login string) (MetricBoard, error) {
	if err := s.ready(); err != nil {
		return MetricBoard{}, err
	}
	login = s.ResolveLogin(ctx, login)

	var board MetricBoard
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		progress := domain.ProgressOf(*p)
		board = MetricBoard{Locale: p.Locale, Progress: progress, Metrics: domain.MetricsOf(progress)}
		return false, nil
	})
	return board, err
}
