package engine

import (
	"context"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
)

// AddLog prepends a journal entry to login's partition.
func (s *Service) AddLog(ctx context.Context, login string, title string, note string) (domain.LogEntry, error) {
	if err := s.ready(); err != nil {
		return domain.LogEntry{}, err
	}

	var entry domain.LogEntry
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		created, err := domain.NewLogEntry(title, note, s.now(), s.disambiguator())
		if err != nil {
			return false, err
		}
		p.Logs = domain.PrependLog(p.Logs, created)
		entry = created
		return true, nil
	})
	return entry, err
}

// ListLogs returns the journal of the resolved login, newest first.
func (s *Service) ListLogs(ctx context.Context, login string) ([]domain.LogEntry, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	login = s.ResolveLogin(ctx, login)

	var logs []domain.LogEntry
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		logs = append([]domain.LogEntry(nil), p.Logs...)
		return false, nil
	})
	return logs, err
}
