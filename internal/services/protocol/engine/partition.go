package engine

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage"
)

// partitionFunc mutates p and reports whether it must be persisted.
type partitionFunc func(p *domain.Partition) (bool, error)

// withPartition runs fn inside login's exclusive section after the load,
// migration and reset steps. It reports whether a reset happened.
func (s *Service) withPartition(ctx context.Context, login string, trigger domain.ResetTrigger, fn partitionFunc) (bool, error) {
	unlock := s.locks.Lock(login)
	defer unlock()
	return s.withPartitionLocked(ctx, login, trigger, fn)
}

// withPartitionLocked is withPartition for callers already holding the
// section. A reset or migration is persisted even when fn fails.
func (s *Service) withPartitionLocked(ctx context.Context, login string, trigger domain.ResetTrigger, fn partitionFunc) (bool, error) {
	p, dirty, err := s.loadPartition(ctx, login)
	if err != nil {
		return false, err
	}
	reset := s.maybeReset(&p, trigger)
	dirty = dirty || reset

	var fnErr error
	if fn != nil {
		changed, err := fn(&p)
		if err != nil {
			fnErr = err
		} else {
			dirty = dirty || changed
		}
	}
	if dirty {
		if err := s.store.SavePartition(ctx, p); err != nil {
			return reset, fmt.Errorf("save partition %s: %w", login, err)
		}
	}
	return reset, fnErr
}

// loadPartition reads login's partition, creating the default one on first
// reference. It reports whether the returned value differs from storage.
func (s *Service) loadPartition(ctx context.Context, login string) (domain.Partition, bool, error) {
	p, err := s.store.LoadPartition(ctx, login)
	if errors.Is(err, storage.ErrNotFound) {
		locale := s.defaultLocale()
		if user, err := s.store.GetUser(ctx, login); err == nil && user.Locale != "" {
			locale = user.Locale
		}
		return domain.NewPartition(login, locale, s.now(), s.cfg.Interval), true, nil
	}
	if err != nil {
		return domain.Partition{}, false, fmt.Errorf("load partition %s: %w", login, err)
	}

	p, migrated := domain.MigratePartition(p, s.defaultLocale())
	if migrated {
		log.Printf("protocol: migrated partition %s to schema %d", login, domain.SchemaVersion)
	}
	if p.Login == "" {
		p.Login = login
		migrated = true
	}
	return p, migrated, nil
}
