package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
)

const resetTitleKey = "daily.reset.title"

// maybeReset resets p when its cycle is due at now. Callers hold the
// partition's exclusive section.
func (s *Service) maybeReset(p *domain.Partition, trigger domain.ResetTrigger) bool {
	now := s.now()
	interval := s.cfg.Interval
	if !p.Cycle.Due(now, interval) {
		return false
	}
	if !p.Cycle.NextResetAt.IsZero() && p.Cycle.Anomalous(now, interval) {
		log.Printf("protocol: clock anomaly for %s: next reset %s is more than %s ahead of %s",
			p.Login, p.Cycle.NextResetAt.Format(time.RFC3339), interval, now.Format(time.RFC3339))
	}

	domain.ResetPartition(p, now, interval, s.resetEntry(p.Locale, trigger, now))
	log.Printf("protocol: %s reset for %s, next at %s", trigger, p.Login, p.Cycle.NextResetAt.Format(time.RFC3339))
	return true
}

func (s *Service) resetEntry(locale string, trigger domain.ResetTrigger, now time.Time) domain.LogEntry {
	next := now.Add(s.cfg.Interval)
	title := s.translator.Translate(locale, resetTitleKey, nil)
	note := s.translator.Translate(locale, "daily.reset.note."+string(trigger), map[string]any{
		"next": next.Format(time.RFC3339),
	})
	entry, err := domain.NewLogEntry(title, note, now, s.disambiguator())
	if err != nil {
		entry, _ = domain.NewLogEntry(resetTitleKey, note, now, s.disambiguator())
	}
	return entry
}

// Status reports the daily cycle of the resolved login, resetting it first
// when due.
func (s *Service) Status(ctx context.Context, login string) (domain.DailyStatus, error) {
	if err := s.ready(); err != nil {
		return domain.DailyStatus{}, err
	}
	login = s.ResolveLogin(ctx, login)

	var status domain.DailyStatus
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		status = domain.StatusOf(*p, s.now(), s.cfg.Interval)
		return false, nil
	})
	return status, err
}

// Sweep checks every stored partition for a due reset and returns how many
// were reset. Failures on one partition do not stop the others.
func (s *Service) Sweep(ctx context.Context, trigger domain.ResetTrigger) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	ctx, span := tracer.Start(ctx, "protocol.Sweep")
	defer span.End()

	logins, err := s.store.ListPartitionLogins(ctx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	resets := 0
	var errs []error
	for _, login := range logins {
		if err := ctx.Err(); err != nil {
			return resets, err
		}
		reset, err := s.withPartition(ctx, login, trigger, nil)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if reset {
			resets++
		}
	}
	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		return resets, err
	}
	return resets, nil
}

// CatchUp resets every partition whose deadline passed while the process
// was down.
func (s *Service) CatchUp(ctx context.Context) (int, error) {
	return s.Sweep(ctx, domain.TriggerStartup)
}

// RunSweeper sweeps every interval until ctx is done. A non-positive
// interval disables it.
func (s *Service) RunSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			resets, err := s.Sweep(ctx, domain.TriggerScheduled)
			if err != nil && ctx.Err() == nil {
				log.Printf("protocol: sweep: %v", err)
			}
			if resets > 0 {
				log.Printf("protocol: sweep reset %d partitions", resets)
			}
		}
	}
}
