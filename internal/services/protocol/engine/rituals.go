package engine

import (
	"context"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
)

// RitualBoard is the ritual set of one partition.
type RitualBoard struct {
	Locale    string
	Rituals   []domain.Ritual
	Completed bool
}

func boardOf(p *domain.Partition) RitualBoard {
	return RitualBoard{
		Locale:    p.Locale,
		Rituals:   p.Clone().Rituals,
		Completed: domain.AllRitualsDone(p.Rituals),
	}
}

// ListRituals returns the rituals of the resolved login in canonical order.
func (s *Service) ListRituals(ctx context.Context, login string) (RitualBoard, error) {
	if err := s.ready(); err != nil {
		return RitualBoard{}, err
	}
	login = s.ResolveLogin(ctx, login)

	var board RitualBoard
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		board = boardOf(p)
		return false, nil
	})
	return board, err
}

// StartRitual activates the first unfinished ritual of login.
func (s *Service) StartRitual(ctx context.Context, login string) (RitualBoard, error) {
	if err := s.ready(); err != nil {
		return RitualBoard{}, err
	}

	var board RitualBoard
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		p.Rituals = domain.StartRitual(p.Rituals)
		board = boardOf(p)
		return true, nil
	})
	return board, err
}

// CompleteRitual marks rawID done for login and advances the progression.
func (s *Service) CompleteRitual(ctx context.Context, login string, rawID string) (RitualBoard, error) {
	if err := s.ready(); err != nil {
		return RitualBoard{}, err
	}
	ritualID, err := domain.ParseRitualID(rawID)
	if err != nil {
		return RitualBoard{}, err
	}

	var board RitualBoard
	_, err = s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		rituals, err := domain.CompleteRitual(p.Rituals, ritualID, s.now())
		if err != nil {
			return false, err
		}
		p.Rituals = rituals
		board = boardOf(p)
		return true, nil
	})
	return board, err
}
