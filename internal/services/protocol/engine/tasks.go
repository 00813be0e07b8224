package engine

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TaskList is the suggestion list of one partition, newest first.
type TaskList struct {
	Locale string
	Tasks  []domain.Task
}

func taskListOf(p *domain.Partition) TaskList {
	return TaskList{Locale: p.Locale, Tasks: append([]domain.Task(nil), p.Tasks...)}
}

// GetTasks returns the task list of the resolved login. An empty or fully
// stale list is replaced by a fresh batch from the generator. localeHint
// overrides the partition locale for generated text.
//
// Generator failures are logged and the current list is returned.
func (s *Service) GetTasks(ctx context.Context, login string, localeHint string) (TaskList, error) {
	if err := s.ready(); err != nil {
		return TaskList{}, err
	}
	login = s.ResolveLogin(ctx, login)
	ctx, span := tracer.Start(ctx, "protocol.GetTasks", trace.WithAttributes(attribute.String("login", login)))
	defer span.End()

	var (
		list   TaskList
		req    suggest.Request
		epoch  time.Time
		refill bool
	)
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		now := s.now()
		list = taskListOf(p)
		if !domain.NeedsRefill(p.Tasks, now, s.cfg.Interval) {
			return false, nil
		}
		refill = true
		epoch = p.Cycle.LastResetAt
		req = s.request(p, s.cfg.BatchSize, localeHint)

		kept := domain.DropStale(p.Tasks, now, s.cfg.Interval)
		changed := len(kept) != len(p.Tasks)
		p.Tasks = kept
		list = taskListOf(p)
		return changed, nil
	})
	if err != nil || !refill {
		return list, err
	}

	suggestions := s.generate(ctx, login, req)
	if len(suggestions) == 0 {
		return list, nil
	}

	_, err = s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		list = taskListOf(p)
		if !p.Cycle.LastResetAt.Equal(epoch) {
			log.Printf("protocol: discarding %d suggestions for %s: cycle reset during generation", len(suggestions), login)
			return false, nil
		}
		if !domain.NeedsRefill(p.Tasks, s.now(), s.cfg.Interval) {
			return false, nil
		}
		p.Tasks = s.newTasks(p.Tasks, suggestions)
		list = taskListOf(p)
		return true, nil
	})
	return list, err
}

// SwipeTask removes taskID from login's list and prepends one generated
// replacement, written in the stored locale of the authenticated login. An
// unknown id leaves the list untouched and skips the generator.
func (s *Service) SwipeTask(ctx context.Context, login string, taskID string) (TaskList, error) {
	if err := s.ready(); err != nil {
		return TaskList{}, err
	}
	taskID = strings.TrimSpace(taskID)
	ctx, span := tracer.Start(ctx, "protocol.SwipeTask", trace.WithAttributes(attribute.String("login", login)))
	defer span.End()

	var (
		list    TaskList
		req     suggest.Request
		epoch   time.Time
		removed bool
	)
	_, err := s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		tasks, ok := domain.RemoveTask(p.Tasks, taskID)
		if !ok {
			list = taskListOf(p)
			return false, nil
		}
		removed = true
		p.Tasks = tasks
		epoch = p.Cycle.LastResetAt
		req = s.request(p, 1, "")
		list = taskListOf(p)
		return true, nil
	})
	if err != nil || !removed {
		return list, err
	}

	suggestions := s.generate(ctx, login, req)
	if len(suggestions) == 0 {
		return list, nil
	}

	_, err = s.withPartition(ctx, login, domain.TriggerScheduled, func(p *domain.Partition) (bool, error) {
		list = taskListOf(p)
		if !p.Cycle.LastResetAt.Equal(epoch) {
			log.Printf("protocol: discarding replacement for %s: cycle reset during generation", login)
			return false, nil
		}
		p.Tasks = domain.PrependTasks(p.Tasks, s.newTasks(p.Tasks, suggestions[:1])...)
		list = taskListOf(p)
		return true, nil
	})
	return list, err
}

func (s *Service) request(p *domain.Partition, count int, localeHint string) suggest.Request {
	locale := p.Locale
	if strings.TrimSpace(localeHint) != "" {
		locale = s.translator.Resolve(localeHint)
	}
	progress := domain.ProgressOf(*p)
	return suggest.Request{
		Count:            count,
		Locale:           locale,
		RitualsTotal:     progress.RitualsTotal,
		RitualsCompleted: progress.RitualsCompleted,
		LogsCount:        progress.LogsCount,
		CompletionRatio:  progress.CompletionRatio,
	}
}

// generate calls the generator outside any partition section. It never
// fails: errors are logged and reported as no suggestions.
func (s *Service) generate(ctx context.Context, login string, req suggest.Request) []suggest.Suggestion {
	if s.generator == nil {
		return nil
	}
	ctx, span := tracer.Start(ctx, "protocol.Generate", trace.WithAttributes(attribute.Int("count", req.Count)))
	defer span.End()
	if s.cfg.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.GenerationTimeout)
		defer cancel()
	}

	suggestions, err := s.generator.Generate(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Printf("protocol: generate %d tasks for %s: %v", req.Count, login, err)
		return nil
	}
	out := make([]suggest.Suggestion, 0, len(suggestions))
	for _, suggestion := range suggestions {
		title := strings.TrimSpace(suggestion.Title)
		detail := strings.TrimSpace(suggestion.Detail)
		if title == "" || detail == "" {
			continue
		}
		out = append(out, suggest.Suggestion{Title: title, Detail: detail})
		if len(out) == req.Count {
			break
		}
	}
	return out
}

// newTasks builds records for suggestions with ids unique among existing.
func (s *Service) newTasks(existing []domain.Task, suggestions []suggest.Suggestion) []domain.Task {
	now := s.now()
	seen := make(map[string]struct{}, len(existing)+len(suggestions))
	for _, task := range existing {
		seen[task.ID] = struct{}{}
	}
	out := make([]domain.Task, 0, len(suggestions))
	for _, suggestion := range suggestions {
		taskID := domain.RecordID(suggestion.Title, now, s.disambiguator())
		for n := 2; ; n++ {
			if _, dup := seen[taskID]; !dup {
				break
			}
			taskID = domain.RecordID(suggestion.Title, now, s.disambiguator()+strconv.Itoa(n))
		}
		seen[taskID] = struct{}{}
		out = append(out, domain.Task{ID: taskID, Title: suggestion.Title, Detail: suggestion.Detail, CreatedAt: now})
	}
	return out
}
