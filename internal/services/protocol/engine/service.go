// Package engine runs the daily protocol use-cases over per-user partitions:
// the ritual cycle, the lazy daily reset, task replenishment, the journal and
// the session gate.
//
// Every operation on a partition runs inside that login's exclusive section:
// load, migrate, reset when due, mutate, persist. Calls to the suggestion
// generator happen outside the section.
package engine

import (
	"errors"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/platform/id"
	"github.com/louisbranch/lifeprotocol/internal/platform/otel"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
	"golang.org/x/crypto/bcrypt"
)

const disambiguatorLength = 6

// ErrStoreNotConfigured indicates the service is missing persistence wiring.
var ErrStoreNotConfigured = errors.New("protocol store is not configured")

var tracer = otel.Tracer("github.com/louisbranch/lifeprotocol/internal/services/protocol/engine")

// Translator resolves locale hints and renders catalog messages.
type Translator interface {
	Resolve(hint string) string
	Translate(locale string, key string, params map[string]any) string
}

// Config tunes the engine.
type Config struct {
	// Interval is the length of one daily cycle.
	Interval time.Duration
	// BatchSize is the number of suggestions requested for a refill.
	BatchSize int
	// DefaultLocale is the locale hint for partitions without one.
	DefaultLocale string
	// GenerationTimeout bounds one generator call. Zero means no extra bound.
	GenerationTimeout time.Duration
	// PasswordCost is the bcrypt cost for new password hashes.
	PasswordCost int
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = domain.DefaultInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = domain.DefaultTaskBatchSize
	}
	if c.PasswordCost == 0 {
		c.PasswordCost = bcrypt.DefaultCost
	}
	return c
}

// Service orchestrates protocol use-cases.
type Service struct {
	store      storage.Store
	generator  suggest.Generator
	translator Translator
	clock      func() time.Time
	newID      func() (string, error)
	cfg        Config
	locks      *keyedMutex
}

// NewService constructs the engine. A nil generator disables task
// suggestions; lists then stay as they are.
func NewService(store storage.Store, generator suggest.Generator, translator Translator, clock func() time.Time, newID func() (string, error), cfg Config) *Service {
	if clock == nil {
		clock = time.Now
	}
	if newID == nil {
		newID = func() (string, error) { return id.Short(disambiguatorLength) }
	}
	return &Service{
		store:      store,
		generator:  generator,
		translator: translator,
		clock:      clock,
		newID:      newID,
		cfg:        cfg.withDefaults(),
		locks:      newKeyedMutex(),
	}
}

// Interval returns the configured cycle length.
func (s *Service) Interval() time.Duration {
	return s.cfg.Interval
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

func (s *Service) defaultLocale() string {
	return s.translator.Resolve(s.cfg.DefaultLocale)
}

// disambiguator returns a short random suffix for record ids. A failing
// generator degrades to no suffix; the millisecond timestamp still applies.
func (s *Service) disambiguator() string {
	value, err := s.newID()
	if err != nil {
		return ""
	}
	return value
}

func (s *Service) ready() error {
	if s == nil || s.store == nil {
		return ErrStoreNotConfigured
	}
	return nil
}
