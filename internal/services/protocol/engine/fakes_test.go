package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/lifeprotocol/internal/platform/i18n"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/storage"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/suggest"
	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	mu         sync.Mutex
	users      map[string]domain.User
	partitions map[string]domain.Partition
	saves      int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[string]domain.User),
		partitions: make(map[string]domain.Partition),
	}
}

func (s *fakeStore) GetUser(_ context.Context, login string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[login]
	if !ok {
		return domain.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) PutUser(_ context.Context, user domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.Login] = user
	return nil
}

func (s *fakeStore) LoadPartition(_ context.Context, login string) (domain.Partition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partitions[login]
	if !ok {
		return domain.Partition{}, storage.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *fakeStore) SavePartition(_ context.Context, p domain.Partition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.partitions[p.Login] = p.Clone()
	s.saves++
	return nil
}

func (s *fakeStore) ListPartitionLogins(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	logins := make([]string, 0, len(s.partitions))
	for login := range s.partitions {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins, nil
}

func (s *fakeStore) partition(t *testing.T, login string) domain.Partition {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.partitions[login]
	if !ok {
		t.Fatalf("partition %s not stored", login)
	}
	return p.Clone()
}

type fakeGenerator struct {
	mu       sync.Mutex
	requests []suggest.Request
	generate func(context.Context, suggest.Request) ([]suggest.Suggestion, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, req suggest.Request) ([]suggest.Suggestion, error) {
	g.mu.Lock()
	g.requests = append(g.requests, req)
	generate := g.generate
	g.mu.Unlock()
	if generate == nil {
		return nil, nil
	}
	return generate(ctx, req)
}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

func returning(suggestions ...suggest.Suggestion) func(context.Context, suggest.Request) ([]suggest.Suggestion, error) {
	return func(context.Context, suggest.Request) ([]suggest.Suggestion, error) {
		return suggestions, nil
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type harness struct {
	svc        *Service
	store      *fakeStore
	generator  *fakeGenerator
	clock      *fakeClock
	translator *i18n.Translator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	translator, err := i18n.NewEmbedded("ru")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	h := &harness{
		store:      newFakeStore(),
		generator:  &fakeGenerator{},
		clock:      &fakeClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		translator: translator,
	}
	seq := 0
	var seqMu sync.Mutex
	newID := func() (string, error) {
		seqMu.Lock()
		defer seqMu.Unlock()
		seq++
		return fmt.Sprintf("id%04d", seq), nil
	}
	h.svc = NewService(h.store, h.generator, translator, h.clock.Now, newID, Config{
		Interval:      24 * time.Hour,
		BatchSize:     3,
		DefaultLocale: "ru",
		PasswordCost:  bcrypt.MinCost,
	})
	return h
}

// seed stores a user with password "secret" and its default partition.
func (h *harness) seed(t *testing.T, login string, locale string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	ctx := context.Background()
	if err := h.store.PutUser(ctx, domain.User{Login: login, PasswordHash: string(hash), Locale: locale, CreatedAt: h.clock.Now()}); err != nil {
		t.Fatalf("put user: %v", err)
	}
	if err := h.store.SavePartition(ctx, domain.NewPartition(login, locale, h.clock.Now(), 24*time.Hour)); err != nil {
		t.Fatalf("save partition: %v", err)
	}
}

func (h *harness) update(t *testing.T, login string, mutate func(p *domain.Partition)) {
	t.Helper()
	p := h.store.partition(t, login)
	mutate(&p)
	if err := h.store.SavePartition(context.Background(), p); err != nil {
		t.Fatalf("save partition: %v", err)
	}
}

func titles(tasks []domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
