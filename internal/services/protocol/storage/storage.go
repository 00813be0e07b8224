// Package storage defines the persistence boundary shared by protocol
// storage backends.
package storage

import (
	"context"

	"github.com/louisbranch/lifeprotocol/internal/platform/errors"
	"github.com/louisbranch/lifeprotocol/internal/services/protocol/domain"
)

// ErrNotFound indicates a requested record does not exist.
var ErrNotFound = errors.New(errors.CodeNotFound, "record not found")

// UserStore persists accounts.
type UserStore interface {
	GetUser(ctx context.Context, login string) (domain.User, error)
	PutUser(ctx context.Context, user domain.User) error
}

// PartitionStore persists per-user partitions. SavePartition replaces the
// whole aggregate atomically.
type PartitionStore interface {
	LoadPartition(ctx context.Context, login string) (domain.Partition, error)
	SavePartition(ctx context.Context, partition domain.Partition) error
	ListPartitionLogins(ctx context.Context) ([]string, error)
}

// Store is the full persistence surface used by the engine.
type Store interface {
	UserStore
	PartitionStore
}
