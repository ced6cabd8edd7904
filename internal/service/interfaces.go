package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"sports_dashboard/internal/domain"
)

// UpstreamAPI is the session-authenticated REST layer.
type UpstreamAPI interface {
	Get(ctx context.Context, path, cookie string, out any) error
}

// LocalStore holds the fallback JSON payloads by key. Get returns
// domain.ErrNotFound for a key that was never written.
type LocalStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetForUpdate(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, payload []byte) error
}

type RenderStateStore interface {
	Record(ctx context.Context, state *domain.RenderState) error
	Latest(ctx context.Context, view string) (*domain.RenderState, error)
	List(ctx context.Context, limit uint64) ([]domain.RenderState, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Publisher interface {
	Publish(ctx context.Context, msg *domain.ViewMessage) error
	Close() error
}
