package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"sports_dashboard/internal/domain"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var renderStateColumns = []string{
	"id", "view", "pass_id", "sequence", "origin", "item_count", "invalid_count", "rendered_at",
}

type RenderStateStore struct {
	db *sqlx.DB
}

func NewRenderStateStore(db *sqlx.DB) *RenderStateStore {
	return &RenderStateStore{db: db}
}

func (s *RenderStateStore) Record(ctx context.Context, state *domain.RenderState) error {
	query, args, err := psql.Insert("render_state").
		Columns("view", "pass_id", "sequence", "origin", "item_count", "invalid_count", "rendered_at").
		Values(state.View, state.PassID, state.Sequence, state.Origin, state.ItemCount, state.Invalid, state.RenderedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	return s.db.QueryRowContext(ctx, query, args...).Scan(&state.ID)
}

// Latest returns the most recent pass of view.
func (s *RenderStateStore) Latest(ctx context.Context, view string) (*domain.RenderState, error) {
	query, args, err := psql.Select(renderStateColumns...).
		From("render_state").
		Where(sq.Eq{"view": view}).
		OrderBy("rendered_at DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var state domain.RenderState
	err = s.db.GetContext(ctx, &state, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("render state for %q: %w", view, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// List returns the most recent passes across all views, newest first. A zero
// limit returns everything.
func (s *RenderStateStore) List(ctx context.Context, limit uint64) ([]domain.RenderState, error) {
	q := psql.Select(renderStateColumns...).
		From("render_state").
		OrderBy("rendered_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	states := []domain.RenderState{}
	if err := s.db.SelectContext(ctx, &states, query, args...); err != nil {
		return nil, err
	}
	return states, nil
}
