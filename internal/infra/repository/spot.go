package repository

import (
	"context"

	"parkspot/internal/domain/spot"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/clock"

	"github.com/jackc/pgx/v5"
)

const spotColumns = `id, level, section, status, updated_at`

type SpotRepository struct {
	db        DBTX
	clock     clock.Clock
	forUpdate bool
}

func NewSpotRepository(db DBTX, clk clock.Clock, forUpdate bool) *SpotRepository {
	return &SpotRepository{db: db, clock: clk, forUpdate: forUpdate}
}

func (r *SpotRepository) Create(ctx context.Context, s *spot.Spot) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO spots (id, level, section, status, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		s.ID(), s.Level(), s.Section(), s.Status().String(), s.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create spot "+s.ID(), err)
	}
	return nil
}

func (r *SpotRepository) Get(ctx context.Context, id string) (*spot.Spot, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+spotColumns+` FROM spots WHERE id = $1`+lockClause(r.forUpdate), id)
	s, err := scanSpot(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get spot "+id, err)
	}
	return s, nil
}

func (r *SpotRepository) List(ctx context.Context) ([]*spot.Spot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+spotColumns+` FROM spots ORDER BY level, section, created_at, id`)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list spots", err)
	}
	defer rows.Close()

	spots := make([]*spot.Spot, 0)
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan spot", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list spots", err)
	}
	return spots, nil
}

func (r *SpotRepository) SetStatus(ctx context.Context, id string, status spot.Status) (*spot.Spot, error) {
	s, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.TransitionTo(status, r.clock.Now()); err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx,
		`UPDATE spots SET status = $2, updated_at = $3 WHERE id = $1`,
		s.ID(), s.Status().String(), s.UpdatedAt(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to update spot "+id, err)
	}
	return s, nil
}

func (r *SpotRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM spots`).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count spots", err)
	}
	return n, nil
}

func scanSpot(row pgx.Row) (*spot.Spot, error) {
	var (
		s    spotRow
		stat string
	)
	if err := row.Scan(&s.id, &s.level, &s.section, &stat, &s.updatedAt); err != nil {
		return nil, err
	}
	return spot.ReconstructSpot(s.id, s.level, s.section, spot.Status(stat), s.updatedAt), nil
}
