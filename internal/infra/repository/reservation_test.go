//go:build unit

package repository_test

import (
	"context"
	"testing"

	"parkspot/internal/infra"
	"parkspot/internal/infra/repository"
	"parkspot/internal/pkg/errs"
	"parkspot/tests/common/builder"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingExec is a DBTX whose writes all fail with err.
type failingExec struct {
	repository.DBTX
	err error
}

func (f failingExec) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, f.err
}

func (f failingExec) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected read")
}

func TestReservationRepository_CreateConflicts(t *testing.T) {
	cases := []struct {
		name            string
		err             error
		spotUnavailable bool
		kind            infra.RepositoryErrorKind
	}{
		{
			name:            "second open reservation on a spot",
			err:             &pgconn.PgError{Code: "23505", ConstraintName: "reservations_one_open_per_spot"},
			spotUnavailable: true,
			kind:            infra.KindDuplicateKey,
		},
		{
			name: "primary key collision",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "reservations_pkey"},
			kind: infra.KindDuplicateKey,
		},
		{
			name: "unknown spot",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "reservations_spot_id_fkey"},
			kind: infra.KindForeignKeyViolated,
		},
		{
			name: "connection lost",
			err:  errs.New("conn closed"),
			kind: infra.KindDBFailure,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := repository.NewReservationRepository(failingExec{err: tc.err}, true)

			res, err := repo.Create(context.Background(), builder.NewReservationBuilder().BuildDraft())
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, infra.IsKind(err, tc.kind))
			assert.Equal(t, tc.spotUnavailable, errs.Is(err, errs.ErrSpotUnavailable))
		})
	}
}
