//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike lets fixtures run against the shared pool or inside a test transaction.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ DBLike = (*pgxpool.Pool)(nil)
	_ DBLike = (pgx.Tx)(nil)
)

func CreateTestSpot(t *testing.T, db DBLike, id, level, status string) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		`INSERT INTO spots (id, level, section, status, updated_at) VALUES ($1, $2, 'A', $3, now())`,
		id, level, status)
	require.NoError(t, err)
}

func SpotStatus(t *testing.T, db DBLike, id string) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), `SELECT status FROM spots WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)
	return status
}

func ReservationStatus(t *testing.T, db DBLike, id string) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(), `SELECT status FROM reservations WHERE id = $1`, id).Scan(&status)
	require.NoError(t, err)
	return status
}

func CountOpenReservations(t *testing.T, db DBLike, spotID string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		`SELECT count(*) FROM reservations WHERE spot_id = $1 AND status IN ('pending', 'active')`, spotID).Scan(&n)
	require.NoError(t, err)
	return n
}

// BackdateReservation moves reservation_time into the past so the access window closes
// without waiting on the wall clock.
func BackdateReservation(t *testing.T, db DBLike, id string, by time.Duration) {
	t.Helper()

	tag, err := db.Exec(context.Background(),
		`UPDATE reservations SET reservation_time = reservation_time - make_interval(secs => $2) WHERE id = $1`,
		id, by.Seconds())
	require.NoError(t, err)
	require.Equal(t, int64(1), tag.RowsAffected())
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates every table except schema_migrations
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
