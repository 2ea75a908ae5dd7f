package repository

import (
	"context"
	"errors"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/infra"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/pkg/ptr"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// openReservationIndex is the partial unique index allowing one pending or
// active reservation per spot.
const openReservationIndex = "reservations_one_open_per_spot"

const reservationColumns = `id, spot_id, user_id, full_name, email, phone, car_make, car_model,
	license_plate, access_code, status, reservation_time, time_to_access_min,
	start_time, end_time, updated_at`

type ReservationRepository struct {
	db        DBTX
	forUpdate bool
}

func NewReservationRepository(db DBTX, forUpdate bool) *ReservationRepository {
	return &ReservationRepository{db: db, forUpdate: forUpdate}
}

func (r *ReservationRepository) Create(ctx context.Context, draft reservation.Draft) (*reservation.Reservation, error) {
	res, err := reservation.NewReservation(draft)
	if err != nil {
		return nil, err
	}
	d := res.Driver()

	_, err = r.db.Exec(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		res.ID(), res.SpotID(), res.UserID(),
		d.FullName, d.Email,
		ptr.StringToPgtype(d.Phone), ptr.StringToPgtype(d.CarMake), ptr.StringToPgtype(d.CarModel),
		d.LicensePlate, res.AccessCode(), res.Status().String(),
		res.ReservationTime(), int32(res.TimeToAccessMin()),
		ptr.TimeToPgtype(res.StartTime()), ptr.TimeToPgtype(res.EndTime()), res.UpdatedAt(),
	)
	if err != nil {
		wrapped := infra.WrapRepoErr("failed to create reservation", err)
		if isOpenReservationConflict(wrapped) {
			return nil, errs.Mark(wrapped, errs.ErrSpotUnavailable)
		}
		return nil, wrapped
	}
	return res, nil
}

// isOpenReservationConflict is true only for a unique violation on the open
// reservation index; a primary key collision stays a plain duplicate.
func isOpenReservationConflict(err error) bool {
	if !infra.IsKind(err, infra.KindDuplicateKey) {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.ConstraintName == openReservationIndex
}

func (r *ReservationRepository) Get(ctx context.Context, id string) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`+lockClause(r.forUpdate), id)
	res, err := scanReservation(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get reservation "+id, err)
	}
	return res, nil
}

func (r *ReservationRepository) Update(ctx context.Context, id string, patch reservation.Patch) (*reservation.Reservation, error) {
	res, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := res.Apply(patch); err != nil {
		return nil, err
	}

	_, err = r.db.Exec(ctx, `
		UPDATE reservations
		SET status = $2, start_time = $3, end_time = $4, updated_at = $5
		WHERE id = $1`,
		res.ID(), res.Status().String(),
		ptr.TimeToPgtype(res.StartTime()), ptr.TimeToPgtype(res.EndTime()), res.UpdatedAt(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to update reservation "+id, err)
	}
	return res, nil
}

func (r *ReservationRepository) ListByUser(ctx context.Context, userID string) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to list reservations by user",
		`SELECT `+reservationColumns+` FROM reservations WHERE user_id = $1 ORDER BY reservation_time DESC, id`,
		userID)
}

func (r *ReservationRepository) ListByStatus(ctx context.Context, status reservation.Status) ([]*reservation.Reservation, error) {
	return r.list(ctx, "failed to list reservations by status",
		`SELECT `+reservationColumns+` FROM reservations WHERE status = $1 ORDER BY reservation_time, id`,
		status.String())
}

func (r *ReservationRepository) FindOpenBySpot(ctx context.Context, spotID string) (*reservation.Reservation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations
		WHERE spot_id = $1 AND status IN ('pending', 'active')`+lockClause(r.forUpdate), spotID)
	res, err := scanReservation(row)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find open reservation on spot "+spotID, err)
	}
	return res, nil
}

func (r *ReservationRepository) list(ctx context.Context, msg, query string, args ...any) ([]*reservation.Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	defer rows.Close()

	out := make([]*reservation.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, infra.WrapRepoErr(msg, err)
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr(msg, err)
	}
	return out, nil
}

func scanReservation(row pgx.Row) (*reservation.Reservation, error) {
	var r reservationRow
	err := row.Scan(
		&r.id, &r.spotID, &r.userID, &r.fullName, &r.email, &r.phone, &r.carMake, &r.carModel,
		&r.licensePlate, &r.accessCode, &r.status, &r.reservationTime, &r.timeToAccessMin,
		&r.startTime, &r.endTime, &r.updatedAt,
	)
	if err != nil {
		return nil, err
	}

	driver := reservation.DriverInfo{
		FullName:     r.fullName,
		Email:        r.email,
		Phone:        ptr.StringFromPgtype(r.phone),
		CarMake:      ptr.StringFromPgtype(r.carMake),
		CarModel:     ptr.StringFromPgtype(r.carModel),
		LicensePlate: r.licensePlate,
	}
	return reservation.ReconstructReservation(
		r.id, r.spotID, r.userID, driver, r.accessCode, reservation.Status(r.status),
		r.reservationTime, int(r.timeToAccessMin),
		ptr.TimeFromPgtype(r.startTime), ptr.TimeFromPgtype(r.endTime), r.updatedAt,
	), nil
}
