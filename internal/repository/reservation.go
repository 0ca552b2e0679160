package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

var reservationSortColumns = map[string]string{
	"-created_at": "rs.created_at desc",
	"created_at":  "rs.created_at asc",
	"book_title":  "b.title asc",
	"reader_name": "rd.name asc",
}

const reservationColumns = `rs.id, rs.reservation_uid, rs.book_id, rs.reader_id, rs.status,
	rs.notes, rs.created_at, rs.returned_at, b.title as book_title, rd.name as reader_name`

// CreateReservation runs the check-then-insert sequence in one transaction
// with the book row locked. The partial unique indexes on active
// reservations are the backstop for anything that slips past the lock.
func (r *repository) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Reservation{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var bookID int
	if err := tx.GetContext(ctx, &bookID,
		`select id from books where id = $1 for update`, req.BookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}

	var readerID int
	if err := tx.GetContext(ctx, &readerID,
		`select id from readers where id = $1`, req.ReaderID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}

	var reserved bool
	if err := tx.GetContext(ctx, &reserved,
		`select exists (select 1 from reservations where book_id = $1 and status = 'ACTIVE')`,
		req.BookID); err != nil {
		return model.Reservation{}, err
	}
	if reserved {
		return model.Reservation{}, errs.ErrBookReserved
	}

	var readerBusy bool
	if err := tx.GetContext(ctx, &readerBusy,
		`select exists (select 1 from reservations where reader_id = $1 and status = 'ACTIVE')`,
		req.ReaderID); err != nil {
		return model.Reservation{}, err
	}
	if readerBusy {
		return model.Reservation{}, errs.ErrReaderHasActive
	}

	query, args, err := qb.Insert(reservationsTableName).
		Columns("reservation_uid", "book_id", "reader_id", "status", "notes").
		Values(uuid.New(), req.BookID, req.ReaderID, model.StatusActive, req.Notes).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var id int
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		if isUniqueViolation(err, "reservations_active_book_uidx") {
			return model.Reservation{}, errs.ErrBookReserved
		}
		if isUniqueViolation(err, "reservations_active_reader_uidx") {
			return model.Reservation{}, errs.ErrReaderHasActive
		}
		r.log.Error("CreateReservation", zap.String("q", query), zap.Any("args", args))
		return model.Reservation{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Reservation{}, errors.Wrap(err, "commit")
	}
	return r.GetReservation(ctx, id)
}

func (r *repository) GetReservation(ctx context.Context, id int) (model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns).
		From(reservationsTableName + " rs").
		Join("books b on b.id = rs.book_id").
		Join("readers rd on rd.id = rs.reader_id").
		Where(sq.Eq{"rs.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var rsv model.Reservation
	if err := r.db.GetContext(ctx, &rsv, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errs.ErrNotFound
		}
		return model.Reservation{}, err
	}
	return rsv, nil
}

func (r *repository) ListReservations(ctx context.Context, filter model.ReservationFilter) (model.ListReservations, error) {
	base := qb.Select().
		From(reservationsTableName + " rs").
		Join("books b on b.id = rs.book_id").
		Join("readers rd on rd.id = rs.reader_id")
	if filter.Status != "" {
		base = base.Where(sq.Eq{"rs.status": filter.Status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"b.title": pattern},
			sq.ILike{"b.author": pattern},
			sq.ILike{"rd.name": pattern},
			sq.ILike{"rd.email": pattern},
		})
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListReservations{}, err
	}

	orderBy, ok := reservationSortColumns[filter.SortBy]
	if !ok {
		orderBy = "rs.created_at desc"
	}
	q := base.Columns(reservationColumns).OrderBy(orderBy)
	q = paginate(q, filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListReservations{}, err
	}
	r.log.Debug("ListReservations", zap.String("query", query), zap.Any("args", args))

	items := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return model.ListReservations{}, err
	}

	return model.ListReservations{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: total,
		},
		Items: items,
	}, nil
}

// ReturnReservation closes an active reservation. Reservations are never
// deleted, only transitioned, so the history stays intact.
func (r *repository) ReturnReservation(ctx context.Context, id int) (model.Reservation, error) {
	q := `
update reservations
    set status = 'RETURNED', returned_at = now()
where id = $1 and status = 'ACTIVE'
returning id`

	var updated int
	if err := r.db.GetContext(ctx, &updated, q, id); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, err
		}
		// No active row: distinguish absent from already returned.
		if _, err := r.GetReservation(ctx, id); err != nil {
			return model.Reservation{}, err
		}
		return model.Reservation{}, errs.ErrAlreadyReturned
	}
	return r.GetReservation(ctx, updated)
}

// BookReservations returns the full reservation history of a book, newest first.
func (r *repository) BookReservations(ctx context.Context, bookID int) ([]model.Reservation, error) {
	return r.reservationsBy(ctx, sq.Eq{"rs.book_id": bookID})
}

// ReaderReservations returns the full reservation history of a reader, newest first.
func (r *repository) ReaderReservations(ctx context.Context, readerID int) ([]model.Reservation, error) {
	return r.reservationsBy(ctx, sq.Eq{"rs.reader_id": readerID})
}

func (r *repository) reservationsBy(ctx context.Context, pred interface{}) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns).
		From(reservationsTableName + " rs").
		Join("books b on b.id = rs.book_id").
		Join("readers rd on rd.id = rs.reader_id").
		Where(pred).
		OrderBy("rs.created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error) {
	query, args, err := qb.Select(reservationColumns).
		From(reservationsTableName + " rs").
		Join("books b on b.id = rs.book_id").
		Join("readers rd on rd.id = rs.reader_id").
		OrderBy("rs.created_at desc").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Reservation, 0)
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
