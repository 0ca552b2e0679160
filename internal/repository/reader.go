package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

var readerSortColumns = map[string]string{
	"name":        "name asc",
	"email":       "email asc",
	"-created_at": "created_at desc",
}

func (r *repository) ListReaders(ctx context.Context, filter model.ReaderFilter) (model.ListReaders, error) {
	base := qb.Select().From(readersTableName)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"email": pattern},
		})
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListReaders{}, err
	}

	orderBy, ok := readerSortColumns[filter.SortBy]
	if !ok {
		orderBy = "name asc"
	}
	q := base.Columns("id", "name", "email", "created_at", "updated_at").OrderBy(orderBy)
	q = paginate(q, filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListReaders{}, err
	}

	readers := make([]model.Reader, 0)
	if err := r.db.SelectContext(ctx, &readers, query, args...); err != nil {
		return model.ListReaders{}, err
	}

	return model.ListReaders{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: total,
		},
		Items: readers,
	}, nil
}

func (r *repository) GetReader(ctx context.Context, id int) (model.Reader, error) {
	query, args, err := qb.Select("id", "name", "email", "created_at", "updated_at").
		From(readersTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}

	var reader model.Reader
	if err := r.db.GetContext(ctx, &reader, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reader{}, errs.ErrNotFound
		}
		return model.Reader{}, err
	}
	return reader, nil
}

func (r *repository) CreateReader(ctx context.Context, req model.ReaderRequest) (model.Reader, error) {
	query, args, err := qb.Insert(readersTableName).
		Columns("name", "email").
		Values(req.Name, req.Email).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}

	var reader model.Reader
	if err := r.db.GetContext(ctx, &reader, query, args...); err != nil {
		if isUniqueViolation(err, "readers_email_key") {
			return model.Reader{}, errs.ErrEmailTaken
		}
		r.log.Error("CreateReader", zap.String("q", query), zap.Any("args", args))
		return model.Reader{}, err
	}
	return reader, nil
}

func (r *repository) UpdateReader(ctx context.Context, id int, req model.ReaderRequest) (model.Reader, error) {
	query, args, err := qb.Update(readersTableName).
		Set("name", req.Name).
		Set("email", req.Email).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Reader{}, err
	}

	var reader model.Reader
	if err := r.db.GetContext(ctx, &reader, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reader{}, errs.ErrNotFound
		}
		if isUniqueViolation(err, "readers_email_key") {
			return model.Reader{}, errs.ErrEmailTaken
		}
		return model.Reader{}, err
	}
	return reader, nil
}

// DeleteReader refuses to remove a reader that still holds an active reservation.
func (r *repository) DeleteReader(ctx context.Context, id int) error {
	q := `
delete from readers rd
where rd.id = $1
  and not exists (select 1 from reservations r
                  where r.reader_id = rd.id and r.status = 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetReader(ctx, id); err != nil {
			return err
		}
		return errs.ErrHasActiveReservations
	}
	return nil
}
