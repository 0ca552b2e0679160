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

var bookSortColumns = map[string]string{
	"title":  "title asc",
	"author": "author asc",
	"year":   "year asc",
	"-year":  "year desc",
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	base := qb.Select().From(booksTableName + " b")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if filter.Year != 0 {
		base = base.Where(sq.Eq{"year": filter.Year})
	}
	if filter.Available != nil {
		sub := `exists (select 1 from reservations r where r.book_id = b.id and r.status = 'ACTIVE')`
		if *filter.Available {
			base = base.Where("not " + sub)
		} else {
			base = base.Where(sub)
		}
	}

	total, err := r.count(ctx, base.Columns("count(*)"))
	if err != nil {
		return model.ListBooks{}, err
	}

	orderBy, ok := bookSortColumns[filter.SortBy]
	if !ok {
		orderBy = "title asc"
	}
	q := base.Columns("b.id", "title", "author", "year", "isbn", availableExpr, "b.created_at", "b.updated_at").
		OrderBy(orderBy)
	q = paginate(q, filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: total,
		},
		Items: books,
	}, nil
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select("b.id", "title", "author", "year", "isbn", availableExpr, "b.created_at", "b.updated_at").
		From(booksTableName + " b").
		Where(sq.Eq{"b.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "year", "isbn").
		Values(req.Title, req.Author, req.Year, req.Isbn).
		Suffix("returning id, title, author, year, isbn, true as available, created_at, updated_at").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if isUniqueViolation(err, "books_isbn_key") {
			return model.Book{}, errs.ErrIsbnTaken
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("year", req.Year).
		Set("isbn", req.Isbn).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id}).
		Suffix("returning id, title, author, year, isbn, true as available, created_at, updated_at").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		if isUniqueViolation(err, "books_isbn_key") {
			return model.Book{}, errs.ErrIsbnTaken
		}
		return model.Book{}, err
	}
	// availability is derived, not returned by the update
	return r.GetBook(ctx, book.ID)
}

// DeleteBook refuses to remove a book that still has an active reservation.
func (r *repository) DeleteBook(ctx context.Context, id int) error {
	q := `
delete from books b
where b.id = $1
  and not exists (select 1 from reservations r
                  where r.book_id = b.id and r.status = 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if _, err := r.GetBook(ctx, id); err != nil {
			return err
		}
		return errs.ErrHasActiveReservations
	}
	return nil
}

func (r *repository) BookYears(ctx context.Context) ([]int, error) {
	q := `select distinct year from books order by year desc`
	years := make([]int, 0)
	if err := r.db.SelectContext(ctx, &years, q); err != nil {
		return nil, err
	}
	return years, nil
}
