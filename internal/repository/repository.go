package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

type Repository interface {
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	BookYears(ctx context.Context) ([]int, error)

	ListReaders(ctx context.Context, filter model.ReaderFilter) (model.ListReaders, error)
	GetReader(ctx context.Context, id int) (model.Reader, error)
	CreateReader(ctx context.Context, req model.ReaderRequest) (model.Reader, error)
	UpdateReader(ctx context.Context, id int, req model.ReaderRequest) (model.Reader, error)
	DeleteReader(ctx context.Context, id int) error

	CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error)
	GetReservation(ctx context.Context, id int) (model.Reservation, error)
	ListReservations(ctx context.Context, filter model.ReservationFilter) (model.ListReservations, error)
	ReturnReservation(ctx context.Context, id int) (model.Reservation, error)
	BookReservations(ctx context.Context, bookID int) ([]model.Reservation, error)
	ReaderReservations(ctx context.Context, readerID int) ([]model.Reservation, error)
	RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error)

	Stats(ctx context.Context) (model.Stats, error)
	PopularBooks(ctx context.Context, limit int) ([]model.BookUsage, error)
	ActiveReaders(ctx context.Context, limit int) ([]model.ReaderUsage, error)
	MonthlyReservations(ctx context.Context, months int) ([]model.MonthCount, error)
	ReservationsSince(ctx context.Context, days int) (int, error)

	CreateAdmin(ctx context.Context, name, email, passwordHash string) (model.Admin, error)
	GetAdminByEmail(ctx context.Context, email string) (model.Admin, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName        = `books`
	readersTableName      = `readers`
	reservationsTableName = `reservations`
	adminsTableName       = `admins`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// availableExpr derives book availability: a book is available iff no
// ACTIVE reservation references it.
const availableExpr = `not exists (
	select 1 from reservations r
	where r.book_id = b.id and r.status = 'ACTIVE') as available`

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == constraint
}

func (r *repository) count(ctx context.Context, q sq.SelectBuilder) (int, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}
