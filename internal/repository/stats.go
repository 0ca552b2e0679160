package repository

import (
	"context"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
)

func (r *repository) Stats(ctx context.Context) (model.Stats, error) {
	q := `
select
    (select count(*) from books)                                    as total_books,
    (select count(*) from readers)                                  as total_readers,
    (select count(*) from reservations)                             as total_reservations,
    (select count(*) from reservations where status = 'ACTIVE')     as active_reservations`

	var s model.Stats
	if err := r.db.QueryRowContext(ctx, q).Scan(
		&s.TotalBooks, &s.TotalReaders, &s.TotalReservations, &s.ActiveReservations,
	); err != nil {
		return model.Stats{}, err
	}
	s.AvailableBooks = s.TotalBooks - s.ActiveReservations
	return s, nil
}

func (r *repository) PopularBooks(ctx context.Context, limit int) ([]model.BookUsage, error) {
	q := `
select b.id, b.title, b.author, b.year, b.isbn,
       not exists (select 1 from reservations a
                   where a.book_id = b.id and a.status = 'ACTIVE') as available,
       b.created_at, b.updated_at,
       count(r.id) as reservation_count
from books b
join reservations r on r.book_id = b.id
group by b.id
order by reservation_count desc, b.title
limit $1`

	items := make([]model.BookUsage, 0)
	if err := r.db.SelectContext(ctx, &items, q, limit); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ActiveReaders(ctx context.Context, limit int) ([]model.ReaderUsage, error) {
	q := `
select rd.id, rd.name, rd.email, rd.created_at, rd.updated_at,
       count(r.id) as reservation_count
from readers rd
join reservations r on r.reader_id = rd.id
group by rd.id
order by reservation_count desc, rd.name
limit $1`

	items := make([]model.ReaderUsage, 0)
	if err := r.db.SelectContext(ctx, &items, q, limit); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MonthlyReservations(ctx context.Context, months int) ([]model.MonthCount, error) {
	q := `
select date_trunc('month', created_at) as month, count(*) as count
from reservations
where created_at >= now() - make_interval(months => $1)
group by month
order by month`

	items := make([]model.MonthCount, 0)
	if err := r.db.SelectContext(ctx, &items, q, months); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ReservationsSince(ctx context.Context, days int) (int, error) {
	q := `
select count(*) from reservations
where created_at >= now() - make_interval(days => $1)`

	var count int
	if err := r.db.QueryRowContext(ctx, q, days).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
