package handler

import (
	"context"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
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
	Statistics(ctx context.Context) (model.Statistics, error)

	Login(ctx context.Context, req model.LoginRequest) (string, error)
}

var _ LibraryService = (*service.Service)(nil)
