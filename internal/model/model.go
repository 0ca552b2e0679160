package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusReturned Status = "RETURNED"
)

type Book struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Author    string    `json:"author" db:"author"`
	Year      int       `json:"year" db:"year"`
	Isbn      string    `json:"isbn" db:"isbn"`
	Available bool      `json:"available" db:"available"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Reader struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type Reservation struct {
	ID             int        `json:"id" db:"id"`
	ReservationUid string     `json:"reservation_uid" db:"reservation_uid"`
	BookID         int        `json:"book_id" db:"book_id"`
	ReaderID       int        `json:"reader_id" db:"reader_id"`
	Status         Status     `json:"status" db:"status"`
	Notes          string     `json:"notes" db:"notes"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	ReturnedAt     *time.Time `json:"returned_at" db:"returned_at"`
	BookTitle      string     `json:"book_title,omitempty" db:"book_title"`
	ReaderName     string     `json:"reader_name,omitempty" db:"reader_name"`
}

type BookRequest struct {
	Title  string `json:"title" form:"title" validate:"required,min=2,max=200"`
	Author string `json:"author" form:"author" validate:"required,min=2,max=150"`
	Year   int    `json:"year" form:"year" validate:"required,min=1000"`
	Isbn   string `json:"isbn" form:"isbn" validate:"required,min=4,max=32"`
}

// Validate covers what the struct tags cannot: the upper bound on the
// publication year depends on the wall clock.
func (r *BookRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Isbn = strings.TrimSpace(r.Isbn)
	if r.Year > time.Now().Year() {
		return errs.ErrYearInFuture
	}
	return nil
}

type ReaderRequest struct {
	Name  string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" form:"email" validate:"required,email"`
}

// Validate normalizes the email (lower-cased, trimmed) before it reaches
// storage so the unique index compares canonical values.
func (r *ReaderRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if isAllDigits(r.Name) {
		return errs.ErrNameAllDigits
	}
	return nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

type CreateReservationRequest struct {
	BookID   int    `json:"book_id" form:"book_id" validate:"required,min=1"`
	ReaderID int    `json:"reader_id" form:"reader_id" validate:"required,min=1"`
	Notes    string `json:"notes" form:"notes" validate:"max=1000"`
}

// QuickReserveRequest is the body of the per-book one-click reserve
// endpoint; the book comes from the URL.
type QuickReserveRequest struct {
	ReaderID int `json:"reader_id" form:"reader_id" validate:"required,min=1"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Admin struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type ListBooks struct {
	Paging `json:",inline"`
	Items  []Book `json:"items"`
}

type ListReaders struct {
	Paging `json:",inline"`
	Items  []Reader `json:"items"`
}

type ListReservations struct {
	Paging `json:",inline"`
	Items  []Reservation `json:"items"`
}

// BookFilter narrows and orders the book list; zero values mean "no filter".
type BookFilter struct {
	Search    string
	Year      int
	Available *bool
	SortBy    string
	Page      int
	Size      int
}

type ReaderFilter struct {
	Search string
	SortBy string
	Page   int
	Size   int
}

type ReservationFilter struct {
	Search string
	Status Status
	SortBy string
	Page   int
	Size   int
}

// Stats aggregates the counters shown on the home and statistics pages.
type Stats struct {
	TotalBooks         int `json:"total_books"`
	TotalReaders       int `json:"total_readers"`
	TotalReservations  int `json:"total_reservations"`
	ActiveReservations int `json:"active_reservations"`
	AvailableBooks     int `json:"available_books"`
}

// Statistics bundles everything the statistics page renders.
type Statistics struct {
	Stats         Stats         `json:"stats"`
	PopularBooks  []BookUsage   `json:"popular_books"`
	ActiveReaders []ReaderUsage `json:"active_readers"`
	RecentCount   int           `json:"recent_count"`
	Monthly       []MonthCount  `json:"monthly"`
}

type BookUsage struct {
	Book             `json:",inline"`
	ReservationCount int `json:"reservation_count" db:"reservation_count"`
}

type ReaderUsage struct {
	Reader           `json:",inline"`
	ReservationCount int `json:"reservation_count" db:"reservation_count"`
}

type MonthCount struct {
	Month time.Time `json:"month" db:"month"`
	Count int       `json:"count" db:"count"`
}

// ReservationEvent is published to the broker on reservation lifecycle changes.
type ReservationEvent struct {
	Type           string    `json:"type"`
	ReservationUid string    `json:"reservation_uid"`
	BookID         int       `json:"book_id"`
	ReaderID       int       `json:"reader_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

const (
	EventReservationCreated  = "reservation.created"
	EventReservationReturned = "reservation.returned"
)
