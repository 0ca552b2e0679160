package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/errs"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/model"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/repository"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/auth"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	authCfg  auth.Config
	producer sarama.SyncProducer
	topic    string
}

type Option func(*Service)

// WithProducer enables reservation lifecycle event emission to the broker.
func WithProducer(producer sarama.SyncProducer, topic string) Option {
	return func(s *Service) {
		s.producer = producer
		s.topic = topic
	}
}

func NewService(repo repository.Repository, authCfg auth.Config, log *zap.Logger, ops ...Option) *Service {
	s := &Service{
		log:     log,
		repo:    repo,
		authCfg: authCfg,
	}
	for _, op := range ops {
		op(s)
	}
	return s
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	if err := req.Validate(); err != nil {
		return model.Book{}, err
	}
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.BookRequest) (model.Book, error) {
	if err := req.Validate(); err != nil {
		return model.Book{}, err
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) BookYears(ctx context.Context) ([]int, error) {
	return s.repo.BookYears(ctx)
}

func (s *Service) ListReaders(ctx context.Context, filter model.ReaderFilter) (model.ListReaders, error) {
	return s.repo.ListReaders(ctx, filter)
}

func (s *Service) GetReader(ctx context.Context, id int) (model.Reader, error) {
	return s.repo.GetReader(ctx, id)
}

func (s *Service) CreateReader(ctx context.Context, req model.ReaderRequest) (model.Reader, error) {
	if err := req.Validate(); err != nil {
		return model.Reader{}, err
	}
	return s.repo.CreateReader(ctx, req)
}

func (s *Service) UpdateReader(ctx context.Context, id int, req model.ReaderRequest) (model.Reader, error) {
	if err := req.Validate(); err != nil {
		return model.Reader{}, err
	}
	return s.repo.UpdateReader(ctx, id, req)
}

func (s *Service) DeleteReader(ctx context.Context, id int) error {
	return s.repo.DeleteReader(ctx, id)
}

func (s *Service) CreateReservation(ctx context.Context, req model.CreateReservationRequest) (model.Reservation, error) {
	rsv, err := s.repo.CreateReservation(ctx, req)
	if err != nil {
		return model.Reservation{}, err
	}
	s.emit(model.EventReservationCreated, rsv)
	return rsv, nil
}

func (s *Service) GetReservation(ctx context.Context, id int) (model.Reservation, error) {
	return s.repo.GetReservation(ctx, id)
}

func (s *Service) ListReservations(ctx context.Context, filter model.ReservationFilter) (model.ListReservations, error) {
	return s.repo.ListReservations(ctx, filter)
}

func (s *Service) ReturnReservation(ctx context.Context, id int) (model.Reservation, error) {
	rsv, err := s.repo.ReturnReservation(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	s.emit(model.EventReservationReturned, rsv)
	return rsv, nil
}

func (s *Service) BookReservations(ctx context.Context, bookID int) ([]model.Reservation, error) {
	return s.repo.BookReservations(ctx, bookID)
}

func (s *Service) ReaderReservations(ctx context.Context, readerID int) ([]model.Reservation, error) {
	return s.repo.ReaderReservations(ctx, readerID)
}

func (s *Service) RecentReservations(ctx context.Context, limit int) ([]model.Reservation, error) {
	return s.repo.RecentReservations(ctx, limit)
}

// Statistics gathers the independent aggregates concurrently.
func (s *Service) Statistics(ctx context.Context) (model.Statistics, error) {
	var stats model.Statistics
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Stats, err = s.repo.Stats(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.PopularBooks, err = s.repo.PopularBooks(ctx, 10)
		return err
	})
	g.Go(func() (err error) {
		stats.ActiveReaders, err = s.repo.ActiveReaders(ctx, 10)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentCount, err = s.repo.ReservationsSince(ctx, 30)
		return err
	})
	g.Go(func() (err error) {
		stats.Monthly, err = s.repo.MonthlyReservations(ctx, 6)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Statistics{}, err
	}
	return stats, nil
}

func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.repo.Stats(ctx)
}

// Login checks admin credentials and issues a JWT.
func (s *Service) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	admin, err := s.repo.GetAdminByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.ErrBadCredentials
		}
		return "", err
	}
	if !auth.CheckPassword(admin.PasswordHash, req.Password) {
		return "", errs.ErrBadCredentials
	}
	return auth.NewToken(s.authCfg, admin.Name, admin.Email)
}

func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (model.Admin, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.Admin{}, err
	}
	return s.repo.CreateAdmin(ctx, name, email, hash)
}

// emit publishes a reservation lifecycle event. Best effort: a broker
// failure must not fail the request that caused the transition.
func (s *Service) emit(eventType string, rsv model.Reservation) {
	if s.producer == nil {
		return
	}
	event := model.ReservationEvent{
		Type:           eventType,
		ReservationUid: rsv.ReservationUid,
		BookID:         rsv.BookID,
		ReaderID:       rsv.ReaderID,
		OccurredAt:     time.Now().UTC(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("emit marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{Topic: s.topic, Value: sarama.StringEncoder(data)}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		s.log.Error("emit", zap.String("type", eventType), zap.Error(err))
	}
}
