package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Lank-karim/test-gestion-Biblioth-que/config"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/handler"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/repository"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/server"
	"github.com/Lank-karim/test-gestion-Biblioth-que/internal/service"
	"github.com/Lank-karim/test-gestion-Biblioth-que/migrations"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/kafka"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/logger"
	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/postgres"
)

// Run starts the web application and blocks until a termination signal.
func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %v", err)
	}

	var ops []service.Option
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		defer producer.Close()
		ops = append(ops, service.WithProducer(producer, cfg.Kafka.Topic))
	}
	svc := service.NewService(repo, cfg.Auth, log, ops...)
	h := handler.New(svc, cfg.Auth, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	db.Close()
	log.Info("Graceful shutdown finished")
	return nil
}

// Migrate applies the embedded migrations and exits.
func Migrate(cfg *config.Config) error {
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	return db.Close()
}

// CreateAdmin provisions a privileged account for the admin API.
func CreateAdmin(cfg *config.Config, name, email, password string) error {
	log := logger.NewLogger(cfg.Log, "createadmin")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %v", err)
	}
	defer db.Close()

	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo %v", err)
	}
	svc := service.NewService(repo, cfg.Auth, log)

	admin, err := svc.CreateAdmin(context.Background(), name, email, password)
	if err != nil {
		return err
	}
	log.Info("admin created", zap.String("email", admin.Email))
	return nil
}
