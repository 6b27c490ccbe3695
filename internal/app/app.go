package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/notes/internal/app/config"
	"github.com/fsdevblog/notes/internal/app/controllers"
	"github.com/fsdevblog/notes/internal/app/db"
	"github.com/fsdevblog/notes/internal/app/repositories"
	"github.com/fsdevblog/notes/internal/app/repositories/memstore"
	"github.com/fsdevblog/notes/internal/app/repositories/sqlite"
	"github.com/fsdevblog/notes/internal/app/server"
	"github.com/fsdevblog/notes/internal/app/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config      config.Config
	noteService services.NoteService
	pingService *services.PingService
	sweeper     *services.ExpirySweeper
	Logger      *logrus.Logger
}

func New(conf config.Config) (*App, error) {
	logger := conf.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	conn, connErr := db.NewConnection(conf.DBType, conf.SQLitePath)
	if connErr != nil {
		return nil, fmt.Errorf("init storage: %w", connErr)
	}

	noteRepo, pinger, repoErr := initRepository(conn, logger)
	if repoErr != nil {
		return nil, repoErr
	}

	noteService := services.NewNoteService(noteRepo, logger)
	sweeper, sweeperErr := services.NewExpirySweeper(noteService, conf.SweepSpec, logger)
	if sweeperErr != nil {
		return nil, fmt.Errorf("init sweeper: %w", sweeperErr)
	}

	return &App{
		config:      conf,
		noteService: noteService,
		pingService: services.NewPingService(pinger),
		sweeper:     sweeper,
		Logger:      logger,
	}, nil
}

// Must вызывает панику если произошла ошибка.
func Must(a *App, err error) *App {
	if err != nil {
		panic(err)
	}
	return a
}

// Handler собирает роутер приложения.
func (a *App) Handler() http.Handler {
	return controllers.SetupRouter(controllers.RouterParams{
		NoteService: a.noteService,
		Pinger:      a.pingService,
		CORSOrigins: a.config.CORSOrigins,
		Logger:      a.Logger,
	})
}

// Run запускает web сервер и очистку истекших заметок. Завершается по SIGINT/SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	srv := server.New(a.config.ServerAddress, a.Handler())

	a.sweeper.Start()
	defer a.sweeper.Stop()

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		a.Logger.Info("Shutdown command received")
	case serverErr = <-errChan:
		a.Logger.WithError(serverErr).Error("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("graceful shutdown failed")
	}

	return serverErr
}

// initRepository выбирает реализацию репозитория по типу соединения.
func initRepository(conn any, logger *logrus.Logger) (repositories.NoteRepository, services.Pinger, error) {
	switch c := conn.(type) {
	case *gorm.DB:
		return sqlite.NewNoteRepo(c, logger), db.NewGormPinger(c), nil
	case *db.MemoryStorage:
		return memstore.NewNoteRepo(c, logger), c, nil
	default:
		return nil, nil, fmt.Errorf("unsupported connection type %T", conn)
	}
}
