package services

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultSweepSpec расписание очистки истекших заметок по умолчанию.
const DefaultSweepSpec = "@every 1m"

// sweepTimeout ограничение на один проход очистки.
const sweepTimeout = 30 * time.Second

// ExpiredCleaner удаляет истекшие записи.
type ExpiredCleaner interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// ExpirySweeper периодически удаляет истекшие заметки.
type ExpirySweeper struct {
	cron    *cron.Cron
	cleaner ExpiredCleaner
	logger  *logrus.Entry
	running atomic.Bool
}

func NewExpirySweeper(cleaner ExpiredCleaner, spec string, logger *logrus.Logger) (*ExpirySweeper, error) {
	s := &ExpirySweeper{
		cron:    cron.New(),
		cleaner: cleaner,
		logger:  logger.WithField("module", "services/sweeper"),
	}
	if spec == "" {
		spec = DefaultSweepSpec
	}
	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, errors.Wrapf(err, "schedule sweeper with spec `%s`", spec)
	}
	return s, nil
}

// Start запускает планировщик в фоне.
func (s *ExpirySweeper) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и дожидается завершения текущего прохода.
func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep выполняет один проход очистки.
func (s *ExpirySweeper) Sweep(ctx context.Context) (int64, error) {
	deleted, err := s.cleaner.DeleteExpired(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "sweep")
	}
	return deleted, nil
}

func (s *ExpirySweeper) tick() {
	// пропускаем тик, если предыдущий проход еще не завершился
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("sweep skipped: still running")
		return
	}
	defer s.running.Store(false)

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	deleted, err := s.Sweep(ctx)
	if err != nil {
		s.logger.WithError(err).Error("sweep failed")
		return
	}
	if deleted > 0 {
		s.logger.Infof("removed %d expired notes", deleted)
	}
}
