// Package scheduler triggers the daily settlement sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/config"
	"github.com/questevent/questevent-api/internal/domain"
)

const settlementJobName = "auto-settle-expired-programs"

type Settler interface {
	AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error)
}

type Scheduler struct {
	sched  gocron.Scheduler
	job    gocron.Job
	ctx    context.Context
	cancel context.CancelFunc
}

// New registers the settlement job on a cron schedule evaluated in the configured
// timezone. A run that is still going when the next one is due causes that next run to be skipped.
func New(conf *config.SettlementConfig, clock clockwork.Clock, settler Settler) (*Scheduler, error) {
	loc, err := conf.Location()
	if err != nil {
		return nil, fmt.Errorf("conf.Location -> %w", err)
	}

	sched, err := gocron.NewScheduler(
		gocron.WithClock(clock),
		gocron.WithLocation(loc),
		gocron.WithLogger(zapLogger{}),
	)
	if err != nil {
		return nil, fmt.Errorf("gocron.NewScheduler -> %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sched:  sched,
		ctx:    ctx,
		cancel: cancel,
	}

	s.job, err = sched.NewJob(
		gocron.CronJob(conf.Cron, false),
		gocron.NewTask(func() { s.runSettlement(settler) }),
		gocron.WithName(settlementJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithPanic(func(_ uuid.UUID, jobName string, recoverData any) {
				zap.L().Error("scheduled job panicked", zap.String("job", jobName), zap.Any("panic", recoverData))
			}),
		),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, fmt.Errorf("sched.NewJob -> %w", err)
	}

	return s, nil
}

func (s *Scheduler) runSettlement(settler Settler) {
	report, err := settler.AutoSettleExpiredPrograms(s.ctx)
	if err != nil {
		zap.L().Error("scheduled settlement finished with errors",
			zap.Int("settled", len(report.Settled)),
			zap.Int("failed", len(report.Failed)),
			zap.Error(err),
		)
		return
	}

	zap.L().Info("scheduled settlement finished",
		zap.Int("settled", len(report.Settled)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int64("transferred", report.Transferred),
	)
}

func (s *Scheduler) Start() {
	s.sched.Start()

	if next, err := s.job.NextRun(); err == nil {
		zap.L().Info("settlement scheduler started", zap.Time("next_run", next))
	}
}

// RunNow runs the settlement job immediately, outside its schedule.
func (s *Scheduler) RunNow() error {
	return s.job.RunNow()
}

func (s *Scheduler) NextRun() (time.Time, error) {
	return s.job.NextRun()
}

// Shutdown cancels an in-flight settlement and waits for the job to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.sched.Shutdown()
}

type zapLogger struct{}

func (zapLogger) Debug(msg string, args ...any) { zap.L().Sugar().Debugw(msg, args...) }
func (zapLogger) Error(msg string, args ...any) { zap.L().Sugar().Errorw(msg, args...) }
func (zapLogger) Info(msg string, args ...any)  { zap.L().Sugar().Infow(msg, args...) }
func (zapLogger) Warn(msg string, args ...any)  { zap.L().Sugar().Warnw(msg, args...) }
