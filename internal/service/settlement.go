package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/domain"
	"github.com/questevent/questevent-api/internal/metrics"
)

type SettlementProgramRepository interface {
	LockByID(ctx context.Context, id uint) (domain.Program, error)
	FindExpired(ctx context.Context, status domain.ProgramStatus, before time.Time) ([]domain.Program, error)
	UpdateStatus(ctx context.Context, id uint, from, to domain.ProgramStatus) (bool, error)
}

type SettlementWalletRepository interface {
	LockProgramWallets(ctx context.Context, programID uint) ([]domain.ProgramWallet, error)
	LockUserWallet(ctx context.Context, userID uint) (domain.UserWallet, error)
	AddUserWalletGems(ctx context.Context, walletID uuid.UUID, delta int64) error
	ZeroProgramWallet(ctx context.Context, walletID uuid.UUID, observed int64) error
}

// SettlementService sweeps program wallets into user wallets and completes the program.
// One program is settled in one transaction: every transfer and the status flip commit together.
type SettlementService struct {
	tx             Transactor
	programs       SettlementProgramRepository
	wallets        SettlementWalletRepository
	clock          clockwork.Clock
	programTimeout time.Duration
}

func NewSettlementService(
	tx Transactor,
	programs SettlementProgramRepository,
	wallets SettlementWalletRepository,
	clock clockwork.Clock,
	programTimeout time.Duration,
) *SettlementService {
	return &SettlementService{
		tx:             tx,
		programs:       programs,
		wallets:        wallets,
		clock:          clock,
		programTimeout: programTimeout,
	}
}

// ManuallySettleExpiredProgramWallets settles a single program on behalf of actor,
// who must be an owner or the program's host.
func (s *SettlementService) ManuallySettleExpiredProgramWallets(ctx context.Context, actor domain.User, programID uint) (domain.SettlementResult, error) {
	if programID == 0 {
		return domain.SettlementResult{}, ErrInvalidProgramID
	}

	result, err := s.settle(ctx, programID, func(program domain.Program) error {
		if !program.CanManage(actor) {
			return ErrPermissionDenied
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrProgramAlreadyCompleted) {
			metrics.Settlements.WithLabelValues(metrics.TriggerManual, metrics.OutcomeSkipped).Inc()
		} else {
			metrics.Settlements.WithLabelValues(metrics.TriggerManual, metrics.OutcomeFailed).Inc()
		}
		zap.L().Warn("manual settlement failed",
			zap.Uint("program_id", programID),
			zap.Uint("actor_id", actor.ID),
			zap.Error(err),
		)
		return domain.SettlementResult{}, err
	}

	metrics.Settlements.WithLabelValues(metrics.TriggerManual, metrics.OutcomeSettled).Inc()
	metrics.SettlementTransferredGems.Add(float64(result.Transferred))
	zap.L().Info("program settled manually",
		zap.Uint("program_id", programID),
		zap.Uint("actor_id", actor.ID),
		zap.Int("transfers", len(result.Transfers)),
		zap.Int64("transferred", result.Transferred),
	)

	return result, nil
}

// AutoSettleExpiredPrograms settles every ACTIVE program whose end date has passed.
// Programs are settled independently; failures are recorded in the report and
// returned combined, and never stop the rest of the batch.
func (s *SettlementService) AutoSettleExpiredPrograms(ctx context.Context) (domain.SettlementReport, error) {
	report := domain.SettlementReport{
		StartedAt: s.clock.Now(),
		Settled:   []uint{},
		Skipped:   []uint{},
		Failed:    []domain.SettlementFailure{},
	}

	expired, err := s.programs.FindExpired(ctx, domain.ProgramActive, report.StartedAt)
	if err != nil {
		zap.L().Error("failed to load expired programs", zap.Error(err))
		return report, fmt.Errorf("s.programs.FindExpired -> %w", err)
	}

	zap.L().Info("automatic settlement started", zap.Int("programs", len(expired)))

	var errs error
	for _, program := range expired {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = multierr.Append(errs, ctxErr)
			break
		}

		result, err := s.settleOne(ctx, program.ID)
		switch {
		case err == nil:
			report.Settled = append(report.Settled, program.ID)
			report.Transferred += result.Transferred
			metrics.Settlements.WithLabelValues(metrics.TriggerAuto, metrics.OutcomeSettled).Inc()
			metrics.SettlementTransferredGems.Add(float64(result.Transferred))
			zap.L().Info("program settled",
				zap.Uint("program_id", program.ID),
				zap.Int("transfers", len(result.Transfers)),
				zap.Int64("transferred", result.Transferred),
			)
		case errors.Is(err, ErrProgramAlreadyCompleted):
			// settled concurrently, usually by a manual run
			report.Skipped = append(report.Skipped, program.ID)
			metrics.Settlements.WithLabelValues(metrics.TriggerAuto, metrics.OutcomeSkipped).Inc()
			zap.L().Info("program already completed", zap.Uint("program_id", program.ID))
		default:
			report.Failed = append(report.Failed, domain.SettlementFailure{
				ProgramID: program.ID,
				Error:     err.Error(),
			})
			errs = multierr.Append(errs, fmt.Errorf("program %d: %w", program.ID, err))
			metrics.Settlements.WithLabelValues(metrics.TriggerAuto, metrics.OutcomeFailed).Inc()
			zap.L().Error("program settlement failed", zap.Uint("program_id", program.ID), zap.Error(err))
		}
	}

	report.FinishedAt = s.clock.Now()
	metrics.SettlementRunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	zap.L().Info("automatic settlement finished",
		zap.Int("settled", len(report.Settled)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("failed", len(report.Failed)),
		zap.Int64("transferred", report.Transferred),
	)

	return report, errs
}

func (s *SettlementService) settleOne(ctx context.Context, programID uint) (domain.SettlementResult, error) {
	if s.programTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.programTimeout)
		defer cancel()
	}

	return s.settle(ctx, programID, nil)
}

// settle locks the program, then its wallets ordered by id, then the owners' user
// wallets ordered by user id. Credits and review take locks in the same order.
func (s *SettlementService) settle(ctx context.Context, programID uint, authorize func(domain.Program) error) (domain.SettlementResult, error) {
	var result domain.SettlementResult

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		program, err := s.programs.LockByID(ctx, programID)
		if err != nil {
			return fmt.Errorf("s.programs.LockByID -> %w", err)
		}

		if authorize != nil {
			if err = authorize(program); err != nil {
				return err
			}
		}

		if program.IsCompleted() {
			return ErrProgramAlreadyCompleted
		}

		wallets, err := s.wallets.LockProgramWallets(ctx, programID)
		if err != nil {
			return fmt.Errorf("s.wallets.LockProgramWallets -> %w", err)
		}

		funded := make([]domain.ProgramWallet, 0, len(wallets))
		for _, w := range wallets {
			if w.Gems > 0 {
				funded = append(funded, w)
			}
		}
		sort.SliceStable(funded, func(i, j int) bool {
			return funded[i].UserID < funded[j].UserID
		})

		transfers := make([]domain.Transfer, 0, len(funded))
		var transferred int64
		for _, w := range funded {
			transfer, err := s.transfer(ctx, w)
			if err != nil {
				return err
			}

			transfers = append(transfers, transfer)
			transferred += transfer.Gems
		}

		changed, err := s.programs.UpdateStatus(ctx, programID, program.Status, domain.ProgramCompleted)
		if err != nil {
			return fmt.Errorf("s.programs.UpdateStatus -> %w", err)
		}
		if !changed {
			return ErrProgramAlreadyCompleted
		}

		program.Status = domain.ProgramCompleted
		result = domain.SettlementResult{
			Program:     program,
			Transfers:   transfers,
			Transferred: transferred,
		}

		return nil
	})
	if err != nil {
		return domain.SettlementResult{}, err
	}

	return result, nil
}

func (s *SettlementService) transfer(ctx context.Context, w domain.ProgramWallet) (domain.Transfer, error) {
	userWallet, err := s.wallets.LockUserWallet(ctx, w.UserID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			zap.L().Error("user wallet missing during settlement",
				zap.Uint("program_id", w.ProgramID),
				zap.Uint("user_id", w.UserID),
				zap.Int64("pending", w.Gems),
			)
			return domain.Transfer{}, fmt.Errorf("user %d has no wallet: %w", w.UserID, ErrWalletNotFound)
		}
		return domain.Transfer{}, fmt.Errorf("s.wallets.LockUserWallet -> %w", err)
	}

	if userWallet.Gems > math.MaxInt64-w.Gems {
		return domain.Transfer{}, fmt.Errorf("user %d wallet overflow: %w", w.UserID, ErrInvalidAmount)
	}

	if err = s.wallets.AddUserWalletGems(ctx, userWallet.ID, w.Gems); err != nil {
		return domain.Transfer{}, fmt.Errorf("s.wallets.AddUserWalletGems -> %w", err)
	}

	if err = s.wallets.ZeroProgramWallet(ctx, w.ID, w.Gems); err != nil {
		return domain.Transfer{}, fmt.Errorf("s.wallets.ZeroProgramWallet -> %w", err)
	}

	zap.L().Debug("program wallet transferred",
		zap.Uint("program_id", w.ProgramID),
		zap.Uint("user_id", w.UserID),
		zap.String("wallet_id", w.ID.String()),
		zap.Int64("before", userWallet.Gems),
		zap.Int64("credited", w.Gems),
		zap.Int64("after", userWallet.Gems+w.Gems),
	)

	return domain.Transfer{
		ProgramWalletID: w.ID,
		UserWalletID:    userWallet.ID,
		UserID:          w.UserID,
		Gems:            w.Gems,
		UserGemsAfter:   userWallet.Gems + w.Gems,
	}, nil
}
