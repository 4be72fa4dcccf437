package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/metrics"
	walletRepo "github.com/fadedpez/affectlab/pkg/repositories/wallet"
	"github.com/google/uuid"
)

// SceneReroll is the ad scene that refunds a template's cost for a reroll
const SceneReroll = "REROLL"

const dayLayout = "2006-01-02"

// Config holds the wallet economy settings
type Config struct {
	DefaultBalance int64
	DailyReward    int64
	AdReward       int64
	Location       *time.Location // calendar used for daily claims and display
}

// DefaultConfig returns the stock economy: 20 to start, 10 per daily claim or ad
func DefaultConfig() Config {
	return Config{
		DefaultBalance: 20,
		DailyReward:    10,
		AdReward:       10,
		Location:       time.FixedZone("UTC+8", 8*3600),
	}
}

// AdReward describes a watched ad. TemplateCost is refunded for the REROLL scene.
type AdReward struct {
	Scene        string
	TemplateID   string
	TemplateCost int64
}

// Service handles wallet business logic
type Service struct {
	repo    walletRepo.Repository
	cfg     Config
	logger  *logging.Logger
	metrics *metrics.Metrics
	locks   *userLocks
	now     func() time.Time
}

// NewService creates a new wallet service
func NewService(repo walletRepo.Repository, cfg Config, logger *logging.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = logging.Default
	}
	if cfg.Location == nil {
		cfg.Location = DefaultConfig().Location
	}
	return &Service{
		repo:    repo,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		locks:   newUserLocks(),
		now:     time.Now,
	}
}

// Location is the calendar the service uses for days and display times
func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

// EnsureWallet loads the user's wallet, creating or repairing it as needed.
// On a storage failure it returns an empty zero-balance wallet alongside the error.
func (s *Service) EnsureWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.ensure(ctx, userID)
}

func (s *Service) ensure(ctx context.Context, userID string) (*entities.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, userID)
	switch {
	case err == nil:
		return wallet, nil

	case errors.Is(err, walletRepo.ErrMalformedWallet):
		s.logger.Warn("[WALLET] Repairing malformed wallet for user %s, keeping balance %d", userID, wallet.Balance)
		if err := s.repo.SaveWallet(ctx, wallet); err != nil {
			return wallet, types.WrapError(types.ErrStorage, "failed to save repaired wallet", err)
		}
		return wallet, nil

	case errors.Is(err, walletRepo.ErrWalletNotFound):
		wallet = &entities.Wallet{
			UserID:  userID,
			Opening: s.cfg.DefaultBalance,
			Ledger:  []*entities.LedgerEntry{},
		}
		wallet.Recalculate()
		s.logger.Info("[WALLET] Creating wallet for user %s with balance %d", userID, wallet.Balance)
		if err := s.repo.SaveWallet(ctx, wallet); err != nil {
			return wallet, types.WrapError(types.ErrStorage, "failed to create wallet", err)
		}
		return wallet, nil

	default:
		s.logger.Error("[WALLET] Error loading wallet for user %s: %v", userID, err)
		return &entities.Wallet{UserID: userID, Ledger: []*entities.LedgerEntry{}},
			types.WrapError(types.ErrStorage, "failed to load wallet", err)
	}
}

// mutate ensures the wallet exists and applies fn under the user's lock
func (s *Service) mutate(ctx context.Context, userID string, fn func(w *entities.Wallet) error) (*entities.Wallet, error) {
	if _, err := s.ensure(ctx, userID); err != nil {
		return nil, err
	}

	wallet, err := s.repo.UpdateWallet(ctx, userID, fn)
	if err != nil {
		var appErr *types.AppError
		if types.As(err, &appErr) {
			return nil, appErr
		}
		return nil, types.WrapError(types.ErrStorage, "failed to update wallet", err)
	}
	return wallet, nil
}

func (s *Service) newEntry(amount int64, entryType entities.LedgerEntryType, meta map[string]string) *entities.LedgerEntry {
	copied := make(map[string]string, len(meta))
	for k, v := range meta {
		copied[k] = v
	}
	return &entities.LedgerEntry{
		ID:     uuid.New().String(),
		TS:     s.now().UnixMilli(),
		Type:   entryType,
		Amount: amount,
		Meta:   copied,
	}
}

func (s *Service) record(ctx context.Context, userID string, amount int64, entryType entities.LedgerEntryType, meta map[string]string) (*entities.Wallet, error) {
	entry := s.newEntry(amount, entryType, meta)
	wallet, err := s.mutate(ctx, userID, func(w *entities.Wallet) error {
		w.Ledger = append([]*entities.LedgerEntry{entry}, w.Ledger...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveLedgerEntry(entryType, amount)
	s.logger.Debug("[WALLET] %s %+d for user %s, balance now %d", entryType, amount, userID, wallet.Balance)
	return wallet, nil
}

// AddLedgerEntry prepends an entry and moves the balance by amount.
// The sign of amount is not checked against the entry type.
func (s *Service) AddLedgerEntry(ctx context.Context, userID string, amount int64, entryType entities.LedgerEntryType, meta map[string]string) (*entities.Wallet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	return s.record(ctx, userID, amount, entryType, meta)
}

// Spend debits cost as a SPEND entry, refusing when the balance is short
func (s *Service) Spend(ctx context.Context, userID string, cost int64, meta map[string]string) (*entities.Wallet, error) {
	if cost <= 0 {
		return nil, types.NewError(types.ErrInvalidArgument, fmt.Sprintf("invalid cost %d", cost))
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	entry := s.newEntry(-cost, entities.LedgerEntrySpend, meta)
	wallet, err := s.mutate(ctx, userID, func(w *entities.Wallet) error {
		if w.Balance < cost {
			return types.NewError(types.ErrInsufficientFunds,
				fmt.Sprintf("balance %d is less than cost %d", w.Balance, cost))
		}
		w.Ledger = append([]*entities.LedgerEntry{entry}, w.Ledger...)
		return nil
	})
	if err != nil {
		if types.IsCode(err, types.ErrInsufficientFunds) {
			s.logger.Info("[WALLET] Spend of %d denied for user %s: %v", cost, userID, err)
		}
		return nil, err
	}

	s.metrics.ObserveLedgerEntry(entities.LedgerEntrySpend, -cost)
	s.logger.Debug("[WALLET] SPEND %d for user %s, balance now %d", cost, userID, wallet.Balance)
	return wallet, nil
}

// ClearLedger empties the ledger; the balance is carried into the opening amount
func (s *Service) ClearLedger(ctx context.Context, userID string) (*entities.Wallet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	wallet, err := s.mutate(ctx, userID, func(w *entities.Wallet) error {
		w.Opening = w.Balance
		w.Ledger = []*entities.LedgerEntry{}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("[WALLET] Cleared ledger for user %s, balance %d", userID, wallet.Balance)
	return wallet, nil
}

func (s *Service) today() string {
	return s.now().In(s.cfg.Location).Format(dayLayout)
}

// CanClaimDaily reports whether the user has not yet claimed today
func (s *Service) CanClaimDaily(ctx context.Context, userID string) (bool, error) {
	last, err := s.repo.GetLastDaily(ctx, userID)
	if err != nil {
		return false, types.WrapError(types.ErrStorage, "failed to read daily claim", err)
	}
	return last != s.today(), nil
}

// ClaimDaily credits the daily reward at most once per calendar day
func (s *Service) ClaimDaily(ctx context.Context, userID string) (*entities.Wallet, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	today := s.today()
	last, err := s.repo.GetLastDaily(ctx, userID)
	if err != nil {
		return nil, types.WrapError(types.ErrStorage, "failed to read daily claim", err)
	}
	if last == today {
		return nil, types.NewError(types.ErrAlreadyClaimed, "daily reward already claimed today")
	}

	if err := s.repo.SetLastDaily(ctx, userID, today); err != nil {
		return nil, types.WrapError(types.ErrStorage, "failed to record daily claim", err)
	}

	wallet, err := s.record(ctx, userID, s.cfg.DailyReward, entities.LedgerEntryDaily, map[string]string{"date": today})
	if err != nil {
		// Give the claim back so the user can retry
		if rbErr := s.repo.SetLastDaily(ctx, userID, last); rbErr != nil {
			s.logger.Error("[WALLET] Failed to roll back daily claim for user %s: %v", userID, rbErr)
		}
		return nil, err
	}

	s.logger.Info("[WALLET] Daily reward %d claimed by user %s on %s", s.cfg.DailyReward, userID, today)
	return wallet, nil
}

// RewardAd credits an ad view and returns the amount credited. The REROLL
// scene refunds the template cost (at least 1); other scenes pay AdReward.
func (s *Service) RewardAd(ctx context.Context, userID string, reward AdReward) (*entities.Wallet, int64, error) {
	scene := strings.ToUpper(strings.TrimSpace(reward.Scene))
	amount := s.cfg.AdReward
	meta := map[string]string{}
	if scene != "" {
		meta["scene"] = scene
	}

	if scene == SceneReroll {
		amount = reward.TemplateCost
		if amount <= 0 {
			amount = 1
		}
		if reward.TemplateID != "" {
			meta["templateId"] = reward.TemplateID
		}
	}

	unlock := s.locks.lock(userID)
	defer unlock()

	wallet, err := s.record(ctx, userID, amount, entities.LedgerEntryAd, meta)
	if err != nil {
		return nil, 0, err
	}

	s.logger.Info("[WALLET] Ad reward %d (scene %s) for user %s", amount, scene, userID)
	return wallet, amount, nil
}
