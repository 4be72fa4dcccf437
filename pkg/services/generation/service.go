package generation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/internal/types"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/metrics"
	"github.com/fadedpez/affectlab/pkg/repositories/cards"
	"github.com/fadedpez/affectlab/pkg/repositories/history"
	"github.com/fadedpez/affectlab/pkg/repositories/template"
	"github.com/fadedpez/affectlab/pkg/roller"
	"github.com/fadedpez/affectlab/pkg/services/image"
	"github.com/fadedpez/affectlab/pkg/services/wallet"
	"github.com/google/uuid"
)

// Generation outcomes reported to metrics
const (
	outcomeOK           = "ok"
	outcomeInvalid      = "invalid"
	outcomeInsufficient = "insufficient_funds"
	outcomeError        = "error"
)

// TemplateFinder looks up a template by ID
type TemplateFinder interface {
	Find(ctx context.Context, id string) (*entities.Template, error)
}

// Request asks for one card
type Request struct {
	UserID     string
	TemplateID string
	UserInput  string
	Reroll     bool // paid reroll of a previous card, rolled on the boosted table
	Free       bool // already paid for (ad reward); recorded as a zero REROLL entry
}

// Outcome is a generated card and the wallet balance after paying for it
type Outcome struct {
	Result   *entities.GeneratedResult
	Template *entities.Template
	Balance  int64
	Boosted  bool
}

// Service turns a template and user input into a paid-for card
type Service struct {
	templates TemplateFinder
	wallet    wallet.WalletService
	history   history.Repository
	analytics cards.Repository
	roller    *roller.Roller
	logger    *logging.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

// Config wires the service's collaborators. Analytics and Metrics are optional.
type Config struct {
	Templates TemplateFinder
	Wallet    wallet.WalletService
	History   history.Repository
	Analytics cards.Repository
	Roller    *roller.Roller
	Logger    *logging.Logger
	Metrics   *metrics.Metrics
}

// NewService creates a new generation service
func NewService(cfg Config) (*Service, error) {
	if cfg.Templates == nil {
		return nil, fmt.Errorf("template finder is required")
	}
	if cfg.Wallet == nil {
		return nil, fmt.Errorf("wallet service is required")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history repository is required")
	}
	if cfg.Roller == nil {
		cfg.Roller = roller.New(nil)
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default
	}

	return &Service{
		templates: cfg.Templates,
		wallet:    cfg.Wallet,
		history:   cfg.History,
		analytics: cfg.Analytics,
		roller:    cfg.Roller,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		now:       time.Now,
	}, nil
}

// Generate validates the request, pays for it, rolls the card and records it
func (s *Service) Generate(ctx context.Context, req Request) (*Outcome, error) {
	outcome, err := s.generate(ctx, req)
	switch {
	case err == nil:
		s.metrics.ObserveGeneration(outcomeOK)
	case types.IsCode(err, types.ErrInsufficientFunds):
		s.metrics.ObserveGeneration(outcomeInsufficient)
	case types.IsCode(err, types.ErrInvalidArgument), types.IsCode(err, types.ErrInvalidTemplate):
		s.metrics.ObserveGeneration(outcomeInvalid)
	default:
		s.metrics.ObserveGeneration(outcomeError)
	}
	return outcome, err
}

func (s *Service) generate(ctx context.Context, req Request) (*Outcome, error) {
	input := strings.TrimSpace(req.UserInput)
	if input == "" {
		return nil, types.NewError(types.ErrInvalidArgument, "input cannot be empty")
	}

	tpl, err := s.templates.Find(ctx, req.TemplateID)
	if err != nil {
		if errors.Is(err, template.ErrTemplateNotFound) {
			return nil, types.NewError(types.ErrInvalidTemplate, fmt.Sprintf("unknown template %s", req.TemplateID))
		}
		return nil, types.WrapError(types.ErrStorage, "failed to load template catalog", err)
	}

	// Refuse unusable templates before taking payment
	if !tpl.IsCustom() && len(tpl.PresetTexts) == 0 {
		return nil, types.NewError(types.ErrInvalidTemplate, fmt.Sprintf("template %s has no preset texts", tpl.ID))
	}
	if _, err := image.ResolveAsset(tpl, entities.RaritySR); err != nil {
		return nil, err
	}

	balance, err := s.pay(ctx, req, tpl)
	if err != nil {
		return nil, err
	}

	boosted := req.Free || req.Reroll
	var rolled *roller.Result
	if boosted {
		rolled, err = s.roller.Reroll(input, tpl.ID, tpl.PresetTexts, tpl.IsCustom())
	} else {
		rolled, err = s.roller.Roll(input, tpl.ID, tpl.PresetTexts, tpl.IsCustom())
	}
	if err != nil {
		return nil, err
	}

	imageURL, err := image.ResolveAsset(tpl, rolled.Rarity)
	if err != nil {
		return nil, err
	}

	result := &entities.GeneratedResult{
		ID:         uuid.New().String(),
		TemplateID: tpl.ID,
		ImageURL:   imageURL,
		Text:       rolled.Text,
		UserInput:  input,
		Timestamp:  s.now().UnixMilli(),
		Rarity:     rolled.Rarity,
		FilterSeed: rolled.FilterSeed,
		LuckScore:  rolled.LuckScore,
	}
	s.metrics.ObserveRoll(result.Rarity, result.LuckScore, boosted)
	s.logger.Info("[ROLL] User %s drew %s (luck %d) from %s, boosted=%t", req.UserID, result.Rarity, result.LuckScore, tpl.ID, boosted)

	s.record(ctx, req.UserID, result, boosted, tpl.Cost)

	return &Outcome{
		Result:   result,
		Template: tpl,
		Balance:  balance,
		Boosted:  boosted,
	}, nil
}

// pay charges for the card and returns the balance afterwards
func (s *Service) pay(ctx context.Context, req Request, tpl *entities.Template) (int64, error) {
	meta := map[string]string{
		"templateId":    tpl.ID,
		"templateTitle": tpl.Title,
		"cost":          strconv.FormatInt(tpl.Cost, 10),
	}

	if req.Reroll || req.Free {
		meta["reroll"] = "true"
	}

	var (
		w   *entities.Wallet
		err error
	)
	switch {
	case req.Free:
		w, err = s.wallet.AddLedgerEntry(ctx, req.UserID, 0, entities.LedgerEntryReroll, meta)
	case tpl.Cost <= 0:
		w, err = s.wallet.AddLedgerEntry(ctx, req.UserID, 0, entities.LedgerEntrySpend, meta)
	default:
		w, err = s.wallet.Spend(ctx, req.UserID, tpl.Cost, meta)
	}
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// record stores the card. The card is already paid for, so failures are logged only.
func (s *Service) record(ctx context.Context, userID string, result *entities.GeneratedResult, boosted bool, cost int64) {
	if err := s.history.Add(ctx, userID, result); err != nil {
		s.logger.Error("[ROLL] Failed to save history for user %s: %v", userID, err)
	}

	if s.analytics == nil {
		return
	}
	event := &cards.Event{UserID: userID, Result: result, Boosted: boosted, Cost: cost}
	if err := s.analytics.IndexCard(ctx, event); err != nil {
		s.logger.Warn("[ROLL] Failed to index card %s: %v", result.ID, err)
	}
}

// History returns the user's cards, newest first
func (s *Service) History(ctx context.Context, userID string, limit int) ([]*entities.GeneratedResult, error) {
	results, err := s.history.List(ctx, userID, limit)
	if err != nil {
		if errors.Is(err, history.ErrMalformedHistory) {
			s.logger.Warn("[ROLL] Ignoring malformed history for user %s", userID)
			return []*entities.GeneratedResult{}, nil
		}
		return nil, types.WrapError(types.ErrStorage, "failed to load history", err)
	}
	return results, nil
}

// Last returns the user's most recent card
func (s *Service) Last(ctx context.Context, userID string) (*entities.GeneratedResult, error) {
	results, err := s.History(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, types.NewError(types.ErrNotFound, "no cards drawn yet")
	}
	return results[0], nil
}

// ClearHistory removes all of the user's cards
func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.history.Clear(ctx, userID); err != nil {
		return types.WrapError(types.ErrStorage, "failed to clear history", err)
	}
	s.logger.Info("[ROLL] Cleared history for user %s", userID)
	return nil
}
