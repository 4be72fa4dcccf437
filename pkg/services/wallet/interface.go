package wallet

import (
	"context"

	"github.com/fadedpez/affectlab/pkg/entities"
)

//go:generate mockgen -source=$GOFILE -destination=mock/mock.go -package=mock_wallet_service
type WalletService interface {
	EnsureWallet(ctx context.Context, userID string) (*entities.Wallet, error)
	AddLedgerEntry(ctx context.Context, userID string, amount int64, entryType entities.LedgerEntryType, meta map[string]string) (*entities.Wallet, error)
	Spend(ctx context.Context, userID string, cost int64, meta map[string]string) (*entities.Wallet, error)
	ClearLedger(ctx context.Context, userID string) (*entities.Wallet, error)
	ClaimDaily(ctx context.Context, userID string) (*entities.Wallet, error)
	CanClaimDaily(ctx context.Context, userID string) (bool, error)
	RewardAd(ctx context.Context, userID string, reward AdReward) (*entities.Wallet, int64, error)
}
