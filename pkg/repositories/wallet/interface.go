package wallet

import (
	"context"
	"errors"

	"github.com/fadedpez/affectlab/pkg/entities"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrMalformedWallet = errors.New("malformed wallet")
)

// Repository defines the interface for wallet data operations
type Repository interface {
	// GetWallet retrieves a wallet by user ID. A malformed stored wallet is
	// returned repaired together with ErrMalformedWallet.
	GetWallet(ctx context.Context, userID string) (*entities.Wallet, error)

	// SaveWallet creates or replaces a wallet
	SaveWallet(ctx context.Context, wallet *entities.Wallet) error

	// UpdateWallet loads, mutates and saves a wallet as one operation.
	// Returns ErrWalletNotFound if the wallet does not exist.
	UpdateWallet(ctx context.Context, userID string, fn func(wallet *entities.Wallet) error) (*entities.Wallet, error)

	// GetLastDaily returns the day of the last daily claim, or "" if never claimed
	GetLastDaily(ctx context.Context, userID string) (string, error)

	// SetLastDaily records the day of a daily claim
	SetLastDaily(ctx context.Context, userID, day string) error
}
