package wallet

import (
	"context"
	"sync"

	"github.com/fadedpez/affectlab/pkg/entities"
)

// MemoryRepository implements Repository using in-memory storage
type MemoryRepository struct {
	wallets map[string]*entities.Wallet
	daily   map[string]string
	mu      sync.RWMutex
}

// NewMemoryRepository creates a new in-memory wallet repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		wallets: make(map[string]*entities.Wallet),
		daily:   make(map[string]string),
	}
}

// GetWallet retrieves a wallet by user ID
func (r *MemoryRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wallet, exists := r.wallets[userID]
	if !exists {
		return nil, ErrWalletNotFound
	}

	// Return a copy to prevent concurrent modification
	return CloneWallet(wallet), nil
}

// SaveWallet creates or replaces a wallet
func (r *MemoryRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.wallets[wallet.UserID] = CloneWallet(wallet)
	return nil
}

// UpdateWallet mutates a copy under the write lock and stores it if fn succeeds
func (r *MemoryRepository) UpdateWallet(ctx context.Context, userID string, fn func(wallet *entities.Wallet) error) (*entities.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.wallets[userID]
	if !exists {
		return nil, ErrWalletNotFound
	}

	wallet := CloneWallet(stored)
	if err := fn(wallet); err != nil {
		return nil, err
	}
	wallet.Recalculate()
	r.wallets[userID] = CloneWallet(wallet)

	return wallet, nil
}

// GetLastDaily returns the last daily claim day
func (r *MemoryRepository) GetLastDaily(ctx context.Context, userID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.daily[userID], nil
}

// SetLastDaily records the last daily claim day
func (r *MemoryRepository) SetLastDaily(ctx context.Context, userID, day string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.daily[userID] = day
	return nil
}
