package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/fadedpez/affectlab/pkg/storage"
)

// errUpdateAborted carries a callback error out of the store update unchanged
type errUpdateAborted struct{ err error }

func (e errUpdateAborted) Error() string { return e.err.Error() }
func (e errUpdateAborted) Unwrap() error { return e.err }

// KVRepository implements Repository over a storage.Store
type KVRepository struct {
	store storage.Store
}

// NewKVRepository creates a wallet repository backed by store
func NewKVRepository(store storage.Store) *KVRepository {
	return &KVRepository{store: store}
}

// GetWallet retrieves a wallet by user ID
func (r *KVRepository) GetWallet(ctx context.Context, userID string) (*entities.Wallet, error) {
	data, err := r.store.Get(ctx, userID, storage.KeyWallet)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error getting wallet: %w", err)
	}
	return DecodeWallet(userID, data)
}

// SaveWallet creates or replaces a wallet
func (r *KVRepository) SaveWallet(ctx context.Context, wallet *entities.Wallet) error {
	data, err := EncodeWallet(wallet)
	if err != nil {
		return fmt.Errorf("error encoding wallet: %w", err)
	}
	if err := r.store.Set(ctx, wallet.UserID, storage.KeyWallet, data); err != nil {
		return fmt.Errorf("error saving wallet: %w", err)
	}
	return nil
}

// UpdateWallet applies fn through the store's atomic update
func (r *KVRepository) UpdateWallet(ctx context.Context, userID string, fn func(wallet *entities.Wallet) error) (*entities.Wallet, error) {
	var updated *entities.Wallet

	err := r.store.Update(ctx, userID, storage.KeyWallet, func(current []byte) ([]byte, error) {
		if current == nil {
			return nil, ErrWalletNotFound
		}
		wallet, err := DecodeWallet(userID, current)
		if err != nil && !errors.Is(err, ErrMalformedWallet) {
			return nil, err
		}
		if err := fn(wallet); err != nil {
			return nil, errUpdateAborted{err}
		}
		wallet.Recalculate()
		updated = wallet
		return EncodeWallet(wallet)
	})
	if err != nil {
		var aborted errUpdateAborted
		if errors.As(err, &aborted) {
			return nil, aborted.err
		}
		if errors.Is(err, ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("error updating wallet: %w", err)
	}
	return updated, nil
}

// GetLastDaily returns the last daily claim day
func (r *KVRepository) GetLastDaily(ctx context.Context, userID string) (string, error) {
	data, err := r.store.Get(ctx, userID, storage.KeyDaily)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("error getting daily claim: %w", err)
	}

	var day string
	if err := json.Unmarshal(data, &day); err != nil {
		// Unreadable marker counts as never claimed
		return "", nil
	}
	return day, nil
}

// SetLastDaily records the last daily claim day
func (r *KVRepository) SetLastDaily(ctx context.Context, userID, day string) error {
	data, err := json.Marshal(day)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, userID, storage.KeyDaily, data); err != nil {
		return fmt.Errorf("error saving daily claim: %w", err)
	}
	return nil
}
