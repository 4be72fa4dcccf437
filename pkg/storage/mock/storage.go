package mock

import (
	"context"

	"github.com/fadedpez/affectlab/pkg/storage"
	"github.com/stretchr/testify/mock"
)

// Storage is a mock implementation of storage.Store
type Storage struct {
	mock.Mock
}

func New() *Storage {
	return &Storage{}
}

func (s *Storage) Get(ctx context.Context, userID, key string) ([]byte, error) {
	args := s.Called(ctx, userID, key)
	if value, ok := args.Get(0).([]byte); ok {
		return value, args.Error(1)
	}
	return nil, args.Error(1)
}

func (s *Storage) Set(ctx context.Context, userID, key string, value []byte) error {
	args := s.Called(ctx, userID, key, value)
	return args.Error(0)
}

func (s *Storage) Delete(ctx context.Context, userID, key string) error {
	args := s.Called(ctx, userID, key)
	return args.Error(0)
}

// Update calls fn with the mocked current value (argument 0 of the return),
// then returns the mocked error. Pass nil for a missing key.
func (s *Storage) Update(ctx context.Context, userID, key string, fn storage.UpdateFunc) error {
	args := s.Called(ctx, userID, key, fn)
	if err := args.Error(1); err != nil {
		return err
	}
	current, _ := args.Get(0).([]byte)
	_, err := fn(current)
	return err
}

func (s *Storage) Close() error {
	args := s.Called()
	return args.Error(0)
}
