// Package storagetest holds the behaviour every storage.Store must share.
package storagetest

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/fadedpez/affectlab/pkg/storage"
	"github.com/stretchr/testify/suite"
)

// StoreSuite runs the common Store contract. Embed it and set NewStore.
type StoreSuite struct {
	suite.Suite
	NewStore func() storage.Store
	Store    storage.Store
	Ctx      context.Context
}

func (s *StoreSuite) SetupTest() {
	s.Ctx = context.Background()
	s.Store = s.NewStore()
}

func (s *StoreSuite) TearDownTest() {
	if s.Store != nil {
		s.Store.Close()
	}
}

func (s *StoreSuite) TestGetMissing() {
	// Execute
	value, err := s.Store.Get(s.Ctx, "user-1", storage.KeyWallet)

	// Assert
	s.ErrorIs(err, storage.ErrNotFound)
	s.Nil(value)
}

func (s *StoreSuite) TestSetAndGet() {
	// Setup
	value := []byte(`{"balance":20,"ledger":[]}`)

	// Execute
	err := s.Store.Set(s.Ctx, "user-1", storage.KeyWallet, value)
	s.Require().NoError(err, "Failed to set value")

	// Assert
	loaded, err := s.Store.Get(s.Ctx, "user-1", storage.KeyWallet)
	s.Require().NoError(err, "Failed to get value")
	s.JSONEq(string(value), string(loaded))

	_, err = s.Store.Get(s.Ctx, "user-2", storage.KeyWallet)
	s.ErrorIs(err, storage.ErrNotFound, "Users should not share keys")
}

func (s *StoreSuite) TestSetReplaces() {
	s.Require().NoError(s.Store.Set(s.Ctx, "user-1", storage.KeyDaily, []byte(`"2026-02-01"`)))
	s.Require().NoError(s.Store.Set(s.Ctx, "user-1", storage.KeyDaily, []byte(`"2026-02-02"`)))

	loaded, err := s.Store.Get(s.Ctx, "user-1", storage.KeyDaily)
	s.Require().NoError(err)
	s.JSONEq(`"2026-02-02"`, string(loaded))
}

func (s *StoreSuite) TestDelete() {
	// Setup
	s.Require().NoError(s.Store.Set(s.Ctx, "user-1", storage.KeyHistory, []byte(`[]`)))

	// Execute
	err := s.Store.Delete(s.Ctx, "user-1", storage.KeyHistory)

	// Assert
	s.Require().NoError(err, "Failed to delete value")
	_, err = s.Store.Get(s.Ctx, "user-1", storage.KeyHistory)
	s.ErrorIs(err, storage.ErrNotFound, "Value should be deleted")

	s.NoError(s.Store.Delete(s.Ctx, "user-1", storage.KeyHistory), "Deleting twice should be harmless")
}

func (s *StoreSuite) TestUpdateCreatesAndModifies() {
	// Execute: create from nothing
	err := s.Store.Update(s.Ctx, "user-1", storage.KeyDaily, func(current []byte) ([]byte, error) {
		s.Nil(current, "Missing key should be passed as nil")
		return []byte(`"2026-02-01"`), nil
	})
	s.Require().NoError(err)

	// Execute: modify existing
	err = s.Store.Update(s.Ctx, "user-1", storage.KeyDaily, func(current []byte) ([]byte, error) {
		s.JSONEq(`"2026-02-01"`, string(current))
		return []byte(`"2026-02-02"`), nil
	})
	s.Require().NoError(err)

	// Assert
	loaded, err := s.Store.Get(s.Ctx, "user-1", storage.KeyDaily)
	s.Require().NoError(err)
	s.JSONEq(`"2026-02-02"`, string(loaded))
}

func (s *StoreSuite) TestUpdateAbortLeavesValue() {
	// Setup
	s.Require().NoError(s.Store.Set(s.Ctx, "user-1", storage.KeyWallet, []byte(`{"balance":5}`)))
	abort := errors.New("abort")

	// Execute
	err := s.Store.Update(s.Ctx, "user-1", storage.KeyWallet, func(current []byte) ([]byte, error) {
		return nil, abort
	})

	// Assert
	s.ErrorIs(err, abort)
	loaded, err := s.Store.Get(s.Ctx, "user-1", storage.KeyWallet)
	s.Require().NoError(err)
	s.JSONEq(`{"balance":5}`, string(loaded))
}

func (s *StoreSuite) TestConcurrentUpdatesAreSerialized() {
	// Setup
	s.Require().NoError(s.Store.Set(s.Ctx, "user-1", "counter", []byte(`0`)))
	const workers = 20

	// Execute
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Store.Update(s.Ctx, "user-1", "counter", func(current []byte) ([]byte, error) {
				n, err := strconv.Atoi(string(current))
				if err != nil {
					return nil, err
				}
				return []byte(strconv.Itoa(n + 1)), nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	// Assert
	loaded, err := s.Store.Get(s.Ctx, "user-1", "counter")
	s.Require().NoError(err)
	s.Equal(strconv.Itoa(workers), string(loaded), "Every increment should survive")
}
