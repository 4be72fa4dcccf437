package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fadedpez/affectlab/pkg/storage"
	"github.com/fadedpez/affectlab/pkg/storage/storagetest"
	"github.com/stretchr/testify/suite"
)

type SQLiteStorageTestSuite struct {
	storagetest.StoreSuite
	dbPath string
}

func TestSQLiteStorage(t *testing.T) {
	suite.Run(t, new(SQLiteStorageTestSuite))
}

func (s *SQLiteStorageTestSuite) SetupTest() {
	s.dbPath = filepath.Join(s.T().TempDir(), "data", "affectlab.db")
	s.NewStore = func() storage.Store {
		store, err := New(context.Background(), &storage.Options{Path: s.dbPath})
		s.Require().NoError(err, "Failed to open sqlite store")
		return store
	}
	s.StoreSuite.SetupTest()
}

func (s *SQLiteStorageTestSuite) TestReopenKeepsDataAndSchema() {
	// Setup
	ctx := context.Background()
	s.Require().NoError(s.Store.Set(ctx, "user-1", storage.KeyWallet, []byte(`{"balance":7}`)))
	s.Require().NoError(s.Store.Close())

	// Execute
	reopened, err := New(ctx, &storage.Options{Path: s.dbPath})
	s.Require().NoError(err, "Re-running migrations should be harmless")
	s.Store = reopened

	// Assert
	loaded, err := reopened.Get(ctx, "user-1", storage.KeyWallet)
	s.Require().NoError(err)
	s.JSONEq(`{"balance":7}`, string(loaded))
}

func (s *SQLiteStorageTestSuite) TestRequiresPath() {
	_, err := New(context.Background(), &storage.Options{})
	s.Error(err)
}
