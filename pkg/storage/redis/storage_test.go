package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/fadedpez/affectlab/pkg/storage"
	"github.com/fadedpez/affectlab/pkg/storage/storagetest"
	"github.com/stretchr/testify/suite"
)

// Runs against a live server; set REDIS_ADDR to enable
type RedisStorageTestSuite struct {
	storagetest.StoreSuite
	addr string
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	suite.Run(t, &RedisStorageTestSuite{addr: addr})
}

func (s *RedisStorageTestSuite) SetupTest() {
	// Fresh prefix per test keeps runs isolated without FLUSHDB
	prefix := fmt.Sprintf("affectlab-test-%d", time.Now().UnixNano())
	s.NewStore = func() storage.Store {
		store, err := New(context.Background(), &storage.Options{
			Addr:      s.addr,
			Password:  os.Getenv("REDIS_PASSWORD"),
			KeyPrefix: prefix,
		})
		s.Require().NoError(err)
		return store
	}
	s.StoreSuite.SetupTest()
}

func TestNewRequiresAddress(t *testing.T) {
	_, err := New(context.Background(), &storage.Options{})
	if err == nil {
		t.Fatal("expected an error without an address")
	}
}
