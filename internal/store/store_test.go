package store

import (
	"context"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentaltax/internal/config"
	"github.com/stwalsh4118/rentaltax/internal/database"
	"github.com/stwalsh4118/rentaltax/internal/logger"
)

// testStoreContract exercises the behaviour every driver must share.
func testStoreContract(t *testing.T, s Store) {
	ctx := context.Background()
	ns := Namespace("test-" + uuid.New().String())

	t.Run("get missing returns nil", func(t *testing.T) {
		rec, err := s.Get(ctx, ns, "missing")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("insert then update", func(t *testing.T) {
		v, err := s.Put(ctx, ns, Record{ID: "a", Data: []byte(`{"n":1}`)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)

		v, err = s.Put(ctx, ns, Record{ID: "a", Data: []byte(`{"n":2}`), Version: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), v)

		rec, err := s.Get(ctx, ns, "a")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, int64(2), rec.Version)
		assert.JSONEq(t, `{"n":2}`, string(rec.Data))
	})

	t.Run("duplicate insert conflicts", func(t *testing.T) {
		_, err := s.Put(ctx, ns, Record{ID: "a", Data: []byte(`{"n":3}`)})
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		_, err := s.Put(ctx, ns, Record{ID: "a", Data: []byte(`{"n":3}`), Version: 1})
		assert.ErrorIs(t, err, ErrVersionConflict)

		rec, err := s.Get(ctx, ns, "a")
		require.NoError(t, err)
		assert.JSONEq(t, `{"n":2}`, string(rec.Data))
	})

	t.Run("update of missing record conflicts", func(t *testing.T) {
		_, err := s.Put(ctx, ns, Record{ID: "ghost", Data: []byte(`{}`), Version: 4})
		assert.ErrorIs(t, err, ErrVersionConflict)
	})

	t.Run("list is ordered by id", func(t *testing.T) {
		_, err := s.Put(ctx, ns, Record{ID: "c", Data: []byte(`{}`)})
		require.NoError(t, err)
		_, err = s.Put(ctx, ns, Record{ID: "b", Data: []byte(`{}`)})
		require.NoError(t, err)

		records, err := s.List(ctx, ns)
		require.NoError(t, err)
		ids := make([]string, 0, len(records))
		for _, r := range records {
			ids = append(ids, r.ID)
		}
		assert.Equal(t, []string{"a", "b", "c"}, ids)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, ns, "b"))
		require.NoError(t, s.Delete(ctx, ns, "b"))

		rec, err := s.Get(ctx, ns, "b")
		require.NoError(t, err)
		assert.Nil(t, rec)

		// A deleted id can be inserted again from version 0.
		v, err := s.Put(ctx, ns, Record{ID: "b", Data: []byte(`{}`)})
		require.NoError(t, err)
		assert.Equal(t, int64(1), v)
	})

	t.Run("empty namespace lists nothing", func(t *testing.T) {
		records, err := s.List(ctx, Namespace("empty-"+uuid.New().String()))
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte(`{"a":1}`)
	_, err := s.Put(ctx, NamespaceSettings, Record{ID: "x", Data: data})
	require.NoError(t, err)
	data[2] = 'z'

	rec, err := s.Get(ctx, NamespaceSettings, "x")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(rec.Data))

	rec.Data[2] = 'q'
	again, err := s.Get(ctx, NamespaceSettings, "x")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(again.Data))
}

func TestMemoryStore_ConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_, err := s.Put(ctx, NamespaceWorkpapers, Record{ID: "wp", Data: []byte(`{}`)})
	require.NoError(t, err)

	const writers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Put(ctx, NamespaceWorkpapers, Record{ID: "wp", Data: []byte(`{}`), Version: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if assert.ErrorIs(t, err, ErrVersionConflict) {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, writers-1, conflicts)
}

func TestPostgresStore_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "rentaltax"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
		PoolMin:  1,
		PoolMax:  4,
	}

	db, err := database.NewPostgresPool(context.Background(), cfg)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	require.NoError(t, database.Migrate(cfg, logger.NewNop()))

	s := NewPostgresStore(db)
	defer s.Close()

	testStoreContract(t, s)
}

func TestRedisStore_Contract(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	s := NewRedisStore(getEnvOrDefault("REDIS_ADDR", "localhost:6379"), os.Getenv("REDIS_PASSWORD"), 0, "rentaltax-test")
	defer s.Close()
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	testStoreContract(t, s)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
