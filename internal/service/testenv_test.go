package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"ai-governance/internal/config"
	"ai-governance/internal/database"
	"ai-governance/internal/domain"
	"ai-governance/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = config.AuthConfig{
	JWT: config.JWTConfig{
		SecretKey:      "test-secret-key-that-is-long-enough-for-hs256",
		AccessTokenTTL: 30 * time.Minute,
	},
	Lockout: config.LockoutConfig{
		MaxFailedAttempts: 5,
		Duration:          15 * time.Minute,
	},
	BcryptCost: bcrypt.MinCost,
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

func (c *testClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
	return c.t
}

// testEnv wires the real repositories against a migrated SQLite file.
type testEnv struct {
	db          *sqlx.DB
	clock       *testClock
	users       domain.UserRepository
	failed      domain.FailedLoginRepository
	resets      domain.PasswordResetRepository
	assessments domain.AssessmentRepository
	txManager   domain.TransactionManager
	cache       *memoryCache
	auth        *authServiceImpl
	assessment  *assessmentServiceImpl
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(ctx, db))

	env := &testEnv{
		db:          db,
		clock:       newTestClock(),
		users:       repository.NewSQLXUserRepository(db),
		failed:      repository.NewSQLXFailedLoginRepository(db),
		resets:      repository.NewSQLXPasswordResetRepository(db),
		assessments: repository.NewSQLXAssessmentRepository(db),
		txManager:   repository.NewTransactionManagerAdapter(db),
		cache:       newMemoryCache(),
	}

	authSvc, err := NewAuthService(env.users, env.failed, env.resets, env.txManager, testAuthConfig)
	require.NoError(t, err)
	env.auth = authSvc.(*authServiceImpl)
	env.auth.now = env.clock.Now

	env.assessment = NewAssessmentService(env.assessments, env.txManager, NewSummaryCacheService(env.cache, time.Minute)).(*assessmentServiceImpl)
	env.assessment.now = env.clock.Now
	return env
}

func (e *testEnv) signup(t *testing.T, email, password string) *domain.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), email, password, "Test User")
	require.NoError(t, err)
	return u
}

// memoryCache is an in-process domain.Cache.
type memoryCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", domain.ErrCacheMiss
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryCache) Ping(context.Context) error { return nil }

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}
