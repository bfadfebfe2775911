package testutil

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/dom/spark/internal/api"
	"github.com/dom/spark/internal/config"
	"github.com/dom/spark/internal/logging"
	"github.com/dom/spark/internal/media"
	"github.com/dom/spark/internal/pairlock"
	"github.com/dom/spark/internal/repository"
	repoPostgres "github.com/dom/spark/internal/repository/postgres"
	"github.com/dom/spark/internal/service"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestDB is an isolated, migrated database for one test.
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
	Driver    string
}

// NewTestDB returns an in-memory SQLite database, or a PostgreSQL
// testcontainer when TEST_POSTGRES=1.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if os.Getenv("TEST_POSTGRES") == "1" {
		return NewPostgresTestDB(t)
	}
	return NewSQLiteTestDB(t)
}

func NewSQLiteTestDB(t *testing.T) *TestDB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := repoPostgres.NewConnection("sqlite", dsn, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	testDB := &TestDB{DB: db, DSN: dsn, Driver: "sqlite"}
	t.Cleanup(func() {
		testDB.Cleanup()
	})
	return testDB
}

// NewPostgresTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewPostgresTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_spark"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := repoPostgres.NewConnection("postgres", dsn, nil)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
		Driver:    "postgres",
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup closes the connection and terminates the container, if any.
func (tdb *TestDB) Cleanup() {
	if sqlDB, err := tdb.DB.DB(); err == nil {
		sqlDB.Close()
	}
	if tdb.Container != nil {
		tdb.Container.Terminate(context.Background())
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	tables := []string{
		"message_reads",
		"messages",
		"chats",
		"pinned_matches",
		"matches",
		"swipe_decisions",
		"users",
	}

	for _, table := range tables {
		stmt := fmt.Sprintf("DELETE FROM %s", table)
		if tdb.Driver == "postgres" {
			stmt = fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)
		}
		if err := tdb.DB.Exec(stmt).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:                   "0",
		Environment:            "test",
		DatabaseDriver:         "sqlite",
		JWTSecret:              "test-jwt-secret-key-for-testing-only",
		JWTExpirationHours:     1,
		LogLevel:               "error",
		LogFormat:              "text",
		Location:               time.UTC,
		DefaultSwipeLimit:      20,
		DefaultSpinLimit:       1,
		S3Bucket:               "profile-images",
		CORSAllowedOrigins:     []string{"*"},
		AuthRateLimitPerMinute: 1000,
	}
}

// NewTestServices wires services over db with in-process infrastructure and
// a fixed random seed.
func NewTestServices(db *gorm.DB, cfg *config.Config) (*repository.Repositories, *service.Services, *media.MemoryStorage) {
	repos := repoPostgres.NewRepositories(db)
	storage := media.NewMemoryStorage("http://media.test/" + cfg.S3Bucket)
	services := service.NewServices(repos, cfg, service.Dependencies{
		Locker:  pairlock.NewLocalLocker(),
		Storage: storage,
		Random:  service.NewRandom(1),
		Logger:  logging.Discard(),
	})
	return repos, services, storage
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *TestDB
	Repos    *repository.Repositories
	Services *service.Services
	Storage  *media.MemoryStorage
	Config   *config.Config
}

// NewTestServer creates a complete test server with all dependencies
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	testDB := NewTestDB(t)
	cfg := TestConfig()

	repos, services, storage := NewTestServices(testDB.DB, cfg)
	router := api.NewRouter(services, cfg, logging.Discard())

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       testDB,
		Repos:    repos,
		Services: services,
		Storage:  storage,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
