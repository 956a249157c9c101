package integration_test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/stretchr/testify/require"
	"orderflow/internal/pkg/config"
	"orderflow/internal/pkg/postgres"
	"orderflow/pkg/logger/zap_adapter"
	"orderflow/pkg/querier"
	"orderflow/pkg/tx"
)

var (
	querierInstance *querier.Querier
	txInstance      *tx.Manager
	querierOnce     sync.Once
)

func connect() {
	querierOnce.Do(func() {
		// Expects the POSTGRES_* variables of .env.example to point at a disposable database.
		cfg := &config.Database{
			Host:        os.Getenv("POSTGRES_HOST"),
			Port:        os.Getenv("POSTGRES_PORT"),
			User:        os.Getenv("POSTGRES_USER"),
			Password:    os.Getenv("POSTGRES_PASSWORD"),
			DBName:      os.Getenv("POSTGRES_DB"),
			SSLMode:     os.Getenv("POSTGRES_SSLMODE"),
			AutoMigrate: true,
		}

		zapLogger, err := zap_adapter.NewZapAdapter("warn", "integration-test")
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() {
			_ = zapLogger.Sync()
		}()

		connPool, err := postgres.NewConnPool(context.Background(), zapLogger, cfg)
		if err != nil {
			panic(err)
		}

		querierInstance = querier.New(connPool, pgxv5.DefaultCtxGetter)
		txInstance = tx.New(connPool)
	})
}

func GetQuerier() *querier.Querier {
	connect()
	return querierInstance
}

// GetTxManager shares the pool behind GetQuerier, so repositories join its transactions.
func GetTxManager() *tx.Manager {
	connect()
	return txInstance
}

func SetupDB(t *testing.T, setupSql string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if setupSql == "" {
		return
	}

	_, err := GetQuerier().Exec(ctx, setupSql)
	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE order_tracking_updates, order_items, orders, products RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err)
}
