package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"salon-service/internal/config"
)

// DB wraps the pgx pool shared by the repositories and the signup
// transaction helper.
type DB struct {
	Pool *pgxpool.Pool
}

func New(cfg *config.DatabaseConfig) (*DB, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, errFailedParseDatabaseConfig(err)
	}

	applyPoolTuning(poolConfig, cfg)

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, errFailedCreateConnectionPool(err)
	}

	db := &DB{Pool: pool}
	if err := db.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

func applyPoolTuning(poolConfig *pgxpool.Config, cfg *config.DatabaseConfig) {
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.HealthCheckPeriod = poolHealthCheckPeriod
	poolConfig.MaxConnLifetime = poolMaxConnLifetime
	poolConfig.MaxConnIdleTime = poolMaxConnIdleTime
}

// Ping verifies the pool can reach the database within the ping timeout.
func (db *DB) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	if err := db.Pool.Ping(pingCtx); err != nil {
		return errFailedPingDatabase(err)
	}
	return nil
}

func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
