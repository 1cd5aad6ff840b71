package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Health describes the current state of the database connection pool.
type Health struct {
	Healthy       bool          `json:"healthy"`
	Latency       time.Duration `json:"latency_ns"`
	TotalConns    int32         `json:"total_conns"`
	IdleConns     int32         `json:"idle_conns"`
	AcquiredConns int32         `json:"acquired_conns"`
	Error         string        `json:"error,omitempty"`
}

// CheckHealth pings the database and reports pool statistics.
func CheckHealth(ctx context.Context, pool *pgxpool.Pool) Health {
	start := time.Now()
	err := pool.Ping(ctx)
	latency := time.Since(start)

	stat := pool.Stat()
	h := Health{
		Healthy:       err == nil,
		Latency:       latency,
		TotalConns:    stat.TotalConns(),
		IdleConns:     stat.IdleConns(),
		AcquiredConns: stat.AcquiredConns(),
	}
	if err != nil {
		h.Error = err.Error()
	}
	return h
}
