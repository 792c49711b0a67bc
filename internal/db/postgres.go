package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.uber.org/zap"

	_ "github.com/lib/pq"

	"github.com/slotserve/slotserve/internal/models"
)

// Postgres wraps the read-only reporting database. The engine never writes
// here; the counters it reads are maintained by the backend from logged
// events.
type Postgres struct {
	DB *sql.DB
}

// InitPostgres opens an instrumented connection pool against dsn.
func InitPostgres(dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*Postgres, error) {
	db, err := otelsql.Open("postgres", dsn,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	zap.L().Info("Connected to Postgres")
	return &Postgres{DB: db}, nil
}

// LoadAdStats returns the reporting-scope ads with their server-owned
// view/click counters, ordered by id.
func (p *Postgres) LoadAdStats(ctx context.Context) ([]models.Ad, error) {
	const query = `
		SELECT id, title, description,
		       COALESCE(image_ref, ''), COALESCE(destination_ref, ''),
		       placement, COALESCE(city, ''), COALESCE(state, ''),
		       views_count, clicks_count
		FROM ads
		ORDER BY id`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query ad stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var ads []models.Ad
	for rows.Next() {
		var a models.Ad
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.ImageRef,
			&a.DestinationRef, &a.Placement, &a.City, &a.State,
			&a.ViewsCount, &a.ClicksCount); err != nil {
			return nil, fmt.Errorf("scan ad stats: %w", err)
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

// Close shuts down the connection pool.
func (p *Postgres) Close() {
	if p != nil && p.DB != nil {
		if err := p.DB.Close(); err != nil {
			zap.L().Error("postgres close", zap.Error(err))
		}
	}
}
