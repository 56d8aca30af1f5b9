package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"

	"github.com/iliyamo/da-dashboard/internal/config"
)

// Open connects to the configured store, applies pool settings and verifies
// the connection.  It returns the handle together with the SQL dialect the
// repositories must use for placeholders.
func Open(cfg config.DBConfig) (*sql.DB, Dialect, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, dialect, err
	}
	dsn := cfg.URL
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, dialect, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	// Pool settings
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxIdleTime(30 * time.Second)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, dialect, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}
	return db, dialect, nil
}

func buildDSN(cfg config.DBConfig) string {
	switch cfg.Driver {
	case "mysql":
		auth := cfg.User
		if cfg.Pass != "" {
			auth = fmt.Sprintf("%s:%s", cfg.User, cfg.Pass)
		}
		port := cfg.Port
		if port == "" {
			port = "3306"
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, cfg.Host, port, cfg.Name)
	default:
		port := cfg.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(cfg.User, cfg.Pass),
			Host:     cfg.Host + ":" + port,
			Path:     "/" + cfg.Name,
			RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
		}
		if cfg.Pass == "" {
			u.User = url.User(cfg.User)
		}
		return u.String()
	}
}
