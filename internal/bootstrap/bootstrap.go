// internal/bootstrap/bootstrap.go

package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"

	"curator/internal/adapter/events"
	"curator/internal/adapter/sentiment"
	"curator/internal/adapter/social"
	"curator/internal/adapter/storage"
	"curator/internal/config"
	"curator/internal/domain/engagement"
	"curator/internal/service/curation"
)

// Components are the wired collaborators of a curation service
type Components struct {
	Service  *curation.Service
	NATS     *nats.Conn
	Location *time.Location
	Subject  string

	closers []func()
}

// Close releases every opened connection in reverse order
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Build opens the configured record store, the optional NATS connection and
// sentiment client, and assembles a curation service over them.
func Build(ctx context.Context, cfg config.Config, logger *log.Logger) (*Components, error) {
	loc, err := cfg.Analysis.Location()
	if err != nil {
		return nil, err
	}

	components := &Components{Location: loc}

	store, closeStore, err := OpenStore(ctx, cfg, loc)
	if err != nil {
		return nil, err
	}
	components.closers = append(components.closers, closeStore)

	var conn events.Conn
	if cfg.NATS.Enabled {
		nc, err := ConnectNATS(cfg.NATS, logger)
		if err != nil {
			components.Close()
			return nil, err
		}
		components.NATS = nc
		components.closers = append(components.closers, nc.Close)
		conn = nc
	}

	var classifier engagement.Classifier
	if cfg.Sentiment.Endpoint != "" {
		classifier = sentiment.NewClient(sentiment.Config{
			Endpoint:      cfg.Sentiment.Endpoint,
			Token:         cfg.Sentiment.Token,
			Timeout:       cfg.Sentiment.Timeout,
			RatePerSecond: cfg.Sentiment.RatePerSecond,
			Burst:         cfg.Sentiment.Burst,
		})
	}

	publisher := events.NewPublisher(conn, cfg.Analysis.EventsTopic)
	components.Subject = publisher.ReportSubject()

	components.Service = curation.NewService(
		store,
		classifier,
		publisher,
		logger,
		curation.Config{
			SourceName:     cfg.Database.Driver,
			DefaultHorizon: cfg.Analysis.Horizon,
		},
	)

	return components, nil
}

// OpenStore opens the record store selected by the database driver
func OpenStore(ctx context.Context, cfg config.Config, loc *time.Location) (engagement.Store, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", engagement.ErrStoreUnavailable, err)
		}
		return storage.NewEngagementStore(db, loc), db.Close, nil

	case config.DriverSQLite:
		store, err := storage.OpenSQLite(cfg.Database.SQLitePath, loc)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case config.DriverTwitter:
		source := social.NewTwitterSource(social.TwitterConfig{
			BearerToken: cfg.Twitter.BearerToken,
			UserID:      cfg.Twitter.UserID,
			Host:        cfg.Twitter.Host,
			MaxResults:  cfg.Twitter.MaxResults,
			MaxPages:    cfg.Twitter.MaxPages,
		}, loc)
		return source, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// ConnectNATS opens a NATS connection that logs its lifecycle
func ConnectNATS(cfg config.NATSConfig, logger *log.Logger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", "err", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
