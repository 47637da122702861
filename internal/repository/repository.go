// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"golang.org/x/sync/singleflight"
)

// Common errors for the persistence gateway.
var (
	// ErrStorageUnavailable wraps every connection or driver failure.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNotInitialized is returned when a collection is requested before any
	// successful connect.
	ErrNotInitialized = errors.New("database not initialized")
)

const (
	usersCollectionName = "users"
	connectKey          = "connect"
)

// Dialer opens and verifies a client for the given connection string.
type Dialer func(ctx context.Context, uri string) (*mongo.Client, error)

// Config configures a Repository.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	// Dialer overrides DialMongo. Used by tests.
	Dialer Dialer
	Logger *slog.Logger
}

// Repository is the persistence gateway. It owns the single MongoDB client
// shared by all callers and connects lazily on first use.
type Repository struct {
	uri            string
	database       string
	connectTimeout time.Duration
	dial           Dialer
	logger         *slog.Logger

	sf     singleflight.Group
	mu     sync.RWMutex
	client *mongo.Client
	db     *mongo.Database
	// gen is bumped by Close so a dial that was in flight does not install
	// its client afterwards.
	gen uint64
}

// New creates a Repository. It does not dial; call EnsureConnected or any
// accessor to open the connection.
func New(cfg Config) *Repository {
	dial := cfg.Dialer
	if dial == nil {
		dial = DialMongo
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		uri:            cfg.URI,
		database:       cfg.Database,
		connectTimeout: cfg.ConnectTimeout,
		dial:           dial,
		logger:         logger,
	}
}

// DialMongo connects to MongoDB and pings the primary. A client that fails the
// ping is disconnected before returning.
func DialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return client, nil
}

// EnsureConnected returns the live client, dialing if none exists. Concurrent
// callers share a single dial. A failed dial is not cached.
func (r *Repository) EnsureConnected(ctx context.Context) (*mongo.Client, error) {
	if client := r.current(); client != nil {
		return client, nil
	}

	v, err, _ := r.sf.Do(connectKey, func() (interface{}, error) {
		if client := r.current(); client != nil {
			return client, nil
		}

		r.mu.RLock()
		gen := r.gen
		r.mu.RUnlock()

		// The dial is shared, so one caller's cancellation must not fail the others.
		dialCtx := context.WithoutCancel(ctx)
		if r.connectTimeout > 0 {
			var cancel context.CancelFunc
			dialCtx, cancel = context.WithTimeout(dialCtx, r.connectTimeout)
			defer cancel()
		}

		client, err := r.dial(dialCtx, r.uri)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}

		r.mu.Lock()
		if r.gen != gen {
			r.mu.Unlock()
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("%w: closed while connecting", ErrStorageUnavailable)
		}
		r.client = client
		r.db = client.Database(r.database)
		r.mu.Unlock()

		r.logger.Info("connected to database", slog.String("database", r.database))
		return client, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*mongo.Client), nil
}

// Users returns the users collection of the active database.
func (r *Repository) Users() (*mongo.Collection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.db == nil {
		return nil, ErrNotInitialized
	}
	return r.db.Collection(usersCollectionName), nil
}

// Ping checks database connectivity. With no live client it only connects,
// since the dial already pings the primary.
func (r *Repository) Ping(ctx context.Context) error {
	client := r.current()
	if client == nil {
		_, err := r.EnsureConnected(ctx)
		return err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// Close disconnects the client and abandons any dial in flight. Safe to call
// more than once; a later call to EnsureConnected dials again.
func (r *Repository) Close(ctx context.Context) error {
	r.mu.Lock()
	client := r.client
	r.client = nil
	r.db = nil
	r.gen++
	r.mu.Unlock()

	if client == nil {
		return nil
	}
	if err := client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect: %w", err)
	}
	return nil
}

// Database returns the configured database name.
func (r *Repository) Database() string {
	return r.database
}

func (r *Repository) current() *mongo.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// users connects if needed and returns the users collection.
// ErrNotInitialized is folded into ErrStorageUnavailable here.
func (r *Repository) users(ctx context.Context) (*mongo.Collection, error) {
	if _, err := r.EnsureConnected(ctx); err != nil {
		return nil, err
	}

	coll, err := r.Users()
	if err != nil {
		// Close raced with this request.
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return coll, nil
}
