package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/cdportal/admin-console/internal/api/handler"
	"github.com/cdportal/admin-console/internal/api/metrics"
	"github.com/cdportal/admin-console/internal/core/ports"
	"github.com/cdportal/admin-console/internal/core/service"
	"github.com/cdportal/admin-console/internal/core/session"
	"github.com/cdportal/admin-console/internal/infrastructure/backend"
	"github.com/cdportal/admin-console/internal/infrastructure/db/mongo"
	"github.com/cdportal/admin-console/internal/infrastructure/db/redis"
	"github.com/cdportal/admin-console/internal/infrastructure/queue"
	"github.com/cdportal/admin-console/internal/infrastructure/store"
	"github.com/cdportal/admin-console/internal/pkg/config"
)

// app is the wired process: one session shared by every surface.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	client  *backend.Client
	session *session.Session

	companies *service.CompanyService
	drivers   *service.DriverService
	users     *service.UserService

	auditReader ports.AuditReader
	dispatcher  *queue.Dispatcher
	health      map[string]handler.Pinger

	closers []func(context.Context) error
}

// sessionTokens lets the backend client read the session created after it.
type sessionTokens struct{ s *session.Session }

func (t *sessionTokens) Token() string {
	if t.s == nil {
		return ""
	}
	return t.s.Token()
}

// newApp wires the process. withAudit starts the audit pipeline when the
// configuration enables it; one-shot CLI commands skip it.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, withAudit bool) (*app, error) {
	a := &app{cfg: cfg, log: log, health: map[string]handler.Pinger{}}

	tokens := &sessionTokens{}
	client, err := backend.New(backend.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
		Observe: metrics.ObserveBackend,
	}, tokens, log.With().Str("component", "backend").Logger())
	if err != nil {
		return nil, err
	}
	a.client = client
	a.health["backend"] = client

	creds, err := a.credentialStore(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	a.session = session.New(creds, client.Auth(), log.With().Str("component", "session").Logger())
	tokens.s = a.session

	var sink ports.AuditSink = queue.Discard{}
	if withAudit && cfg.Audit.Enabled {
		if sink, err = a.startAudit(ctx); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	observe := service.WithObserver(metrics.Observer{})
	a.companies = service.NewCompanyService(a.session, client.Companies(), sink, log, observe)
	a.drivers = service.NewDriverService(a.session, client.Drivers(), sink, log, observe)
	a.users = service.NewUserService(a.session, client.Users(), client.Auth(), sink, log, observe)

	if err := a.session.Initialize(ctx); err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("load stored credential: %w", err)
	}
	return a, nil
}

func (a *app) credentialStore(ctx context.Context) (ports.CredentialStore, error) {
	switch a.cfg.Credential.Store {
	case config.StoreMemory:
		return store.NewMemory(), nil
	case config.StoreRedis:
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		a.health["redis"] = redis.Pinger{Client: rdb}
		return redis.NewCredentialStore(rdb, a.cfg.Redis.Prefix, 0), nil
	default:
		path := a.cfg.Credential.File
		if path == "" {
			path = store.DefaultPath()
		}
		return store.NewFile(path, a.cfg.Credential.Passphrase), nil
	}
}

func (a *app) startAudit(ctx context.Context) (ports.AuditSink, error) {
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
	a.health["mongodb"] = mongo.Pinger{Client: client}

	repo := mongo.NewAuditRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		a.log.Warn().Err(err).Msg("audit index not created")
	}
	a.auditReader = repo

	a.dispatcher = queue.NewDispatcher(a.cfg.Audit.Workers, repo,
		a.log.With().Str("component", "audit").Logger(),
		queue.WithDropHook(metrics.AuditDroppedTotal.Inc),
		queue.WithFailureHook(metrics.AuditFailedTotal.Inc),
	)
	a.dispatcher.Start()
	// Drain before the mongo client disconnects.
	a.closers = append(a.closers, a.dispatcher.Stop)
	return a.dispatcher, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && !errors.Is(err, mongodriver.ErrClientDisconnected) {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
