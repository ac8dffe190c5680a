package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ens-name-tracker/internal/config"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/logging"
	"ens-name-tracker/internal/observability"
	"ens-name-tracker/internal/resolver"
	"ens-name-tracker/internal/storage"
	chstore "ens-name-tracker/internal/storage/clickhouse"
	"ens-name-tracker/internal/storage/file"
	"ens-name-tracker/internal/storage/memory"
	"ens-name-tracker/internal/storage/migrations"
	"ens-name-tracker/internal/storage/postgres"
	"ens-name-tracker/internal/tracker"
)

// session holds the resources of one command run.
type session struct {
	conf    *config.Config
	logger  zerolog.Logger
	records storage.RecordStore
	history storage.ObservationStore

	closers []func()
}

// openSession loads config and opens the record store. A writable session
// also takes the file lock, opens the history store and serves metrics.
func openSession(ctx context.Context, cmd *cobra.Command, writable bool) (*session, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	conf, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(conf.Logger.Level, conf.Logger.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	s := &session{conf: conf, logger: logger}
	if err := s.openRecords(ctx, writable); err != nil {
		s.close()
		return nil, err
	}
	if !writable {
		return s, nil
	}

	if err := s.openHistory(ctx); err != nil {
		s.close()
		return nil, err
	}
	s.serveMetrics()
	return s, nil
}

func (s *session) openRecords(ctx context.Context, writable bool) error {
	switch s.conf.Store.Driver {
	case config.DriverFile:
		store := file.New(s.conf.Store.Path)
		if writable {
			if err := store.Lock(); err != nil {
				return err
			}
			s.closers = append(s.closers, func() {
				if err := store.Unlock(); err != nil {
					s.logger.Warn().Err(err).Msg("release store lock")
				}
			})
		}
		s.records = store

	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, s.conf.Store.PostgresDSN)
		if err != nil {
			return err
		}
		s.closers = append(s.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			return err
		}
		s.records = postgres.NewRecordStore(pool)

	case config.DriverMemory:
		s.logger.Warn().Msg("memory store: records are discarded on exit")
		s.records = memory.NewRecordStore()

	default:
		return fmt.Errorf("unknown store driver %q", s.conf.Store.Driver)
	}

	s.logger.Debug().Str("driver", s.conf.Store.Driver).Msg("record store opened")
	return nil
}

// openHistory connects the optional observation log.
func (s *session) openHistory(ctx context.Context) error {
	dsn := s.conf.History.ClickhouseDSN
	if dsn == "" {
		return nil
	}

	conn, err := migrations.RunClickhouseMigrations(ctx, dsn)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	s.closers = append(s.closers, func() { _ = conn.Close() })
	s.history = chstore.NewObservationStore(conn)
	return nil
}

func (s *session) serveMetrics() {
	addr := s.conf.Metrics.Addr
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		s.logger.Info().Str("addr", addr).Msg("starting metrics server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server")
		}
	}()

	s.closers = append(s.closers, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
}

// close releases resources in reverse order of acquisition.
func (s *session) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// load reads the persisted record set once.
func (s *session) load(ctx context.Context) (*domain.Store, error) {
	records, err := s.records.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	store, err := domain.NewStore(records)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	s.logger.Debug().Int("records", store.Len()).Msg("store loaded")
	return store, nil
}

// batchFunc runs one tracker pass over store.
type batchFunc func(ctx context.Context, tr *tracker.Tracker, store *domain.Store) (*tracker.Result, error)

// runBatch dials the registry, runs fn and writes the store back once when
// fn completes. An interrupted pass leaves the persisted store untouched.
func (s *session) runBatch(ctx context.Context, d deps, store *domain.Store, fn batchFunc) (*tracker.Result, error) {
	registry, closer, err := d.openRegistry(ctx, s.conf)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			s.logger.Warn().Err(err).Msg("close rpc client")
		}
	}()

	tr := tracker.New(tracker.Options{
		Resolver:     resolver.New(registry),
		Observations: s.history,
		Logger:       &s.logger,
		Now:          d.now,
	})
	s.logger.Debug().Str("run_id", tr.RunID()).Msg("run started")

	result, err := fn(ctx, tr, store)
	if err != nil {
		if ctx.Err() != nil {
			s.logger.Warn().Msg("interrupted: store left unchanged")
		}
		return result, err
	}

	if err := s.records.WriteAll(ctx, store.Records()); err != nil {
		return result, fmt.Errorf("save records: %w", err)
	}
	return result, nil
}
