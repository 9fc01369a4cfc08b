package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/Veraticus/stockroom/internal/cli"
	"github.com/Veraticus/stockroom/internal/common"
	"github.com/Veraticus/stockroom/internal/config"
	"github.com/Veraticus/stockroom/internal/inventory"
	"github.com/Veraticus/stockroom/internal/service"
	"github.com/Veraticus/stockroom/internal/storage"
)

// initStorage opens the configured backend. SQLite databases are migrated
// before use.
func initStorage(ctx context.Context, cfg *config.Config) (service.Storage, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}

		// Run migrations
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return store, nil

	default:
		return storage.NewTextStorage(cfg.DataPath, cfg.TransactionsPath)
	}
}

// dataLocation names where the configured backend keeps the inventory.
func dataLocation(cfg *config.Config) string {
	if cfg.Backend == config.BackendSQLite {
		return cfg.DatabasePath
	}
	return cfg.DataPath
}

// session is a loaded store together with the backend it came from.
type session struct {
	cfg     *config.Config
	backend service.Storage
	store   *inventory.Store
}

// openSession loads the inventory. A missing data file starts an empty store
// and malformed records are reported and skipped; other failures abort.
func openSession(ctx context.Context, w io.Writer) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	backend, err := initStorage(ctx, cfg)
	if err != nil {
		return nil, common.NewUserError("Error loading data.", err)
	}

	store := inventory.New()
	loadErr := store.Load(ctx, backend)
	switch {
	case loadErr == nil:
		fmt.Fprintln(w, cli.FormatSuccess("Data successfully loaded from "+dataLocation(cfg)))
	case errors.Is(loadErr, fs.ErrNotExist):
		fmt.Fprintln(w, cli.FormatWarning("No data file at "+dataLocation(cfg)+", starting with an empty inventory"))
	case errors.Is(loadErr, common.ErrMalformedInput):
		fmt.Fprintln(w, cli.FormatWarning("Some inventory records were malformed and skipped"))
		for _, line := range lineErrors(loadErr) {
			fmt.Fprintln(w, "  "+line)
		}
	default:
		_ = backend.Close()
		return nil, common.NewUserError("Error loading data.", loadErr)
	}

	return &session{cfg: cfg, backend: backend, store: store}, nil
}

var saveRetry = common.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

// save persists the store and replaces the transaction log with this
// session's sales. The context may already be canceled by an interrupt; the
// save still runs.
func (s *session) save(ctx context.Context, w io.Writer) error {
	return s.persist(ctx, w, s.store.Save)
}

// saveAppend persists the store and adds this session's sales to the log.
func (s *session) saveAppend(ctx context.Context, w io.Writer) error {
	return s.persist(ctx, w, s.store.SaveAppend)
}

// saveInventory persists the inventory only.
func (s *session) saveInventory(ctx context.Context, w io.Writer) error {
	return s.persist(ctx, w, s.store.SaveInventory)
}

func (s *session) persist(ctx context.Context, w io.Writer, write func(context.Context, service.Storage) error) error {
	ctx = context.WithoutCancel(ctx)
	err := common.WithRetry(ctx, func() error {
		err := write(ctx, s.backend)
		if err != nil && !storage.IsBusy(err) {
			return common.Permanent(err)
		}
		return err
	}, saveRetry)
	if err != nil {
		return common.NewUserError("Error saving data.", err)
	}
	fmt.Fprintln(w, cli.FormatSuccess("Data successfully saved to "+dataLocation(s.cfg)))
	return nil
}

func (s *session) close() {
	if err := s.backend.Close(); err != nil {
		common.LogError(err, "failed to close storage", common.Fields{"path": dataLocation(s.cfg)})
	}
}

// lineErrors flattens a joined load error into one message per bad line.
func lineErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(joined.Unwrap()))
	for _, e := range joined.Unwrap() {
		msgs = append(msgs, e.Error())
	}
	return msgs
}
