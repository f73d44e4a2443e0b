package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scopemark/scopemark/internal/config"
	"github.com/scopemark/scopemark/internal/database"
	"github.com/scopemark/scopemark/internal/store/gormstore"
	"github.com/scopemark/scopemark/internal/store/memory"
)

// NewStore creates a persistence backend based on configuration.
func NewStore(cfg config.StorageConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.New(), nil
	case "sqlite":
		db, err := database.GetSqliteDB(cfg.SqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return gormstore.New(db, log), nil
	case "postgres":
		mgr := database.NewManager(log)
		if err := mgr.Connect(cfg.SqlitePath); err != nil {
			return nil, fmt.Errorf("failed to connect annotation store: %w", err)
		}
		return gormstore.New(mgr.DB, log), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
