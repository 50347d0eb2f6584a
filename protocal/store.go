package protocal

import (
	"fmt"

	"golang-logserver/configs"
	boltAdapter "golang-logserver/internal/adapters/output/bolt"
	fileAdapter "golang-logserver/internal/adapters/output/file"
	"golang-logserver/internal/adapters/output/memory"
	"golang-logserver/internal/adapters/output/postgres"
	"golang-logserver/internal/ports/output"
	"golang-logserver/pkg/database_driver/gorm"

	"github.com/sirupsen/logrus"
)

// OpenLogStore func - Opens the log store backend selected by store.driver.
// The returned release func closes the store and anything it depends on.
func OpenLogStore(cfg *configs.Config) (output.LogStore, func(), error) {
	switch cfg.Store.Driver {
	case "", "file":
		store, err := fileAdapter.NewFileLogStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store), nil

	case "memory":
		store := memory.NewMemoryLogStore()
		return store, closer(store), nil

	case "bolt":
		store, err := boltAdapter.NewBoltLogStore(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, closer(store), nil

	case "postgres":
		dbConGorm, err := gorm.ConnectToPostgreSQL(
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.Username,
			cfg.Postgres.Password,
			cfg.Postgres.DbName,
			cfg.Postgres.SSLMode,
		)
		if err != nil {
			return nil, nil, err
		}
		store, err := postgres.NewLogStore(dbConGorm.Postgres)
		if err != nil {
			gorm.DisconnectPostgres(dbConGorm.Postgres)
			return nil, nil, err
		}
		return store, func() {
			store.Close()
			gorm.DisconnectPostgres(dbConGorm.Postgres)
		}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

func closer(store output.LogStore) func() {
	return func() {
		if err := store.Close(); err != nil {
			logrus.Errorf("Error closing log store: %v", err)
		}
	}
}
