package core

import (
	"fmt"
	"os"

	"todocore/internal/infra/persistence/memory"
	"todocore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete store backend.
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory" // canonical slice-backed store
	StorageSQLite StorageDriver = "sqlite" // in-memory sqlite, SQL parity
)

// OpenStore selects a backend by driver name. The empty string falls back to
// the TODOCORE_STORE_DRIVER environment variable, then to memory. Both
// backends are process-scoped; nothing survives a restart.
func OpenStore(driver string) (Store, error) {
	if driver == "" {
		driver = os.Getenv("TODOCORE_STORE_DRIVER")
	}
	if driver == "" {
		driver = string(StorageMemory)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		store, err := sqlite.NewStore()
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
