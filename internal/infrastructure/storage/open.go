package storage

import (
	"fmt"

	"multichain_swap/internal/app/port"
)

const (
	DriverBadger = "badger"
	DriverMemory = "memory"
)

// Open returns the store selected by driver.
func Open(driver, dir string) (port.KeyValueStore, error) {
	switch driver {
	case DriverBadger, "":
		return OpenBadgerStore(dir)
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
