package database

import (
	"fmt"

	"gamecatalog/config"

	"github.com/valkey-io/valkey-go"
)

type CacheClient valkey.Client

// Cache holds the valkey clients. Only the events connection is used; games
// themselves are always read from the relational store.
type Cache struct {
	Events CacheClient
}

// EVENTS_CACHE_INDEX is the valkey logical database used for change events.
const EVENTS_CACHE_INDEX = 3

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}

	client, err := valkey.NewClient(
		valkey.ClientOption{
			InitAddress: []string{CacheAddress(config)},
			SelectDB:    EVENTS_CACHE_INDEX,
		},
	)
	if err != nil {
		return log.Err("failed to create events valkey client", err)
	}

	s.Cache.Events = client
	return nil
}

func CacheAddress(config config.Config) string {
	return fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
}
