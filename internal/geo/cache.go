package geo

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"go.etcd.io/bbolt"
)

const bucketName = "locations"

// Cache stores lookup results so repeated analyses of the same logs do not
// hammer the lookup service. Only external lookup results are cached, never
// parsed log data.
type Cache interface {
	Get(ip string) (*Location, bool, error)
	Put(loc *Location) error
	Close() error
}

// BoltCache implements Cache using BoltDB
type BoltCache struct {
	db *bbolt.DB
}

// NewBoltCache opens (or creates) the lookup cache at dbPath
func NewBoltCache(dbPath string) (*BoltCache, error) {
	// Short timeout: if the file is locked another run holds it
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb (file may be locked by another process): %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	log.Info().
		Str("db_path", dbPath).
		Msg("Geolocation cache initialized")

	return &BoltCache{db: db}, nil
}

// Get retrieves a cached location for an IP; the second return reports a hit
func (c *BoltCache) Get(ip string) (*Location, bool, error) {
	var loc *Location

	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		val := b.Get([]byte(ip))
		if val == nil {
			return nil
		}

		var decoded Location
		if err := json.Unmarshal(val, &decoded); err != nil {
			return fmt.Errorf("invalid cached location: %w", err)
		}
		loc = &decoded
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached location: %w", err)
	}

	return loc, loc != nil, nil
}

// Put stores a lookup result, hits and misses alike so a dead IP is not
// re-queried every run
func (c *BoltCache) Put(loc *Location) error {
	val, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("failed to encode location: %w", err)
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}
		return b.Put([]byte(loc.IP), val)
	})
	if err != nil {
		return fmt.Errorf("failed to cache location: %w", err)
	}

	log.Debug().
		Str("ip", loc.IP).
		Bool("found", loc.Found).
		Msg("Cached lookup result")

	return nil
}

// Close closes the cache database
func (c *BoltCache) Close() error {
	log.Info().Msg("Closing geolocation cache")
	return c.db.Close()
}
