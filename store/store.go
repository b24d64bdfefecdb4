// Package store connects to the data store and manages presets and
// statistics.
package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"

	"ultratimer/internal/models"
)

var (
	presetBucket = []byte("presets")
	statsBucket  = []byte("stats")
	statsKey     = []byte("stats")
)

var (
	errAlreadyRunning = errors.New(
		"is UltraTimer already running? Only one instance can be active at a time",
	)
	errPresetNotFound = errors.New("preset not found")
)

// DefaultPreset returns a preset populated with the default values used
// to fill in fields missing from older persisted documents.
func DefaultPreset() models.Preset {
	return models.Preset{
		Duration:     300,
		WarningTime:  120,
		CriticalTime: 60,
		SoundEnabled: true,
		ColorTheme:   "default",
	}
}

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

// NewClient opens (or creates) the database at the given path and ensures
// the required buckets exist.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err = tx.CreateBucketIfNotExists(presetBucket)
		if err != nil {
			return err
		}

		_, err = tx.CreateBucketIfNotExists(statsBucket)

		return err
	})
	if err != nil {
		return nil, err
	}

	return &Client{db}, nil
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// a second instance holding the file lock surfaces as a timeout
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// Presets returns every saved preset. Each stored document is decoded
// over the default preset so that fields introduced by later versions
// always have a value.
func (c *Client) Presets() (map[string]models.Preset, error) {
	presets := make(map[string]models.Preset)

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket(presetBucket).ForEach(func(k, v []byte) error {
			p := DefaultPreset()

			if err := json.Unmarshal(v, &p); err != nil {
				return err
			}

			p.Name = string(k)
			presets[p.Name] = p

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return presets, nil
}

// GetPreset retrieves a single preset by name.
func (c *Client) GetPreset(name string) (models.Preset, error) {
	p := DefaultPreset()

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(presetBucket).Get([]byte(name))
		if v == nil {
			return errPresetNotFound
		}

		return json.Unmarshal(v, &p)
	})
	if err != nil {
		return models.Preset{}, err
	}

	p.Name = name

	return p, nil
}

// SavePreset creates or overwrites a preset. The write is transactional
// and retried once on failure.
func (c *Client) SavePreset(p models.Preset) error {
	value, err := json.Marshal(p)
	if err != nil {
		return err
	}

	return c.retry(func() error {
		return c.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(presetBucket).Put([]byte(p.Name), value)
		})
	})
}

// DeletePreset removes a preset by name.
func (c *Client) DeletePreset(name string) error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(presetBucket).Delete([]byte(name))
	})
}

// Stats returns the statistics record, or a zeroed record if none has
// been stored yet. A malformed record is discarded and also yields the
// zero value so a corrupt document never prevents startup.
func (c *Client) Stats() (models.Statistics, error) {
	var stats models.Statistics

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(statsBucket).Get(statsKey)
		if len(v) == 0 {
			return nil
		}

		if err := json.Unmarshal(v, &stats); err != nil {
			slog.Warn(
				"discarding malformed statistics record",
				slog.Any("error", err),
			)

			stats = models.Statistics{}
		}

		return nil
	})
	if err != nil {
		return models.Statistics{}, err
	}

	return stats, nil
}

// SaveStats overwrites the statistics record. The write is transactional
// and retried once on failure.
func (c *Client) SaveStats(s models.Statistics) error {
	value, err := json.Marshal(s)
	if err != nil {
		return err
	}

	return c.retry(func() error {
		return c.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(statsBucket).Put(statsKey, value)
		})
	})
}

// retry runs fn, attempting it a second time if the first attempt fails.
// Bolt transactions are atomic, so a failed attempt leaves the previous
// data intact.
func (c *Client) retry(fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}

	return fn()
}

// IsNotFound reports whether the error indicates a missing preset.
func IsNotFound(err error) bool {
	return errors.Is(err, errPresetNotFound)
}
