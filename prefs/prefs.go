// Package prefs persists process-wide UI preferences (active tab, last
// selected group/game/scorecard) across runs. Preferences are an explicit
// struct loaded at startup and saved on change; nothing here is ambient
// global state.
package prefs

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketName  = []byte("prefs")
	settingsKey = []byte("settings")
)

// Settings are the persisted preferences.
type Settings struct {
	ActiveTab       string `json:"activeTab"`
	LastGroupID     string `json:"lastGroupId"`
	LastGameID      string `json:"lastGameId"`
	LastScorecardID string `json:"lastScorecardId"`
}

// Store is a bbolt-backed settings store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the preferences database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open prefs db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init prefs bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads the saved settings. A fresh store returns zero-value settings.
func (s *Store) Load() (Settings, error) {
	var settings Settings
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketName).Get(settingsKey)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &settings)
	})
	if err != nil {
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// Save writes the settings.
func (s *Store) Save(settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(settingsKey, data)
	})
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
