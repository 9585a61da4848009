// ABOUTME: Charm KV backed conversation store with prefix-keyed JSON turn records
// ABOUTME: Keys sort chronologically so reads come back in append order
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/charm/kv"

	"github.com/verso-ai/verso/internal/models"
)

// turnPrefix namespaces conversation turn records in the KV store
const turnPrefix = "turn:"

// KVConfig holds Charm KV connection settings
type KVConfig struct {
	Host     string
	DBName   string
	AutoSync bool
}

// KVStore is a ConversationStore on Charm KV. Each turn is one JSON
// record under turn:<identity>:<sortable timestamp>:<turn id>.
type KVStore struct {
	mu       sync.Mutex
	kv       *kv.KV
	autoSync bool
}

// OpenKVStore opens the Charm KV database for conversation storage
func OpenKVStore(cfg KVConfig) (*KVStore, error) {
	if cfg.Host != "" {
		os.Setenv("CHARM_HOST", cfg.Host)
	}
	name := cfg.DBName
	if name == "" {
		name = "verso"
	}

	db, err := kv.OpenWithDefaults(name)
	if err != nil {
		return nil, fmt.Errorf("open charm kv: %w", err)
	}

	s := &KVStore{kv: db, autoSync: cfg.AutoSync}
	if cfg.AutoSync {
		_ = db.Sync()
	}
	return s, nil
}

// Close closes the KV database
func (s *KVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kv == nil {
		return nil
	}
	err := s.kv.Close()
	s.kv = nil
	return err
}

// Append adds a turn to the identity's history
func (s *KVStore) Append(identity string, turn *models.Turn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("marshal turn: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Set([]byte(turnKey(identity, turn)), data); err != nil {
		return fmt.Errorf("set turn %s: %w", turn.TurnID, err)
	}
	s.syncIfEnabled()
	return nil
}

// Recent returns the identity's turns within the window, oldest first
func (s *KVStore) Recent(identity string, window time.Duration) ([]models.Turn, error) {
	keys, err := s.listKeys(turnPrefix + identity + ":")
	if err != nil {
		return nil, err
	}

	cutoff := time.Now().UTC().Add(-window)
	var turns []models.Turn
	for _, key := range keys {
		var turn models.Turn
		if err := s.getJSON(key, &turn); err != nil {
			// Skip undecodable records rather than failing the read
			continue
		}
		if turn.Timestamp.Before(cutoff) {
			continue
		}
		turns = append(turns, turn)
	}

	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].Timestamp.Before(turns[j].Timestamp)
	})
	return turns, nil
}

// Clear removes all turns for the identity
func (s *KVStore) Clear(identity string) error {
	keys, err := s.listKeys(turnPrefix + identity + ":")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		if err := s.kv.Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
	}
	s.syncIfEnabled()
	return nil
}

// PurgeOlderThan removes turns older than age across all identities
func (s *KVStore) PurgeOlderThan(age time.Duration) (int, error) {
	keys, err := s.listKeys(turnPrefix)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().Add(-age)
	removed := 0
	for _, key := range keys {
		var turn models.Turn
		if err := s.getJSON(key, &turn); err != nil {
			continue
		}
		if !turn.Timestamp.Before(cutoff) {
			continue
		}
		s.mu.Lock()
		err := s.kv.Delete([]byte(key))
		s.mu.Unlock()
		if err != nil {
			return removed, fmt.Errorf("delete %s: %w", key, err)
		}
		removed++
	}

	s.mu.Lock()
	s.syncIfEnabled()
	s.mu.Unlock()
	return removed, nil
}

// syncIfEnabled syncs to cloud after writes. Caller holds s.mu.
func (s *KVStore) syncIfEnabled() {
	if s.autoSync && s.kv != nil {
		_ = s.kv.Sync()
	}
}

func (s *KVStore) getJSON(key string, dest any) error {
	s.mu.Lock()
	data, err := s.kv.Get([]byte(key))
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if data == nil {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (s *KVStore) listKeys(prefix string) ([]string, error) {
	s.mu.Lock()
	keys, err := s.kv.Keys()
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}

	var out []string
	for _, key := range keys {
		if strings.HasPrefix(string(key), prefix) {
			out = append(out, string(key))
		}
	}
	sort.Strings(out)
	return out, nil
}

// turnKey builds a chronologically sortable record key
func turnKey(identity string, turn *models.Turn) string {
	return fmt.Sprintf("%s%s:%s:%s", turnPrefix, identity,
		turn.Timestamp.UTC().Format("20060102150405.000000000"), turn.TurnID)
}
