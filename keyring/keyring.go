// Package keyring persists tricipher master keys in a local bbolt database so
// they can be referred to by ID or name instead of being pasted around.
package keyring

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/BackendStack21/tricipher-go/key"
	"github.com/BackendStack21/tricipher-go/utils"
)

var (
	bucketKeys  = []byte("keys")
	bucketNames = []byte("names")
)

// Record is the stored form of a key.
type Record struct {
	ID          string    `json:"id"`
	Name        string    `json:"name,omitempty"`
	Fingerprint string    `json:"fingerprint"`
	MasterKey   []int     `json:"master_key"`
	CreatedAt   time.Time `json:"created_at"`
}

// Key rebuilds the key and checks it against the stored fingerprint.
func (r *Record) Key() (*key.Key, error) {
	k, err := key.FromValues(r.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("keyring: record %s: %w", r.ID, err)
	}
	want, err := hex.DecodeString(r.Fingerprint)
	if err != nil || !utils.ConstantTimeEqual(want, k.Fingerprint()) {
		return nil, fmt.Errorf("%w: record %s", ErrCorruptRecord, r.ID)
	}
	return k, nil
}

// Store wraps a bbolt database holding key records.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the keyring at dbPath.
// The parent directory is created if it does not exist.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("keyring: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("keyring: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketKeys, bucketNames} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("keyring: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file path.
func (s *Store) Path() string { return s.db.Path() }

// Put stores k under a fresh ID. name is optional but must be unique when set.
func (s *Store) Put(name string, k *key.Key) (*Record, error) {
	if k == nil {
		return nil, ErrNilKey
	}
	rec := &Record{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Fingerprint: hex.EncodeToString(k.Fingerprint()),
		MasterKey:   k.MasterKey(),
		CreatedAt:   time.Now().UTC(),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("keyring: encode record: %w", err)
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		if rec.Name != "" {
			nb := tx.Bucket(bucketNames)
			if nb.Get([]byte(rec.Name)) != nil {
				return fmt.Errorf("%w: %q", ErrDuplicateName, rec.Name)
			}
			if err := nb.Put([]byte(rec.Name), []byte(rec.ID)); err != nil {
				return fmt.Errorf("keyring: put name: %w", err)
			}
		}
		if err := tx.Bucket(bucketKeys).Put([]byte(rec.ID), data); err != nil {
			return fmt.Errorf("keyring: put key: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func getRecord(tx *bbolt.Tx, id string) (*Record, error) {
	data := tx.Bucket(bucketKeys).Get([]byte(id))
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("keyring: decode record %s: %w", id, err)
	}
	return &rec, nil
}

// Get returns the record stored under id.
func (s *Store) Get(id string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = getRecord(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Resolve finds a record by exact ID, exact name, or a unique prefix of an
// ID or hex fingerprint.
func (s *Store) Resolve(ref string) (*Record, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrKeyNotFound)
	}

	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		if data := tx.Bucket(bucketKeys).Get([]byte(ref)); data != nil {
			var err error
			rec, err = getRecord(tx, ref)
			return err
		}
		if id := tx.Bucket(bucketNames).Get([]byte(ref)); id != nil {
			var err error
			rec, err = getRecord(tx, string(id))
			return err
		}

		var matches []*Record
		err := tx.Bucket(bucketKeys).ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("keyring: decode record %s: %w", k, err)
			}
			if strings.HasPrefix(r.ID, ref) || strings.HasPrefix(r.Fingerprint, ref) {
				matches = append(matches, &r)
			}
			return nil
		})
		if err != nil {
			return err
		}
		switch len(matches) {
		case 0:
			return fmt.Errorf("%w: %s", ErrKeyNotFound, ref)
		case 1:
			rec = matches[0]
			return nil
		default:
			return fmt.Errorf("%w: %q matches %d keys", ErrAmbiguousRef, ref, len(matches))
		}
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns all records, oldest first.
func (s *Store) List() ([]Record, error) {
	var records []Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKeys).ForEach(func(k, v []byte) error {
			var r Record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("keyring: decode record %s: %w", k, err)
			}
			records = append(records, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

// Delete removes the record stored under id.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		rec, err := getRecord(tx, id)
		if err != nil {
			return err
		}
		if rec.Name != "" {
			if err := tx.Bucket(bucketNames).Delete([]byte(rec.Name)); err != nil {
				return fmt.Errorf("keyring: delete name: %w", err)
			}
		}
		if err := tx.Bucket(bucketKeys).Delete([]byte(id)); err != nil {
			return fmt.Errorf("keyring: delete key: %w", err)
		}
		return nil
	})
}
