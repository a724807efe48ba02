// Package store persists compiled artifacts and contract bindings in a bbolt
// database. Private keys are never written.
package store

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/cashbench/contract"
)

var (
	bucketArtifacts = []byte("artifacts")
	bucketBindings  = []byte("bindings")
)

// Binding is a named contract instance: which artifact, on which network,
// with which constructor arguments as the user typed them.
type Binding struct {
	Name     string
	Artifact string
	Network  string
	Args     []string
	Address  string
	Created  time.Time
}

// BoltStore wraps a bbolt database holding artifacts and bindings.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens or creates the database at dbPath, creating the parent
// directory when needed.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketArtifacts, bucketBindings} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// PutArtifact stores a validated artifact under its contract name, replacing
// any earlier version.
func (s *BoltStore) PutArtifact(a *contract.Artifact) error {
	if a == nil {
		return fmt.Errorf("%w: artifact", ErrNilParam)
	}
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode artifact: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Put([]byte(a.ContractName), data)
	})
}

// GetArtifact loads an artifact by contract name.
func (s *BoltStore) GetArtifact(name string) (*contract.Artifact, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketArtifacts).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: artifact %q", ErrNotFound, name)
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contract.ParseArtifact(data)
}

// ListArtifacts returns stored artifact names in key order.
func (s *BoltStore) ListArtifacts() ([]string, error) {
	return s.keys(bucketArtifacts)
}

// DeleteArtifact removes an artifact. Bindings that use it are left alone.
func (s *BoltStore) DeleteArtifact(name string) error {
	return s.delete(bucketArtifacts, name)
}

// PutBinding stores a new binding. Names are unique.
func (s *BoltStore) PutBinding(b *Binding) error {
	if b == nil {
		return fmt.Errorf("%w: binding", ErrNilParam)
	}
	if b.Name == "" {
		return ErrEmptyName
	}
	if b.Created.IsZero() {
		b.Created = time.Now().UTC()
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucketBindings)
		if bk.Get([]byte(b.Name)) != nil {
			return fmt.Errorf("%w: binding %q", ErrDuplicate, b.Name)
		}
		data, err := encodeGob(b)
		if err != nil {
			return fmt.Errorf("store: encode binding: %w", err)
		}
		return bk.Put([]byte(b.Name), data)
	})
}

// GetBinding loads a binding by name.
func (s *BoltStore) GetBinding(name string) (*Binding, error) {
	var b Binding
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketBindings).Get([]byte(name))
		if v == nil {
			return fmt.Errorf("%w: binding %q", ErrNotFound, name)
		}
		if err := decodeGob(v, &b); err != nil {
			return fmt.Errorf("store: decode binding: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListBindings returns every binding in name order.
func (s *BoltStore) ListBindings() ([]*Binding, error) {
	var out []*Binding
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketBindings).ForEach(func(k, v []byte) error {
			var b Binding
			if err := decodeGob(v, &b); err != nil {
				return fmt.Errorf("store: decode binding %q: %w", k, err)
			}
			out = append(out, &b)
			return nil
		})
	})
	return out, err
}

// DeleteBinding removes a binding.
func (s *BoltStore) DeleteBinding(name string) error {
	return s.delete(bucketBindings, name)
}

func (s *BoltStore) keys(bucket []byte) ([]string, error) {
	var out []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	return out, err
}

func (s *BoltStore) delete(bucket []byte, name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucket)
		if bk.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return bk.Delete([]byte(name))
	})
}

func encodeGob(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeGob(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
