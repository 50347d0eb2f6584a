package bolt

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang-logserver/internal/domain"
	"golang-logserver/internal/ports/output"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const (
	// Bucket holds one key per record, keyed by the bucket sequence
	Bucket = "log"

	openTimeout = time.Second
)

// Compile-time check to ensure BoltLogStore implements LogStore interface
var _ output.LogStore = (*BoltLogStore)(nil)

// BoltLogStore struct - Output adapter for a bbolt backed log
// bbolt allows one read-write transaction at a time and any number of read-only
// transactions, each seeing a consistent snapshot, which is the locking discipline
// the log store needs.
type BoltLogStore struct {
	path string
	db   *bolt.DB
}

// NewBoltLogStore opens or creates the database at path and ensures the log bucket exists.
func NewBoltLogStore(path string) (*BoltLogStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create log directory: %v", domain.ErrStoreIO, err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: open bolt db: %v", domain.ErrStoreIO, err)
	}

	createBucket := func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		return err
	}
	if err := db.Update(createBucket); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create bucket: %v", domain.ErrStoreIO, err)
	}

	logrus.Infof("Bolt log store opened: %s", path)
	return &BoltLogStore{
		path: path,
		db:   db,
	}, nil
}

// Append stores line under the next bucket sequence number.
func (s *BoltLogStore) Append(line string) error {
	appendTransaction := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(Bucket))
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		return bucket.Put(encodeKey(seq), []byte(line))
	}

	if err := s.db.Update(appendTransaction); err != nil {
		return wrapBoltErr(err)
	}
	return nil
}

// ReadAll renders every record in sequence order.
func (s *BoltLogStore) ReadAll() (string, error) {
	lines := make([]string, 0)
	readTransaction := func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(Bucket)).ForEach(func(_, v []byte) error {
			lines = append(lines, string(v))
			return nil
		})
	}

	if err := s.db.View(readTransaction); err != nil {
		return "", wrapBoltErr(err)
	}
	return domain.RenderLines(lines), nil
}

// Close closes the database.
func (s *BoltLogStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%w: close bolt db: %v", domain.ErrStoreIO, err)
	}
	return nil
}

func encodeKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func wrapBoltErr(err error) error {
	if err == bolt.ErrDatabaseNotOpen {
		return fmt.Errorf("%w: %w", domain.ErrStoreIO, domain.ErrStoreClosed)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreIO, err)
}
