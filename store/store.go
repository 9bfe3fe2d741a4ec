package store

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:30
 */

// Storage errors.
var (
	ErrNotFound = errors.New("store: not found")
	ErrLocked   = errors.New("store: locked by another process")
	ErrCorrupt  = errors.New("store: corrupt")
)

// Store is a key-prefixed embedded key-value layout over BadgerDB with
// atomic batches, surviving crashes. Exactly one process may hold a Store
// open on a given path at a time.
type Store struct {
	db   *badger.DB
	path string
}

// Exists reports whether a store already lives at path.
func Exists(path string) bool {
	if _, err := os.Stat(filepath.Join(path, "MANIFEST")); os.IsNotExist(err) {
		return false
	}
	return true
}

// Open opens (or creates) the store at path. A lock held by a crashed
// prior process is cleared once and retried; a lock genuinely held by a
// live process surfaces as ErrLocked, which callers should treat as
// fatal at startup.
func Open(path string) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := openWithRetry(path, opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

func openWithRetry(path string, opts badger.Options) (*badger.DB, error) {
	db, err := badger.Open(opts)
	if err == nil {
		return db, nil
	}
	if !strings.Contains(err.Error(), "LOCK") {
		return nil, err
	}
	lockPath := filepath.Join(path, "LOCK")
	if rmErr := os.Remove(lockPath); rmErr != nil {
		return nil, ErrLocked
	}
	db, err = badger.Open(opts)
	if err != nil {
		return nil, ErrLocked
	}
	log.Println("store: cleared stale lock and reopened")
	return db, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get reads a single key. found is false (err is nil) when the key is
// absent: a missing key is not treated as an error, just an absent value.
func (s *Store) Get(key []byte) (value []byte, found bool, err error) {
	err = s.db.View(func(txn *badger.Txn) error {
		item, getErr := txn.Get(key)
		if errors.Is(getErr, badger.ErrKeyNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}
		found = true
		value, getErr = item.ValueCopy(nil)
		return getErr
	})
	return value, found, err
}

func (s *Store) put(key, value []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, value)
	})
}

func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// iteratePrefix walks [prefix:, prefix:\xFF] inclusive and returns every
// matching key/value pair.
func (s *Store) iteratePrefix(prefix string) (map[string][]byte, error) {
	results := make(map[string][]byte)
	end := prefixRangeEnd(prefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)
			if bytes.Compare(key, end) > 0 {
				break
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			results[string(key)] = val
		}
		return nil
	})
	return results, err
}

// SaveBlock performs a single atomic batch: the block: put, the height:
// put, every tx: put for the block's transactions, and the
// meta:chainLength put, all-or-nothing.
func (s *Store) SaveBlock(hash string, index int64, blockJSON []byte, txEntries map[string][]byte, chainLength int64) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(blockKey(hash), blockJSON); err != nil {
			return err
		}
		if err := txn.Set(heightKey(index), []byte(hash)); err != nil {
			return err
		}
		for txid, entry := range txEntries {
			if err := txn.Set(txKey(txid), entry); err != nil {
				return err
			}
		}
		return txn.Set([]byte(MetaChainLength), []byte(strconv.FormatInt(chainLength, 10)))
	})
}

// GetBlockJSON loads a block by hash.
func (s *Store) GetBlockJSON(hash string) ([]byte, bool, error) {
	return s.Get(blockKey(hash))
}

// GetBlockHashAtHeight resolves height: index -> block hash.
func (s *Store) GetBlockHashAtHeight(index int64) (string, bool, error) {
	val, found, err := s.Get(heightKey(index))
	return string(val), found, err
}

// LoadChainHashes reads height:0 ... height:chainLength-1 in order. If any
// entry is missing, it returns the shorter prefix actually present and
// logs; the caller decides whether that is corruption.
func (s *Store) LoadChainHashes(chainLength int64) ([]string, error) {
	hashes := make([]string, 0, chainLength)
	for i := int64(0); i < chainLength; i++ {
		hash, found, err := s.GetBlockHashAtHeight(i)
		if err != nil {
			return hashes, err
		}
		if !found {
			log.Printf("store: missing height:%d, returning chain prefix of length %d", i, len(hashes))
			return hashes, nil
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

// SavePending writes a single pending: entry.
func (s *Store) SavePending(txid string, txJSON []byte) error {
	return s.put(pendingKey(txid), txJSON)
}

// LoadPending returns every pending: entry, keyed by txid.
func (s *Store) LoadPending() (map[string][]byte, error) {
	raw, err := s.iteratePrefix(prefixPending)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(raw))
	for k, v := range raw {
		out[strings.TrimPrefix(k, prefixPending)] = v
	}
	return out, nil
}

// DeletePending removes a single pending: entry, used when a transaction
// is absorbed into an accepted block rather than mined locally.
func (s *Store) DeletePending(txid string) error {
	return s.delete(pendingKey(txid))
}

// ClearPending batch-deletes every pending: entry.
func (s *Store) ClearPending() error {
	raw, err := s.iteratePrefix(prefixPending)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for k := range raw {
			if err := txn.Delete([]byte(k)); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetMeta reads an integer meta value such as meta:chainLength.
func (s *Store) GetMeta(key string) (int64, bool, error) {
	val, found, err := s.Get([]byte(key))
	if err != nil || !found {
		return 0, found, err
	}
	n, convErr := strconv.ParseInt(string(val), 10, 64)
	if convErr != nil {
		return 0, true, fmt.Errorf("%w: meta %q: %v", ErrCorrupt, key, convErr)
	}
	return n, true, nil
}

// SetMeta writes an integer meta value.
func (s *Store) SetMeta(key string, value int64) error {
	return s.put([]byte(key), []byte(strconv.FormatInt(value, 10)))
}

// SaveContract writes a serialized contract.
func (s *Store) SaveContract(address string, contractJSON []byte) error {
	return s.put(contractKey(address), contractJSON)
}

// GetContract loads a serialized contract.
func (s *Store) GetContract(address string) ([]byte, bool, error) {
	return s.Get(contractKey(address))
}
