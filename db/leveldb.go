package db

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	ldbKeyPrefix   = "key/"
	ldbProofPrefix = "proof/"
	ldbSeqPrefix   = "seq/"
)

func dup(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}

// ldbConn is a wrapper around a base LevelDB database that handles batching
// writes between commits transparently.
type ldbConn struct {
	conn     *leveldb.DB
	readonly bool
	batch    map[string][]byte
}

func newLDBConn(conn *leveldb.DB, readonly bool) *ldbConn {
	return &ldbConn{conn, readonly, make(map[string][]byte)}
}

func (c *ldbConn) Get(key string) ([]byte, error) {
	if value, ok := c.batch[key]; ok {
		return dup(value), nil
	}
	return c.conn.Get([]byte(key), nil)
}

func (c *ldbConn) Put(key string, value []byte) {
	if c.readonly {
		panic("connection is readonly")
	}
	c.batch[key] = dup(value)
}

// Keys returns the sorted set of keys with the given prefix, merging batched
// writes with committed state.
func (c *ldbConn) Keys(prefix string) ([]string, error) {
	seen := make(map[string]struct{})

	iter := c.conn.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	for iter.Next() {
		seen[string(iter.Key())] = struct{}{}
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return nil, err
	}
	for key := range c.batch {
		if strings.HasPrefix(key, prefix) {
			seen[key] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out, nil
}

func (c *ldbConn) Commit() error {
	if c.readonly {
		panic("connection is readonly")
	}

	b := new(leveldb.Batch)
	for key, value := range c.batch {
		b.Put([]byte(key), value)
	}
	if err := c.conn.Write(b, nil); err != nil {
		return err
	}

	c.batch = make(map[string][]byte)
	return nil
}

// ldbKeyStore implements the KeyStore interface over a LevelDB database.
type ldbKeyStore struct {
	conn *ldbConn
}

// NewLDBKeyStore opens (or creates) a LevelDB-backed key store at the given
// path, recovering from a corrupted manifest if necessary.
func NewLDBKeyStore(file string) (KeyStore, error) {
	conn, err := leveldb.OpenFile(file, nil)
	if errors.IsCorrupted(err) {
		conn, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &ldbKeyStore{newLDBConn(conn, false)}, nil
}

func (ldb *ldbKeyStore) Clone() KeyStore {
	return &ldbKeyStore{newLDBConn(ldb.conn.conn, true)}
}

func (ldb *ldbKeyStore) GetKey(name string) (*KeyRecord, error) {
	raw, err := ldb.conn.Get(ldbKeyPrefix + name)
	if err == leveldb.ErrNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	rec := new(KeyRecord)
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("malformed key record: %w", err)
	}
	return rec, nil
}

func (ldb *ldbKeyStore) PutKey(rec *KeyRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("key record has no name")
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	ldb.conn.Put(ldbKeyPrefix+rec.Name, raw)
	return nil
}

func (ldb *ldbKeyStore) ListKeys() ([]string, error) {
	keys, err := ldb.conn.Keys(ldbKeyPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		out = append(out, strings.TrimPrefix(key, ldbKeyPrefix))
	}
	return out, nil
}

func (ldb *ldbKeyStore) nextSeq(key string) (uint64, error) {
	raw, err := ldb.conn.Get(ldbSeqPrefix + key)
	if err == leveldb.ErrNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	} else if len(raw) != 8 {
		return 0, fmt.Errorf("malformed sequence counter")
	}
	return binary.BigEndian.Uint64(raw), nil
}

func (ldb *ldbKeyStore) LogProof(rec *ProofRecord) error {
	if rec.Key == "" {
		return fmt.Errorf("proof record has no key name")
	}
	seq, err := ldb.nextSeq(rec.Key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	var suffix [8]byte
	binary.BigEndian.PutUint64(suffix[:], seq)
	ldb.conn.Put(ldbProofPrefix+rec.Key+"/"+string(suffix[:]), raw)

	binary.BigEndian.PutUint64(suffix[:], seq+1)
	ldb.conn.Put(ldbSeqPrefix+rec.Key, suffix[:])
	return nil
}

func (ldb *ldbKeyStore) Proofs(key string) ([]*ProofRecord, error) {
	names, err := ldb.conn.Keys(ldbProofPrefix + key + "/")
	if err != nil {
		return nil, err
	}
	out := make([]*ProofRecord, 0, len(names))
	for _, name := range names {
		raw, err := ldb.conn.Get(name)
		if err != nil {
			return nil, err
		}
		rec := new(ProofRecord)
		if err := json.Unmarshal(raw, rec); err != nil {
			return nil, fmt.Errorf("malformed proof record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (ldb *ldbKeyStore) Commit() error {
	return ldb.conn.Commit()
}
