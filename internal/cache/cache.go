// Package cache implements a persistent, content-addressable store for
// compiled ByteCodeBlocks, the concrete expression of spec.md §9's remark
// that codegen output is "stable enough to be content-addressable and
// cached" (deterministic codegen, §8.2). Grounded on the teacher's direct
// dependency on modernc.org/sqlite (a pure-Go, cgo-free sqlite driver),
// repurposed here from funxy's evaluator builtins onto the compiler's own
// cache.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/larkscript/jsc/internal/bytecode"
)

const schema = `
CREATE TABLE IF NOT EXISTS bytecode_blocks (
	content_hash TEXT PRIMARY KEY,
	run_id       TEXT NOT NULL,
	payload      BLOB NOT NULL
);`

// Store is a sqlite-backed cache keyed by a content hash of (AST shape
// digest, CodeBlock flags). It is safe for concurrent use by multiple
// goroutines sharing one *Store, as database/sql pools its own connections.
type Store struct {
	db *sql.DB
}

// Open creates or attaches to the sqlite database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// entry is the gob-serialized payload stored per content hash.
type entry struct {
	Code                             []byte
	StringLiteralData                []string
	NumeralLiteralData                []float64
	PauseExtraData                    [][]byte
	MaxPauseStatementExtraDataLength int
	RequiredRegisterFileSizeInValueSize int
	ShouldClearStack                  bool
	NeedsExtendedExecutionState       bool
}

func toEntry(c *bytecode.Chunk) entry {
	return entry{
		Code:                                 c.Code,
		StringLiteralData:                    c.StringLiteralData,
		NumeralLiteralData:                   c.NumeralLiteralData,
		PauseExtraData:                       c.PauseExtraData,
		MaxPauseStatementExtraDataLength:     c.MaxPauseStatementExtraDataLength,
		RequiredRegisterFileSizeInValueSize:  c.RequiredRegisterFileSizeInValueSize,
		ShouldClearStack:                     c.ShouldClearStack,
		NeedsExtendedExecutionState:          c.NeedsExtendedExecutionState,
	}
}

func (e entry) toChunk() *bytecode.Chunk {
	c := bytecode.NewChunk()
	c.Code = e.Code
	c.StringLiteralData = e.StringLiteralData
	c.NumeralLiteralData = e.NumeralLiteralData
	c.PauseExtraData = e.PauseExtraData
	c.MaxPauseStatementExtraDataLength = e.MaxPauseStatementExtraDataLength
	c.RequiredRegisterFileSizeInValueSize = e.RequiredRegisterFileSizeInValueSize
	c.ShouldClearStack = e.ShouldClearStack
	c.NeedsExtendedExecutionState = e.NeedsExtendedExecutionState
	return c
}

// Put stores chunk under contentHash, tagged with runID for debug-hook
// correlation, overwriting any prior entry for the same hash (codegen is
// deterministic, so a collision means a re-compile of identical input).
func (s *Store) Put(contentHash, runID string, chunk *bytecode.Chunk) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(toEntry(chunk)); err != nil {
		return fmt.Errorf("cache: encode: %w", err)
	}
	_, err := s.db.Exec(
		`INSERT INTO bytecode_blocks (content_hash, run_id, payload) VALUES (?, ?, ?)
		 ON CONFLICT(content_hash) DO UPDATE SET run_id = excluded.run_id, payload = excluded.payload`,
		contentHash, runID, buf.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("cache: put %s: %w", contentHash, err)
	}
	return nil
}

// Get looks up a previously cached ByteCodeBlock by content hash.
func (s *Store) Get(contentHash string) (*bytecode.Chunk, bool, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM bytecode_blocks WHERE content_hash = ?`, contentHash).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: get %s: %w", contentHash, err)
	}
	var e entry
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("cache: decode %s: %w", contentHash, err)
	}
	return e.toChunk(), true, nil
}
