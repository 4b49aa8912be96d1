package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidPath = errors.New("invalid document path")
	ErrInvalidJSON = errors.New("invalid JSON document")
)

// DocumentStore is a key/value store for scalar strings and JSON documents.
// RedisStore, PostgresStore, SQLiteStore and MemoryStore implement it.
type DocumentStore interface {
	// Connection management
	Close() error
	Ping(ctx context.Context) error
	Backend() string

	// Scalar strings
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string) error
	// SetStringIfAbsent stores value only if key has no value yet and
	// reports whether it did. At most one concurrent caller wins.
	SetStringIfAbsent(ctx context.Context, key, value string) (bool, error)

	// JSON documents
	GetJSON(ctx context.Context, key string, path Path) (json.RawMessage, error)
	SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) error
}

// Path selects a document or one element of a top-level array, in JSONPath
// notation.
type Path string

// Root selects the whole document.
const Root Path = "$"

// Index selects element i of a top-level array. i must not be negative.
func Index(i int) Path {
	return Path("$[" + strconv.Itoa(i) + "]")
}

// arrayIndex returns the element index selected by p, or -1 for Root.
func (p Path) arrayIndex() (int, error) {
	if p == Root {
		return -1, nil
	}
	s := string(p)
	if !strings.HasPrefix(s, "$[") || !strings.HasSuffix(s, "]") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	i, err := strconv.Atoi(s[2 : len(s)-1])
	if err != nil || i < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	return i, nil
}

// SecretKey returns the key holding an agent's secret.
func SecretKey(agentName string) string {
	return fmt.Sprintf("escaperooms/%s/:secretKey", agentName)
}

// RoomKey returns the key holding an agent's room document.
func RoomKey(agentName string) string {
	return fmt.Sprintf("escaperooms/%s/room/", agentName)
}

// elementAt returns element i of a JSON array document.
func elementAt(doc json.RawMessage, i int) (json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(doc, &elems); err != nil {
		// Not an array: the path matches nothing.
		return nil, ErrNotFound
	}
	if i >= len(elems) {
		return nil, ErrNotFound
	}
	return elems[i], nil
}

// replaceAt returns doc with element i replaced by value.
func replaceAt(doc json.RawMessage, i int, value json.RawMessage) (json.RawMessage, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(doc, &elems); err != nil {
		return nil, ErrNotFound
	}
	if i >= len(elems) {
		return nil, ErrNotFound
	}
	elems[i] = value
	return json.Marshal(elems)
}
