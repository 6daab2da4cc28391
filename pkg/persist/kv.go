// Package persist stores forms, drafts, submissions, templates and the
// theme choice behind a small key-value contract with memory and SQLite
// backends.
package persist

import "errors"

// ErrKeyNotFound is returned by Store.Get for keys with no value.
var ErrKeyNotFound = errors.New("persist: key not found")

// Store is the key-value contract the Gateway is built on. Values are
// opaque bytes; the Gateway layers JSON on top.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
	List(prefix string) ([]string, error)
	Close() error
}
