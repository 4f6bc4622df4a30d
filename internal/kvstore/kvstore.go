// Package kvstore provides the flat string-keyed persistence layer that
// every other store in projector reads and writes through. Records are
// independently serialized JSON blobs; callers that find a missing or
// unparseable record fall back to their type's zero value rather than
// surfacing an error.
package kvstore

import "errors"

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("kvstore: store is closed")

// Store is the minimal key-value contract. Get reports ok=false when the
// key is absent; absence is not an error.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
	Close() error
}
