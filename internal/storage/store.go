// Package storage provides the client-local durable store the snapshot
// layer writes to. A Store holds opaque byte values under fixed string
// keys; the whole serialized database lives under a single key and is
// overwritten wholesale on every save.
package storage

// Store is a durable key/value blob store.
//
// Implementations must treat values as opaque and replace them atomically
// enough that a Get never observes a mix of two Puts within one process
// lifetime. No cross-process locking is required: the store has exactly
// one writer.
type Store interface {
	// Put writes data under key, replacing any previous value.
	Put(key string, data []byte) error

	// Get returns the value stored under key. The second return is false
	// when the key has never been written (not an error).
	Get(key string) ([]byte, bool, error)

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}
