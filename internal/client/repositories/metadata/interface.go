// Package metadata is the client's local slot store: small named blobs kept
// between runs, the mirrored entry list being the main one.
package metadata

import (
	"context"
)

// Repository stores one byte value per slot name.
//
// Get returns common.ErrorNotFound for an empty slot. Put overwrites.
// Move renames a slot, replacing whatever the destination held; moving an
// empty slot is common.ErrorNotFound. Delete of an empty slot is a no-op.
type Repository interface {
	Get(ctx context.Context, slot string) ([]byte, error)
	Put(ctx context.Context, slot string, value []byte) error
	Move(ctx context.Context, from, to string) error
	Delete(ctx context.Context, slot string) error
}
