package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// BytesEqual compares two slices of bytes by wrapping them into strings.
func BytesEqual(a []byte, b []byte) bool {
	return string(a) == string(b)
}

// FromKnownContract returns true if caller is a script hash stored under
// the key in the contract storage.
func FromKnownContract(ctx storage.Context, caller interop.Hash160, key string) bool {
	addr := storage.Get(ctx, key).(interop.Hash160)
	return BytesEqual(caller, addr)
}
