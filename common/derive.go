package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
)

const (
	// conduitTag is a fixed prefix byte of the conduit identity preimage.
	// It separates conduit identities from other hash domains used on chain.
	conduitTag = 0xff

	// ConduitKeyLen is the length of a conduit key in bytes. First 20 bytes
	// of the key must be the script hash of the account creating the conduit.
	ConduitKeyLen = 32
)

// DeriveConduitID computes deterministic conduit identity from the registry
// address, conduit key and the code fingerprint of the Conduit contract.
// It is a pure function: identical inputs always produce identical identity,
// before and after the conduit is actually spawned.
func DeriveConduitID(registry interop.Hash160, key []byte, codeHash interop.Hash160) interop.Hash160 {
	data := []byte{conduitTag}
	data = append(data, registry...)
	data = append(data, key...)
	data = append(data, codeHash...)
	return crypto.Ripemd160([]byte(crypto.Sha256(data)))
}
