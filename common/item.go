package common

import "github.com/nspcc-dev/neo-go/pkg/interop"

// Transfer item kinds understood by the Conduit and Executor contracts.
const (
	// KindNative moves native GAS.
	KindNative = iota
	// KindNEP17 moves a fungible NEP-17 token.
	KindNEP17
	// KindNEP11 moves a non-divisible NEP-11 token.
	KindNEP11
	// KindNEP11D moves a part of a divisible NEP-11 token.
	KindNEP11D
)

// ExecuteAck is the value the Conduit contract returns from a successful
// execute invocation. Callers must check both call success and this value.
const ExecuteAck = 0x434e4454 // "CNDT"

// ConduitTransfer is a single transfer instruction executed by a conduit.
// Token is empty for KindNative, ID is empty for KindNative and KindNEP17.
type ConduitTransfer struct {
	Kind   int
	Token  interop.Hash160
	From   interop.Hash160
	To     interop.Hash160
	ID     []byte
	Amount int
}
