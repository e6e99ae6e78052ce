package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
)

const (
	// ErrGASTransferFailed appears when the native GAS contract refuses
	// a transfer without raising its own exception.
	ErrGASTransferFailed = "GAS transfer failed"
	// ErrNEP17TransferFailed appears when a NEP-17 token returns false
	// from its transfer method.
	ErrNEP17TransferFailed = "NEP-17 transfer failed"
	// ErrNEP11TransferFailed appears when a NEP-11 token returns false
	// from its transfer method.
	ErrNEP11TransferFailed = "NEP-11 transfer failed"
	// ErrUnknownKind appears when a transfer instruction carries an
	// unsupported item kind.
	ErrUnknownKind = "unknown transfer item kind"
)

// PerformTransfer executes a single transfer instruction according to its
// kind. Token-side exceptions propagate as is, a false return value is
// translated into a kind-specific panic.
func PerformTransfer(tr ConduitTransfer) {
	switch tr.Kind {
	case KindNative:
		if !gas.Transfer(tr.From, tr.To, tr.Amount, nil) {
			panic(ErrGASTransferFailed)
		}
	case KindNEP17:
		if !contract.Call(tr.Token, "transfer", contract.All, tr.From, tr.To, tr.Amount, nil).(bool) {
			panic(ErrNEP17TransferFailed)
		}
	case KindNEP11:
		if !contract.Call(tr.Token, "transfer", contract.All, tr.To, tr.ID, nil).(bool) {
			panic(ErrNEP11TransferFailed)
		}
	case KindNEP11D:
		if !contract.Call(tr.Token, "transfer", contract.All, tr.From, tr.To, tr.Amount, tr.ID, nil).(bool) {
			panic(ErrNEP11TransferFailed)
		}
	default:
		panic(ErrUnknownKind)
	}
}
