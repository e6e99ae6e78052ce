package executorcontract

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/conduit-contract/amount"
	"github.com/nspcc-dev/conduit-contract/common"
)

type (
	// RoutedTransfer is a transfer request of the settlement layer: a
	// transfer instruction plus the key of the conduit to route it through.
	// Empty ConduitKey routes the transfer directly.
	RoutedTransfer struct {
		ConduitKey []byte
		Kind       int
		Token      interop.Hash160
		From       interop.Hash160
		To         interop.Hash160
		ID         []byte
		Amount     int
	}

	// accumulator buffers transfer instructions of one conduit within a
	// single invocation. It lives on the invocation stack only and is
	// threaded through the call chain as a value, never stored.
	accumulator struct {
		armed bool
		key   []byte
		items []common.ConduitTransfer
	}
)

const (
	registryContractKey = "registryScriptHash"
	conduitContractKey  = "conduitScriptHash"
	settlementKey       = "settlementAddress"

	errNotSettlement = "caller is not the settlement layer"
	errUnusedParams  = "unused item parameters"
	errZeroAmount    = "zero transfer amount"
	errNEP11Amount   = "invalid NEP-11 transfer amount"
	errConduitAck    = "unexpected conduit acknowledgement"
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]interface{})
	addrRegistry := args[0].(interop.Hash160)
	addrConduit := args[1].(interop.Hash160)
	settlement := args[2].(interop.Hash160)
	if len(addrRegistry) != interop.Hash160Len || len(addrConduit) != interop.Hash160Len {
		panic("init: incorrect length of contract script hash")
	}
	if len(settlement) != interop.Hash160Len {
		panic("init: incorrect length of settlement address")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, registryContractKey, addrRegistry)
	storage.Put(ctx, conduitContractKey, addrConduit)
	storage.Put(ctx, settlementKey, settlement)

	runtime.Log("executor contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("executor contract updated")
}

// Transfer performs a single transfer. Can be invoked only by the settlement
// layer which is trusted to have authorized the movement. Empty conduit key
// routes the transfer directly into the token, otherwise the transfer is
// executed by the conduit derived from the key.
func Transfer(tr RoutedTransfer) {
	ctx := storage.GetReadOnlyContext()
	checkSettlement(ctx)

	if len(tr.ConduitKey) == 0 {
		transferDirect(tr)
		return
	}

	conduitExecute(ctx, tr.ConduitKey, []common.ConduitTransfer{conduitTransfer(tr)})
}

// Execute performs an ordered sequence of transfers. Can be invoked only by
// the settlement layer. Transfers sharing a conduit key are coalesced into a
// single conduit invocation issued when the run of that key ends, so the
// executor makes at most one conduit call per distinct key run. Direct
// transfers flush the pending batch first, keeping the order of effects
// consistent with the order of requests.
func Execute(transfers []RoutedTransfer) {
	ctx := storage.GetReadOnlyContext()
	checkSettlement(ctx)

	var acc accumulator
	for i := 0; i < len(transfers); i++ {
		tr := transfers[i]
		if len(tr.ConduitKey) == 0 {
			acc = flush(ctx, acc)
			transferDirect(tr)
		} else {
			acc = accumulate(ctx, acc, tr)
		}
	}
	flush(ctx, acc)
}

// DeriveAmount interpolates the transfer amount of a time-priced order item
// at the current block time. The caller guarantees that the validity window
// of the order covers the current block time.
func DeriveAmount(startAmount, endAmount, startTime, endTime int, roundUp bool) int {
	return amount.Interpolate(startAmount, endAmount, startTime, endTime, runtime.GetTime(), roundUp)
}

// Fraction scales value by numerator/denominator, failing unless the result
// is exact.
func Fraction(numerator, denominator, value int) int {
	return amount.Fraction(numerator, denominator, value)
}

// ApplyFraction scales the endpoints of an amount window for a partial fill
// and interpolates between them at the current block time.
func ApplyFraction(startAmount, endAmount, numerator, denominator, startTime, endTime int, roundUp bool) int {
	return amount.ApplyFraction(startAmount, endAmount, numerator, denominator,
		startTime, endTime, runtime.GetTime(), roundUp)
}

// Registry returns the script hash of the registry contract.
func Registry() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return interop.Hash160(storage.Get(ctx, registryContractKey).([]byte))
}

// Conduit returns the script hash of the Conduit contract.
func Conduit() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return interop.Hash160(storage.Get(ctx, conduitContractKey).([]byte))
}

// Settlement returns the address of the settlement layer served by the
// executor.
func Settlement() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return interop.Hash160(storage.Get(ctx, settlementKey).([]byte))
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

// transferDirect routes the transfer into the token by item kind after
// kind-specific parameter hygiene checks. Conduit-routed transfers skip
// these checks, the conduit applies its own rules.
func transferDirect(tr RoutedTransfer) {
	switch tr.Kind {
	case common.KindNative:
		if len(tr.Token) != 0 || len(tr.ID) != 0 {
			panic(errUnusedParams)
		}
	case common.KindNEP17:
		if len(tr.ID) != 0 {
			panic(errUnusedParams)
		}
		if tr.Amount == 0 {
			panic(errZeroAmount)
		}
	case common.KindNEP11:
		if tr.Amount != 1 {
			panic(errNEP11Amount)
		}
	case common.KindNEP11D:
		if tr.Amount == 0 {
			panic(errZeroAmount)
		}
	default:
		panic(common.ErrUnknownKind)
	}

	common.PerformTransfer(conduitTransfer(tr))
}

// accumulate queues the transfer for its conduit, flushing the pending batch
// first if it was armed for a different key.
func accumulate(ctx storage.Context, acc accumulator, tr RoutedTransfer) accumulator {
	if acc.armed && !common.BytesEqual(acc.key, tr.ConduitKey) {
		acc = flush(ctx, acc)
	}
	if !acc.armed {
		acc.armed = true
		acc.key = tr.ConduitKey
		acc.items = []common.ConduitTransfer{}
	}

	acc.items = append(acc.items, conduitTransfer(tr))
	return acc
}

// flush issues the batched conduit call and disarms the accumulator. No-op
// if the accumulator is disarmed.
func flush(ctx storage.Context, acc accumulator) accumulator {
	if !acc.armed {
		return acc
	}

	conduitExecute(ctx, acc.key, acc.items)

	acc.armed = false
	acc.key = nil
	acc.items = nil
	return acc
}

// conduitExecute resolves the conduit identity for the key and invokes the
// conduit with the batch. Conduit-side failures propagate as is, a call that
// succeeds without returning the expected acknowledgement panics.
func conduitExecute(ctx storage.Context, key []byte, items []common.ConduitTransfer) {
	conduitContract := storage.Get(ctx, conduitContractKey).(interop.Hash160)
	registry := storage.Get(ctx, registryContractKey).(interop.Hash160)
	id := common.DeriveConduitID(registry, key, conduitContract)

	if contract.Call(conduitContract, "execute", contract.All, id, items).(int) != common.ExecuteAck {
		panic(errConduitAck)
	}
}

func conduitTransfer(tr RoutedTransfer) common.ConduitTransfer {
	return common.ConduitTransfer{
		Kind:   tr.Kind,
		Token:  tr.Token,
		From:   tr.From,
		To:     tr.To,
		ID:     tr.ID,
		Amount: tr.Amount,
	}
}

func checkSettlement(ctx storage.Context) {
	settlement := storage.Get(ctx, settlementKey).(interop.Hash160)
	if !runtime.CheckWitness(settlement) {
		panic(errNotSettlement)
	}
}
