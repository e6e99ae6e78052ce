package nep17token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// TransferRecord is an entry of the transfer log the token keeps for test
// assertions on ordering and provenance of incoming transfer calls. Caller is
// the script hash of the contract that invoked the transfer.
type TransferRecord struct {
	Caller interop.Hash160
	From   interop.Hash160
	To     interop.Hash160
	Amount int
}

const (
	balancePrefix  = 'b'
	operatorPrefix = 'o'
	logKey         = "transferLog"
)

func Mint(to interop.Hash160, amount int) {
	addToBalance(storage.GetContext(), to, amount)
}

func BalanceOf(owner interop.Hash160) int {
	return balance(storage.GetReadOnlyContext(), owner)
}

// SetOperator allows the given contract to move anyone's tokens, standing in
// for a per-owner NEP-17 allowance.
func SetOperator(operator interop.Hash160) {
	storage.Put(storage.GetContext(), append([]byte{operatorPrefix}, operator...), []byte{1})
}

func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if amount < 0 {
		panic("negative amount")
	}
	ctx := storage.GetContext()
	if !runtime.CheckWitness(from) && !isOperator(ctx, runtime.GetCallingScriptHash()) {
		return false
	}
	if balance(ctx, from) < amount {
		return false
	}
	addToBalance(ctx, from, -amount)
	addToBalance(ctx, to, amount)
	appendLog(ctx, TransferRecord{Caller: runtime.GetCallingScriptHash(), From: from, To: to, Amount: amount})
	runtime.Notify("Transfer", from, to, amount)
	return true
}

func TransferLog() []TransferRecord {
	return getLog(storage.GetReadOnlyContext())
}

func balance(ctx storage.Context, owner interop.Hash160) int {
	val := storage.Get(ctx, append([]byte{balancePrefix}, owner...))
	if val == nil {
		return 0
	}
	return val.(int)
}

func addToBalance(ctx storage.Context, owner interop.Hash160, delta int) {
	storage.Put(ctx, append([]byte{balancePrefix}, owner...), balance(ctx, owner)+delta)
}

func isOperator(ctx storage.Context, caller interop.Hash160) bool {
	return storage.Get(ctx, append([]byte{operatorPrefix}, caller...)) != nil
}

func appendLog(ctx storage.Context, r TransferRecord) {
	log := getLog(ctx)
	log = append(log, r)
	storage.Put(ctx, logKey, std.Serialize(log))
}

func getLog(ctx storage.Context) []TransferRecord {
	val := storage.Get(ctx, logKey)
	if val == nil {
		return []TransferRecord{}
	}
	return std.Deserialize(val.([]byte)).([]TransferRecord)
}
