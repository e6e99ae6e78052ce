package nep11dtoken

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// TransferRecord is an entry of the transfer log the token keeps for test
// assertions on ordering of incoming transfer calls.
type TransferRecord struct {
	From   interop.Hash160
	To     interop.Hash160
	ID     []byte
	Amount int
}

const (
	balancePrefix  = 'b'
	operatorPrefix = 'o'
	logKey         = "transferLog"
)

func Mint(owner interop.Hash160, id []byte, amount int) {
	addToBalance(storage.GetContext(), owner, id, amount)
}

func BalanceOf(owner interop.Hash160, id []byte) int {
	return balance(storage.GetReadOnlyContext(), owner, id)
}

// SetOperator allows the given contract to move anyone's tokens.
func SetOperator(operator interop.Hash160) {
	storage.Put(storage.GetContext(), append([]byte{operatorPrefix}, operator...), []byte{1})
}

func Transfer(from, to interop.Hash160, amount int, id []byte, data any) bool {
	if amount < 0 {
		panic("negative amount")
	}
	ctx := storage.GetContext()
	if !runtime.CheckWitness(from) && !isOperator(ctx, runtime.GetCallingScriptHash()) {
		return false
	}
	if balance(ctx, from, id) < amount {
		return false
	}
	addToBalance(ctx, from, id, -amount)
	addToBalance(ctx, to, id, amount)
	appendLog(ctx, TransferRecord{From: from, To: to, ID: id, Amount: amount})
	runtime.Notify("Transfer", from, to, amount, id)
	return true
}

func TransferLog() []TransferRecord {
	return getLog(storage.GetReadOnlyContext())
}

func balanceKey(owner interop.Hash160, id []byte) []byte {
	return append(append([]byte{balancePrefix}, owner...), id...)
}

func balance(ctx storage.Context, owner interop.Hash160, id []byte) int {
	val := storage.Get(ctx, balanceKey(owner, id))
	if val == nil {
		return 0
	}
	return val.(int)
}

func addToBalance(ctx storage.Context, owner interop.Hash160, id []byte, delta int) {
	storage.Put(ctx, balanceKey(owner, id), balance(ctx, owner, id)+delta)
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
