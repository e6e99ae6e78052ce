package nep11token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// TransferRecord is an entry of the transfer log the token keeps for test
// assertions on ordering of incoming transfer calls.
type TransferRecord struct {
	From interop.Hash160
	To   interop.Hash160
	ID   []byte
}

const (
	tokenPrefix    = 't'
	operatorPrefix = 'o'
	logKey         = "transferLog"
)

func Mint(owner interop.Hash160, id []byte) {
	storage.Put(storage.GetContext(), append([]byte{tokenPrefix}, id...), owner)
}

func OwnerOf(id []byte) interop.Hash160 {
	return ownerOf(storage.GetReadOnlyContext(), id)
}

// SetOperator allows the given contract to move anyone's tokens.
func SetOperator(operator interop.Hash160) {
	storage.Put(storage.GetContext(), append([]byte{operatorPrefix}, operator...), []byte{1})
}

func Transfer(to interop.Hash160, id []byte, data any) bool {
	ctx := storage.GetContext()
	owner := ownerOf(ctx, id)
	if !runtime.CheckWitness(owner) && !isOperator(ctx, runtime.GetCallingScriptHash()) {
		return false
	}
	storage.Put(ctx, append([]byte{tokenPrefix}, id...), to)
	appendLog(ctx, TransferRecord{From: owner, To: to, ID: id})
	runtime.Notify("Transfer", owner, to, 1, id)
	return true
}

func TransferLog() []TransferRecord {
	return getLog(storage.GetReadOnlyContext())
}

func ownerOf(ctx storage.Context, id []byte) interop.Hash160 {
	val := storage.Get(ctx, append([]byte{tokenPrefix}, id...))
	if val == nil {
		panic("unknown token")
	}
	return interop.Hash160(val.([]byte))
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
