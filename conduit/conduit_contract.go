package conduitcontract

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/conduit-contract/common"
)

// Conduit is a single conduit instance hosted by the contract, addressed by
// the identity derived from its key. Key doubles as the existence flag.
type Conduit struct {
	Key   []byte
	Owner interop.Hash160
}

const (
	registryContractKey = "registryScriptHash"

	errNotRegistry = "caller is not the conduit registry"
	errNoConduit   = "conduit does not exist"
	errExists      = "conduit already exists"
	errNotChannel  = "execute: caller is neither owner nor an open channel"
)

// Storage prefixes used for contract data.
const (
	// prefixConduit contains map from conduit identity to the serialized
	// Conduit structure.
	prefixConduit byte = 0x01
	// prefixChannel contains map from (conduit identity + channel address)
	// to an open flag.
	prefixChannel byte = 0x02
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]interface{})
	addrRegistry := args[0].(interop.Hash160)
	if len(addrRegistry) != interop.Hash160Len {
		panic("init: incorrect length of registry script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, registryContractKey, addrRegistry)

	runtime.Log("conduit contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("conduit contract updated")
}

// Put creates a conduit instance under the given identity. Can be invoked
// only by the registry which is trusted to have derived the identity from
// the key and verified the creator.
func Put(id interop.Hash160, key []byte, owner interop.Hash160) {
	ctx := storage.GetContext()
	checkRegistryCaller(ctx)

	if len(id) != interop.Hash160Len {
		panic("put: incorrect conduit identity length")
	}
	if len(owner) != interop.Hash160Len {
		panic("put: incorrect owner length")
	}
	if storage.Get(ctx, conduitStorageKey(id)) != nil {
		panic(errExists)
	}

	common.SetSerialized(ctx, conduitStorageKey(id), Conduit{Key: key, Owner: owner})
	runtime.Log("put: conduit instance created")
}

// Exists returns true if a conduit instance occupies the given identity.
// It is the existence predicate backing registry's pre-deployment checks.
func Exists(id interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, conduitStorageKey(id)) != nil
}

// UpdateChannel opens or closes a channel of the conduit. Can be invoked
// only by the registry on behalf of the current conduit owner.
func UpdateChannel(id interop.Hash160, channel interop.Hash160, isOpen bool) {
	ctx := storage.GetContext()
	checkRegistryCaller(ctx)
	getConduit(ctx, id)

	if isOpen {
		storage.Put(ctx, channelStorageKey(id, channel), []byte{1})
	} else {
		storage.Delete(ctx, channelStorageKey(id, channel))
	}
}

// UpdateOwner replaces the conduit owner. Can be invoked only by the
// registry when the two-step ownership transfer completes.
func UpdateOwner(id interop.Hash160, owner interop.Hash160) {
	ctx := storage.GetContext()
	checkRegistryCaller(ctx)

	c := getConduit(ctx, id)
	c.Owner = owner
	common.SetSerialized(ctx, conduitStorageKey(id), c)
}

// IsOpen returns true if the channel is currently open on the conduit.
func IsOpen(id interop.Hash160, channel interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	getConduit(ctx, id)
	return storage.Get(ctx, channelStorageKey(id, channel)) != nil
}

// OwnerOf returns the current owner of the conduit instance.
func OwnerOf(id interop.Hash160) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getConduit(ctx, id).Owner
}

// Execute performs the ordered batch of transfer instructions on behalf of
// the conduit. The caller must be the conduit owner or an open channel.
// Returns ExecuteAck which callers must verify.
func Execute(id interop.Hash160, transfers []common.ConduitTransfer) int {
	ctx := storage.GetReadOnlyContext()
	c := getConduit(ctx, id)

	if !canExecute(ctx, id, c) {
		panic(errNotChannel)
	}

	for i := 0; i < len(transfers); i++ {
		common.PerformTransfer(transfers[i])
	}

	return common.ExecuteAck
}

// Registry returns the script hash of the registry contract.
func Registry() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return interop.Hash160(storage.Get(ctx, registryContractKey).([]byte))
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

// canExecute reports whether the current invocation is authorized to move
// assets through the conduit: either the owner witnessed it, or it came from
// an open channel (a calling contract directly, or a signing account found
// in the channel set).
func canExecute(ctx storage.Context, id interop.Hash160, c Conduit) bool {
	if runtime.CheckWitness(c.Owner) {
		return true
	}

	caller := runtime.GetCallingScriptHash()
	if storage.Get(ctx, channelStorageKey(id, caller)) != nil {
		return true
	}

	it := storage.Find(ctx, append([]byte{prefixChannel}, id...), storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		channel := iterator.Value(it).([]byte)
		if runtime.CheckWitness(channel) {
			return true
		}
	}

	return false
}

func checkRegistryCaller(ctx storage.Context) {
	if !common.FromKnownContract(ctx, runtime.GetCallingScriptHash(), registryContractKey) {
		panic(errNotRegistry)
	}
}

func getConduit(ctx storage.Context, id interop.Hash160) Conduit {
	data := storage.Get(ctx, conduitStorageKey(id))
	if data == nil {
		panic(errNoConduit)
	}
	return std.Deserialize(data.([]byte)).(Conduit)
}

func conduitStorageKey(id interop.Hash160) []byte {
	return append([]byte{prefixConduit}, id...)
}

func channelStorageKey(id interop.Hash160, channel interop.Hash160) []byte {
	key := append([]byte{prefixChannel}, id...)
	return append(key, channel...)
}
