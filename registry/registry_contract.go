package registrycontract

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

type (
	// ConduitRecord stores metadata of a deployed conduit. Key doubles as
	// the existence flag: a record with an empty key does not exist. Key is
	// immutable once set and uniquely determines the conduit identity.
	ConduitRecord struct {
		Key          []byte
		Owner        interop.Hash160
		PendingOwner interop.Hash160
	}

	// ConduitState is a re-derived conduit identity paired with the result
	// of the existence check.
	ConduitState struct {
		ID     interop.Hash160
		Exists bool
	}
)

const (
	conduitContractKey = "conduitScriptHash"

	errNoConduit      = "conduit does not exist"
	errInvalidOwner   = "create: invalid initial owner"
	errInvalidCreator = "create: invalid creator"
	errAlreadyExists  = "create: conduit already exists"
	errKeyLength      = "incorrect conduit key length"
	errChannelLength  = "incorrect channel address length"
	errEmptyPending   = "transferOwnership: empty new potential owner"
	errPendingSet     = "transferOwnership: new potential owner already set"
	errNoPending      = "cancelOwnershipTransfer: no potential owner set"
	errNotPending     = "acceptOwnership: caller is not the new potential owner"
	errChannelRange   = "channel index out of range"
)

// Storage prefixes used for contract data.
const (
	// prefixRecord contains map from conduit identity to the serialized
	// ConduitRecord structure.
	prefixRecord byte = 0x01
	// prefixChannelCount contains map from conduit identity to the number
	// of currently open channels.
	prefixChannelCount byte = 0x02
	// prefixChannelByIndex contains map from (conduit identity + 0-based
	// position) to the channel address at that position.
	prefixChannelByIndex byte = 0x03
	// prefixChannelIndex contains map from (conduit identity + channel
	// address) to 1-based position in the channel sequence, 0 (missing
	// entry) meaning "not open". For every tracked channel c at position i
	// the contract maintains channelIndex[c] == i+1.
	prefixChannelIndex byte = 0x04
)

func _deploy(data interface{}, isUpdate bool) {
	if isUpdate {
		args := data.([]interface{})
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.([]interface{})
	addrConduit := args[0].(interop.Hash160)
	if len(addrConduit) != interop.Hash160Len {
		panic("init: incorrect length of conduit script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, conduitContractKey, addrConduit)

	runtime.Log("conduit registry contract initialized")
}

// Update method updates contract source code and manifest. Can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data interface{}) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("conduit registry contract updated")
}

// Create deploys a new conduit for the given key. First 20 bytes of the key
// must be the script hash of the invoking account, which makes keys
// self-certifying. The conduit identity is derived deterministically, so it
// can be predicted with GetConduit before Create is ever called. Initial
// owner of the conduit is set to initialOwner.
//
// Produces NewConduit and OwnershipTransferred notifications.
func Create(key []byte, initialOwner interop.Hash160) interop.Hash160 {
	if len(key) != common.ConduitKeyLen {
		panic("create: " + errKeyLength)
	}
	if len(initialOwner) != interop.Hash160Len {
		panic(errInvalidOwner)
	}

	creator := key[:interop.Hash160Len]
	if !runtime.CheckWitness(creator) {
		panic(errInvalidCreator)
	}

	ctx := storage.GetContext()
	conduitContract := conduitContractAddress(ctx)
	id := common.DeriveConduitID(runtime.GetExecutingScriptHash(), key, conduitContract)

	// The existence predicate is evaluated on the Conduit side rather than
	// via the local record: the record is only populated after this check.
	if contract.Call(conduitContract, "exists", contract.ReadOnly, id).(bool) {
		panic(errAlreadyExists)
	}

	contract.Call(conduitContract, "put", contract.All, id, key, initialOwner)

	common.SetSerialized(ctx, recordStorageKey(id), ConduitRecord{
		Key:   key,
		Owner: initialOwner,
	})

	runtime.Notify("NewConduit", id, key)
	runtime.Notify("OwnershipTransferred", id, interop.Hash160(nil), initialOwner)
	runtime.Log("create: new conduit deployed")

	return id
}

// UpdateChannel opens or closes a channel of the conduit. Can be invoked
// only by the current conduit owner. The instruction is first forwarded to
// the Conduit contract so that it can update its own caller check, then the
// local channel sequence and reverse index are maintained with
// swap-with-last removal. Opening an already open channel and closing an
// already closed one are no-ops.
//
// Produces ChannelUpdated notification.
func UpdateChannel(id interop.Hash160, channel interop.Hash160, isOpen bool) {
	ctx := storage.GetContext()
	rec := getRecord(ctx, id)
	common.CheckOwnerWitness(rec.Owner)

	if len(channel) != interop.Hash160Len {
		panic("updateChannel: " + errChannelLength)
	}

	idx := channelIndex(ctx, id, channel)
	if isOpen == (idx > 0) {
		return
	}

	contract.Call(conduitContractAddress(ctx), "updateChannel", contract.All, id, channel, isOpen)

	count := channelCount(ctx, id)
	if isOpen {
		storage.Put(ctx, channelByIndexStorageKey(id, count), channel)
		storage.Put(ctx, channelIndexStorageKey(id, channel), count+1)
		storage.Put(ctx, channelCountStorageKey(id), count+1)
	} else {
		if idx != count {
			last := storage.Get(ctx, channelByIndexStorageKey(id, count-1)).(interop.Hash160)
			storage.Put(ctx, channelByIndexStorageKey(id, idx-1), last)
			storage.Put(ctx, channelIndexStorageKey(id, last), idx)
		}
		storage.Delete(ctx, channelByIndexStorageKey(id, count-1))
		storage.Delete(ctx, channelIndexStorageKey(id, channel))
		storage.Put(ctx, channelCountStorageKey(id), count-1)
	}

	runtime.Notify("ChannelUpdated", id, channel, isOpen)
}

// TransferOwnership starts the two-step ownership transfer of the conduit.
// Can be invoked only by the current conduit owner. Current owner keeps all
// rights until the new potential owner accepts.
//
// Produces PotentialOwnerUpdated notification.
func TransferOwnership(id interop.Hash160, newPotentialOwner interop.Hash160) {
	ctx := storage.GetContext()
	rec := getRecord(ctx, id)
	common.CheckOwnerWitness(rec.Owner)

	if len(newPotentialOwner) != interop.Hash160Len {
		panic(errEmptyPending)
	}
	if common.BytesEqual(rec.PendingOwner, newPotentialOwner) {
		panic(errPendingSet)
	}

	rec.PendingOwner = newPotentialOwner
	common.SetSerialized(ctx, recordStorageKey(id), rec)

	runtime.Notify("PotentialOwnerUpdated", id, newPotentialOwner)
}

// CancelOwnershipTransfer clears the pending ownership transfer without
// changing the current owner. Can be invoked only by the current conduit
// owner.
//
// Produces PotentialOwnerUpdated notification.
func CancelOwnershipTransfer(id interop.Hash160) {
	ctx := storage.GetContext()
	rec := getRecord(ctx, id)
	common.CheckOwnerWitness(rec.Owner)

	if len(rec.PendingOwner) == 0 {
		panic(errNoPending)
	}

	rec.PendingOwner = nil
	common.SetSerialized(ctx, recordStorageKey(id), rec)

	runtime.Notify("PotentialOwnerUpdated", id, interop.Hash160(nil))
}

// AcceptOwnership completes the two-step ownership transfer. Can be invoked
// only by the account last set via TransferOwnership. The new owner is
// forwarded to the Conduit contract.
//
// Produces OwnershipTransferred notification.
func AcceptOwnership(id interop.Hash160) {
	ctx := storage.GetContext()
	rec := getRecord(ctx, id)

	if len(rec.PendingOwner) == 0 || !runtime.CheckWitness(rec.PendingOwner) {
		panic(errNotPending)
	}

	prevOwner := rec.Owner
	rec.Owner = rec.PendingOwner
	rec.PendingOwner = nil
	common.SetSerialized(ctx, recordStorageKey(id), rec)

	contract.Call(conduitContractAddress(ctx), "updateOwner", contract.All, id, rec.Owner)

	runtime.Notify("OwnershipTransferred", id, prevOwner, rec.Owner)
}

// OwnerOf returns the current owner of the conduit.
func OwnerOf(id interop.Hash160) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getRecord(ctx, id).Owner
}

// GetKey returns the conduit key the conduit was deployed with.
func GetKey(id interop.Hash160) []byte {
	ctx := storage.GetReadOnlyContext()
	return getRecord(ctx, id).Key
}

// GetPotentialOwner returns the pending owner of the conduit or an empty
// value if no ownership transfer is in progress.
func GetPotentialOwner(id interop.Hash160) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return getRecord(ctx, id).PendingOwner
}

// GetChannelStatus returns true if the channel is currently open on the
// conduit.
func GetChannelStatus(id interop.Hash160, channel interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	getRecord(ctx, id)
	return channelIndex(ctx, id, channel) > 0
}

// GetTotalChannels returns the number of currently open channels of the
// conduit.
func GetTotalChannels(id interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	getRecord(ctx, id)
	return channelCount(ctx, id)
}

// GetChannel returns the open channel at the given 0-based position. The
// order of channels is not significant and changes on removal.
func GetChannel(id interop.Hash160, index int) interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	getRecord(ctx, id)

	if index < 0 || index >= channelCount(ctx, id) {
		panic(errChannelRange)
	}

	return interop.Hash160(storage.Get(ctx, channelByIndexStorageKey(id, index)).([]byte))
}

// GetChannels returns all currently open channels of the conduit.
func GetChannels(id interop.Hash160) []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	getRecord(ctx, id)

	count := channelCount(ctx, id)
	channels := []interop.Hash160{}
	for i := 0; i < count; i++ {
		channel := interop.Hash160(storage.Get(ctx, channelByIndexStorageKey(id, i)).([]byte))
		channels = append(channels, channel)
	}

	return channels
}

// GetConduit re-derives the conduit identity for the key and evaluates the
// existence predicate. It never touches the local record, so the identity
// can be queried before the conduit is deployed.
func GetConduit(key []byte) ConduitState {
	if len(key) != common.ConduitKeyLen {
		panic("getConduit: " + errKeyLength)
	}

	ctx := storage.GetReadOnlyContext()
	conduitContract := conduitContractAddress(ctx)
	id := common.DeriveConduitID(runtime.GetExecutingScriptHash(), key, conduitContract)

	return ConduitState{
		ID:     id,
		Exists: contract.Call(conduitContract, "exists", contract.ReadOnly, id).(bool),
	}
}

// Conduits returns iterator over identities of all deployed conduits.
func Conduits() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{prefixRecord}, storage.KeysOnly|storage.RemovePrefix)
}

// ConduitContract returns the script hash of the Conduit contract.
func ConduitContract() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return conduitContractAddress(ctx)
}

// Version returns version of the contract.
func Version() int {
	return common.Version
}

func conduitContractAddress(ctx storage.Context) interop.Hash160 {
	return interop.Hash160(storage.Get(ctx, conduitContractKey).([]byte))
}

func getRecord(ctx storage.Context, id interop.Hash160) ConduitRecord {
	data := storage.Get(ctx, recordStorageKey(id))
	if data == nil {
		panic(errNoConduit)
	}
	return std.Deserialize(data.([]byte)).(ConduitRecord)
}

func channelCount(ctx storage.Context, id interop.Hash160) int {
	count := storage.Get(ctx, channelCountStorageKey(id))
	if count == nil {
		return 0
	}
	return count.(int)
}

func channelIndex(ctx storage.Context, id interop.Hash160, channel interop.Hash160) int {
	idx := storage.Get(ctx, channelIndexStorageKey(id, channel))
	if idx == nil {
		return 0
	}
	return idx.(int)
}

func recordStorageKey(id interop.Hash160) []byte {
	return append([]byte{prefixRecord}, id...)
}

func channelCountStorageKey(id interop.Hash160) []byte {
	return append([]byte{prefixChannelCount}, id...)
}

func channelByIndexStorageKey(id interop.Hash160, index int) []byte {
	key := append([]byte{prefixChannelByIndex}, id...)
	return append(key, byte(index>>8), byte(index&0xff))
}

func channelIndexStorageKey(id interop.Hash160, channel interop.Hash160) []byte {
	key := append([]byte{prefixChannelIndex}, id...)
	return append(key, channel...)
}
