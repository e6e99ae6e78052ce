// Package registry contains RPC wrappers for Conduit Registry contract.
package registry

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// RegistryConduitState is a contract-specific registry.ConduitState type used by its methods.
type RegistryConduitState struct {
	ID util.Uint160
	Exists bool
}

// NewConduitEvent represents "NewConduit" event emitted by the contract.
type NewConduitEvent struct {
	Conduit util.Uint160
	ConduitKey []byte
}

// OwnershipTransferredEvent represents "OwnershipTransferred" event emitted by the contract.
type OwnershipTransferredEvent struct {
	Conduit util.Uint160
	PreviousOwner util.Uint160
	NewOwner util.Uint160
}

// PotentialOwnerUpdatedEvent represents "PotentialOwnerUpdated" event emitted by the contract.
type PotentialOwnerUpdatedEvent struct {
	Conduit util.Uint160
	NewPotentialOwner util.Uint160
}

// ChannelUpdatedEvent represents "ChannelUpdated" event emitted by the contract.
type ChannelUpdatedEvent struct {
	Conduit util.Uint160
	Channel util.Uint160
	Open bool
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// ConduitContract invokes `conduitContract` method of contract.
func (c *ContractReader) ConduitContract() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "conduitContract"))
}

// Conduits invokes `conduits` method of contract.
func (c *ContractReader) Conduits() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "conduits"))
}

// ConduitsExpanded is similar to Conduits (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ConduitsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "conduits", _numOfIteratorItems))
}

// GetChannel invokes `getChannel` method of contract.
func (c *ContractReader) GetChannel(id util.Uint160, index *big.Int) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getChannel", id, index))
}

// GetChannelStatus invokes `getChannelStatus` method of contract.
func (c *ContractReader) GetChannelStatus(id util.Uint160, channel util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "getChannelStatus", id, channel))
}

// GetChannels invokes `getChannels` method of contract.
func (c *ContractReader) GetChannels(id util.Uint160) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getChannels", id))
}

// GetConduit invokes `getConduit` method of contract.
func (c *ContractReader) GetConduit(conduitKey []byte) (*RegistryConduitState, error) {
	return itemToRegistryConduitState(unwrap.Item(c.invoker.Call(c.hash, "getConduit", conduitKey)))
}

// GetKey invokes `getKey` method of contract.
func (c *ContractReader) GetKey(id util.Uint160) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "getKey", id))
}

// GetPotentialOwner invokes `getPotentialOwner` method of contract.
func (c *ContractReader) GetPotentialOwner(id util.Uint160) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getPotentialOwner", id))
}

// GetTotalChannels invokes `getTotalChannels` method of contract.
func (c *ContractReader) GetTotalChannels(id util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getTotalChannels", id))
}

// OwnerOf invokes `ownerOf` method of contract.
func (c *ContractReader) OwnerOf(id util.Uint160) (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "ownerOf", id))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AcceptOwnership creates a transaction invoking `acceptOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AcceptOwnership(id util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "acceptOwnership", id)
}

// AcceptOwnershipTransaction creates a transaction invoking `acceptOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AcceptOwnershipTransaction(id util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "acceptOwnership", id)
}

// AcceptOwnershipUnsigned creates a transaction invoking `acceptOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AcceptOwnershipUnsigned(id util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "acceptOwnership", nil, id)
}

// CancelOwnershipTransfer creates a transaction invoking `cancelOwnershipTransfer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CancelOwnershipTransfer(id util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "cancelOwnershipTransfer", id)
}

// CancelOwnershipTransferTransaction creates a transaction invoking `cancelOwnershipTransfer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CancelOwnershipTransferTransaction(id util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "cancelOwnershipTransfer", id)
}

// CancelOwnershipTransferUnsigned creates a transaction invoking `cancelOwnershipTransfer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CancelOwnershipTransferUnsigned(id util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "cancelOwnershipTransfer", nil, id)
}

// Create creates a transaction invoking `create` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Create(conduitKey []byte, initialOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "create", conduitKey, initialOwner)
}

// CreateTransaction creates a transaction invoking `create` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateTransaction(conduitKey []byte, initialOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "create", conduitKey, initialOwner)
}

// CreateUnsigned creates a transaction invoking `create` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateUnsigned(conduitKey []byte, initialOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "create", nil, conduitKey, initialOwner)
}

// TransferOwnership creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) TransferOwnership(id util.Uint160, newPotentialOwner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transferOwnership", id, newPotentialOwner)
}

// TransferOwnershipTransaction creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferOwnershipTransaction(id util.Uint160, newPotentialOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transferOwnership", id, newPotentialOwner)
}

// TransferOwnershipUnsigned creates a transaction invoking `transferOwnership` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferOwnershipUnsigned(id util.Uint160, newPotentialOwner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transferOwnership", nil, id, newPotentialOwner)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// UpdateChannel creates a transaction invoking `updateChannel` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateChannel(id util.Uint160, channel util.Uint160, isOpen bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateChannel", id, channel, isOpen)
}

// UpdateChannelTransaction creates a transaction invoking `updateChannel` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateChannelTransaction(id util.Uint160, channel util.Uint160, isOpen bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateChannel", id, channel, isOpen)
}

// UpdateChannelUnsigned creates a transaction invoking `updateChannel` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateChannelUnsigned(id util.Uint160, channel util.Uint160, isOpen bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateChannel", nil, id, channel, isOpen)
}

// itemToRegistryConduitState converts stack item into *RegistryConduitState.
func itemToRegistryConduitState(item stackitem.Item, err error) (*RegistryConduitState, error) {
	if err != nil {
		return nil, err
	}
	var res = new(RegistryConduitState)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of RegistryConduitState from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *RegistryConduitState) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.ID, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field ID: %w", err)
	}

	index++
	res.Exists, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Exists: %w", err)
	}

	return nil
}

// NewConduitEventsFromApplicationLog retrieves a set of all emitted events
// with "NewConduit" name from the provided [result.ApplicationLog].
func NewConduitEventsFromApplicationLog(log *result.ApplicationLog) ([]*NewConduitEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*NewConduitEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "NewConduit" {
				continue
			}
			event := new(NewConduitEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize NewConduitEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to NewConduitEvent or
// returns an error if it's not possible to do to so.
func (e *NewConduitEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Conduit, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Conduit: %w", err)
	}

	index++
	e.ConduitKey, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field ConduitKey: %w", err)
	}

	return nil
}

// OwnershipTransferredEventsFromApplicationLog retrieves a set of all emitted events
// with "OwnershipTransferred" name from the provided [result.ApplicationLog].
func OwnershipTransferredEventsFromApplicationLog(log *result.ApplicationLog) ([]*OwnershipTransferredEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OwnershipTransferredEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OwnershipTransferred" {
				continue
			}
			event := new(OwnershipTransferredEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OwnershipTransferredEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OwnershipTransferredEvent or
// returns an error if it's not possible to do to so.
func (e *OwnershipTransferredEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Conduit, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Conduit: %w", err)
	}

	index++
	e.PreviousOwner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field PreviousOwner: %w", err)
	}

	index++
	e.NewOwner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field NewOwner: %w", err)
	}

	return nil
}

// PotentialOwnerUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "PotentialOwnerUpdated" name from the provided [result.ApplicationLog].
func PotentialOwnerUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PotentialOwnerUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PotentialOwnerUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "PotentialOwnerUpdated" {
				continue
			}
			event := new(PotentialOwnerUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PotentialOwnerUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PotentialOwnerUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *PotentialOwnerUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Conduit, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Conduit: %w", err)
	}

	index++
	e.NewPotentialOwner, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field NewPotentialOwner: %w", err)
	}

	return nil
}

// ChannelUpdatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ChannelUpdated" name from the provided [result.ApplicationLog].
func ChannelUpdatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ChannelUpdatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ChannelUpdatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ChannelUpdated" {
				continue
			}
			event := new(ChannelUpdatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ChannelUpdatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ChannelUpdatedEvent or
// returns an error if it's not possible to do to so.
func (e *ChannelUpdatedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	e.Conduit, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Conduit: %w", err)
	}

	index++
	e.Channel, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Channel: %w", err)
	}

	index++
	e.Open, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Open: %w", err)
	}

	return nil
}
