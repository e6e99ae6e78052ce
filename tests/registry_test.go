package tests

import (
	"testing"

	"github.com/nspcc-dev/conduit-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const registryPath = "../registry"

func TestRegistry_Version(t *testing.T) {
	e := newExecutor(t)
	hRegistry, _ := deployConduitSuite(t, e)
	e.CommitteeInvoker(hRegistry).Invoke(t, common.Version, "version")
}

func TestRegistry_Create(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)
	c := e.CommitteeInvoker(hRegistry)

	acc := e.NewAccount(t)
	cAcc := e.NewInvoker(hRegistry, acc)
	owner := acc.ScriptHash()

	key := conduitKey(owner, 1)
	id := deriveConduitID(hRegistry, hConduit, key)

	c.Invoke(t, stackitem.NewByteArray(hConduit.BytesBE()), "conduitContract")

	cAcc.InvokeFail(t, "incorrect conduit key length", "create", key[:16], owner)
	cAcc.InvokeFail(t, "create: invalid initial owner", "create", key, []byte{1, 2, 3})

	// committee does not witness the creator encoded in the key
	c.InvokeFail(t, "create: invalid creator", "create", key, owner)

	// identity is predictable before the conduit exists
	cAcc.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(id.BytesBE()),
		stackitem.NewBool(false),
	}), "getConduit", key)

	cAcc.Invoke(t, stackitem.NewByteArray(id.BytesBE()), "create", key, owner)
	cAcc.InvokeFail(t, "create: conduit already exists", "create", key, owner)

	cAcc.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.NewByteArray(id.BytesBE()),
		stackitem.NewBool(true),
	}), "getConduit", key)

	cAcc.Invoke(t, stackitem.NewByteArray(owner.BytesBE()), "ownerOf", id)
	cAcc.Invoke(t, stackitem.NewByteArray(key), "getKey", id)
	cAcc.Invoke(t, stackitem.Null{}, "getPotentialOwner", id)

	// a different suffix yields a different identity for the same creator
	key2 := conduitKey(owner, 2)
	id2 := deriveConduitID(hRegistry, hConduit, key2)
	require.NotEqual(t, id, id2)
	cAcc.Invoke(t, stackitem.NewByteArray(id2.BytesBE()), "create", key2, owner)

	c.InvokeFail(t, "conduit does not exist", "ownerOf", util.Uint160{1, 2, 3})
}

func TestRegistry_OwnershipTransfer(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)

	acc1 := e.NewAccount(t)
	acc2 := e.NewAccount(t)
	acc3 := e.NewAccount(t)

	id := createConduit(t, e, hRegistry, hConduit, acc1, 1)

	c1 := e.NewInvoker(hRegistry, acc1)
	c2 := e.NewInvoker(hRegistry, acc2)
	c3 := e.NewInvoker(hRegistry, acc3)

	c2.InvokeFail(t, common.ErrOwnerWitnessFailed, "transferOwnership", id, acc2.ScriptHash())
	c1.InvokeFail(t, "no potential owner set", "cancelOwnershipTransfer", id)

	c1.Invoke(t, stackitem.Null{}, "transferOwnership", id, acc2.ScriptHash())
	c1.Invoke(t, stackitem.NewByteArray(acc2.ScriptHash().BytesBE()), "getPotentialOwner", id)
	c1.InvokeFail(t, "new potential owner already set", "transferOwnership", id, acc2.ScriptHash())

	// a pending transfer can be re-targeted to a different potential owner
	c1.Invoke(t, stackitem.Null{}, "transferOwnership", id, acc3.ScriptHash())
	c1.Invoke(t, stackitem.NewByteArray(acc3.ScriptHash().BytesBE()), "getPotentialOwner", id)
	c1.Invoke(t, stackitem.Null{}, "transferOwnership", id, acc2.ScriptHash())
	c1.Invoke(t, stackitem.NewByteArray(acc2.ScriptHash().BytesBE()), "getPotentialOwner", id)

	// current owner keeps all rights until the transfer is accepted
	c1.Invoke(t, stackitem.NewByteArray(acc1.ScriptHash().BytesBE()), "ownerOf", id)

	c1.Invoke(t, stackitem.Null{}, "cancelOwnershipTransfer", id)
	c1.Invoke(t, stackitem.Null{}, "getPotentialOwner", id)

	c2.InvokeFail(t, "caller is not the new potential owner", "acceptOwnership", id)

	c1.Invoke(t, stackitem.Null{}, "transferOwnership", id, acc2.ScriptHash())
	c3.InvokeFail(t, "caller is not the new potential owner", "acceptOwnership", id)
	c2.Invoke(t, stackitem.Null{}, "acceptOwnership", id)

	c2.Invoke(t, stackitem.NewByteArray(acc2.ScriptHash().BytesBE()), "ownerOf", id)
	c2.Invoke(t, stackitem.Null{}, "getPotentialOwner", id)

	// the owner change propagates into the Conduit contract
	e.CommitteeInvoker(hConduit).Invoke(t,
		stackitem.NewByteArray(acc2.ScriptHash().BytesBE()), "ownerOf", id)

	c1.InvokeFail(t, common.ErrOwnerWitnessFailed, "transferOwnership", id, acc3.ScriptHash())
	c2.Invoke(t, stackitem.Null{}, "transferOwnership", id, acc3.ScriptHash())
}

func TestRegistry_Channels(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)

	owner := e.NewAccount(t)
	stranger := e.NewAccount(t)

	id := createConduit(t, e, hRegistry, hConduit, owner, 1)

	c := e.NewInvoker(hRegistry, owner)
	cStranger := e.NewInvoker(hRegistry, stranger)
	cConduit := e.CommitteeInvoker(hConduit)

	ch1 := util.Uint160{0xa1}
	ch2 := util.Uint160{0xa2}
	ch3 := util.Uint160{0xa3}

	c.Invoke(t, 0, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewBool(false), "getChannelStatus", id, ch1)
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "getChannels", id)
	c.InvokeFail(t, "channel index out of range", "getChannel", id, 0)

	cStranger.InvokeFail(t, common.ErrOwnerWitnessFailed, "updateChannel", id, ch1, true)
	c.InvokeFail(t, "incorrect channel address length", "updateChannel", id, []byte{1, 2}, true)
	c.InvokeFail(t, "conduit does not exist", "updateChannel", util.Uint160{1, 2, 3}, ch1, true)

	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch1, true)
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch2, true)
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch3, true)

	c.Invoke(t, 3, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewBool(true), "getChannelStatus", id, ch2)
	c.Invoke(t, stackitem.NewByteArray(ch1.BytesBE()), "getChannel", id, 0)
	c.Invoke(t, stackitem.NewByteArray(ch2.BytesBE()), "getChannel", id, 1)
	c.Invoke(t, stackitem.NewByteArray(ch3.BytesBE()), "getChannel", id, 2)
	cConduit.Invoke(t, stackitem.NewBool(true), "isOpen", id, ch2)

	// opening an open channel is a no-op
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch2, true)
	c.Invoke(t, 3, "getTotalChannels", id)

	// closing moves the last channel into the vacated slot
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch1, false)
	c.Invoke(t, 2, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewBool(false), "getChannelStatus", id, ch1)
	c.Invoke(t, stackitem.NewByteArray(ch3.BytesBE()), "getChannel", id, 0)
	c.Invoke(t, stackitem.NewByteArray(ch2.BytesBE()), "getChannel", id, 1)
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(ch3.BytesBE()),
		stackitem.NewByteArray(ch2.BytesBE()),
	}), "getChannels", id)
	cConduit.Invoke(t, stackitem.NewBool(false), "isOpen", id, ch1)

	// closing a closed channel is a no-op
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch1, false)
	c.Invoke(t, 2, "getTotalChannels", id)

	// closing the last element needs no swap
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch2, false)
	c.Invoke(t, 1, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewByteArray(ch3.BytesBE()), "getChannel", id, 0)

	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch3, false)
	c.Invoke(t, 0, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewArray([]stackitem.Item{}), "getChannels", id)

	// a closed channel can be reopened
	c.Invoke(t, stackitem.Null{}, "updateChannel", id, ch1, true)
	c.Invoke(t, 1, "getTotalChannels", id)
	c.Invoke(t, stackitem.NewByteArray(ch1.BytesBE()), "getChannel", id, 0)
}

func TestRegistry_Conduits(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)
	c := e.CommitteeInvoker(hRegistry)

	acc := e.NewAccount(t)

	id1 := createConduit(t, e, hRegistry, hConduit, acc, 1)
	id2 := createConduit(t, e, hRegistry, hConduit, acc, 2)

	s, err := c.TestInvoke(t, "conduits")
	require.NoError(t, err)
	require.Equal(t, 1, s.Len())

	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	items := iteratorToArray(iter)
	require.Len(t, items, 2)

	got := make([][]byte, 0, len(items))
	for _, item := range items {
		id, err := item.TryBytes()
		require.NoError(t, err)
		got = append(got, id)
	}
	require.ElementsMatch(t, [][]byte{id1.BytesBE(), id2.BytesBE()}, got)
}
