package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/conduit-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

const conduitPath = "../conduit"

// deployConduitSuite deploys the Conduit and the Conduit Registry contracts
// pointing at each other. Both hashes are known before deployment, so the
// circular reference is resolved by compiling first.
func deployConduitSuite(t *testing.T, e *neotest.Executor) (util.Uint160, util.Uint160) {
	ctrConduit := neotest.CompileFile(t, e.CommitteeHash, conduitPath, path.Join(conduitPath, "config.yml"))
	ctrRegistry := neotest.CompileFile(t, e.CommitteeHash, registryPath, path.Join(registryPath, "config.yml"))

	e.DeployContract(t, ctrConduit, []interface{}{ctrRegistry.Hash})
	e.DeployContract(t, ctrRegistry, []interface{}{ctrConduit.Hash})

	return ctrRegistry.Hash, ctrConduit.Hash
}

// conduitKey builds a valid conduit key for the owner account: script hash
// of the creator followed by an arbitrary suffix.
func conduitKey(creator util.Uint160, suffix byte) []byte {
	key := make([]byte, common.ConduitKeyLen)
	copy(key, creator.BytesBE())
	key[len(key)-1] = suffix
	return key
}

func deriveConduitID(registry, conduitCtr util.Uint160, key []byte) util.Uint160 {
	data := []byte{0xff}
	data = append(data, registry.BytesBE()...)
	data = append(data, key...)
	data = append(data, conduitCtr.BytesBE()...)
	return hash.Hash160(data)
}

// createConduit deploys a conduit for the account via the registry and
// returns its identity.
func createConduit(t *testing.T, e *neotest.Executor, hRegistry, hConduit util.Uint160, acc neotest.Signer, suffix byte) util.Uint160 {
	key := conduitKey(acc.ScriptHash(), suffix)
	id := deriveConduitID(hRegistry, hConduit, key)

	cAcc := e.NewInvoker(hRegistry, acc)
	cAcc.Invoke(t, stackitem.NewByteArray(id.BytesBE()), "create", key, acc.ScriptHash())

	return id
}

func TestConduit_Version(t *testing.T) {
	e := newExecutor(t)
	_, hConduit := deployConduitSuite(t, e)
	e.CommitteeInvoker(hConduit).Invoke(t, common.Version, "version")
}

func TestConduit_RegistryOnlyMethods(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)
	c := e.CommitteeInvoker(hConduit)

	c.Invoke(t, stackitem.NewByteArray(hRegistry.BytesBE()), "registry")

	id := util.Uint160{1, 2, 3}
	const msg = "caller is not the conduit registry"

	c.InvokeFail(t, msg, "put", id, make([]byte, common.ConduitKeyLen), c.CommitteeHash)
	c.InvokeFail(t, msg, "updateChannel", id, c.CommitteeHash, true)
	c.InvokeFail(t, msg, "updateOwner", id, c.CommitteeHash)
}

func TestConduit_Exists(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)
	c := e.CommitteeInvoker(hConduit)

	acc := e.NewAccount(t)

	c.Invoke(t, stackitem.NewBool(false), "exists", util.Uint160{1, 2, 3})

	id := createConduit(t, e, hRegistry, hConduit, acc, 1)
	c.Invoke(t, stackitem.NewBool(true), "exists", id)
	c.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "ownerOf", id)

	c.InvokeFail(t, "conduit does not exist", "ownerOf", util.Uint160{1, 2, 3})
}

func TestConduit_ExecuteAuth(t *testing.T) {
	e := newExecutor(t)
	hRegistry, hConduit := deployConduitSuite(t, e)

	owner := e.NewAccount(t)
	stranger := e.NewAccount(t)

	id := createConduit(t, e, hRegistry, hConduit, owner, 1)

	cOwner := e.NewInvoker(hConduit, owner)
	cStranger := e.NewInvoker(hConduit, stranger)
	rOwner := e.NewInvoker(hRegistry, owner)

	noTransfers := []interface{}{}

	cOwner.Invoke(t, common.ExecuteAck, "execute", id, noTransfers)
	cStranger.InvokeFail(t, "caller is neither owner nor an open channel", "execute", id, noTransfers)

	// an account opened as a channel is authorized through its witness
	rOwner.Invoke(t, stackitem.Null{}, "updateChannel", id, stranger.ScriptHash(), true)
	cStranger.Invoke(t, common.ExecuteAck, "execute", id, noTransfers)

	rOwner.Invoke(t, stackitem.Null{}, "updateChannel", id, stranger.ScriptHash(), false)
	cStranger.InvokeFail(t, "caller is neither owner nor an open channel", "execute", id, noTransfers)

	cOwner.InvokeFail(t, "conduit does not exist", "execute", util.Uint160{1, 2, 3}, noTransfers)
}
