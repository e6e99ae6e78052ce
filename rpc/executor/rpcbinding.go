// Package executor contains RPC wrappers for Transfer Executor contract.
package executor

import (
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"math/big"
)

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
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

// ApplyFraction invokes `applyFraction` method of contract.
func (c *ContractReader) ApplyFraction(startAmount *big.Int, endAmount *big.Int, numerator *big.Int, denominator *big.Int, startTime *big.Int, endTime *big.Int, roundUp bool) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "applyFraction", startAmount, endAmount, numerator, denominator, startTime, endTime, roundUp))
}

// Conduit invokes `conduit` method of contract.
func (c *ContractReader) Conduit() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "conduit"))
}

// DeriveAmount invokes `deriveAmount` method of contract.
func (c *ContractReader) DeriveAmount(startAmount *big.Int, endAmount *big.Int, startTime *big.Int, endTime *big.Int, roundUp bool) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "deriveAmount", startAmount, endAmount, startTime, endTime, roundUp))
}

// Fraction invokes `fraction` method of contract.
func (c *ContractReader) Fraction(numerator *big.Int, denominator *big.Int, value *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "fraction", numerator, denominator, value))
}

// Registry invokes `registry` method of contract.
func (c *ContractReader) Registry() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "registry"))
}

// Settlement invokes `settlement` method of contract.
func (c *ContractReader) Settlement() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "settlement"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Execute creates a transaction invoking `execute` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Execute(transfers []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "execute", transfers)
}

// ExecuteTransaction creates a transaction invoking `execute` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ExecuteTransaction(transfers []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "execute", transfers)
}

// ExecuteUnsigned creates a transaction invoking `execute` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ExecuteUnsigned(transfers []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "execute", nil, transfers)
}

// Transfer creates a transaction invoking `transfer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Transfer(tr []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "transfer", tr)
}

// TransferTransaction creates a transaction invoking `transfer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) TransferTransaction(tr []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "transfer", tr)
}

// TransferUnsigned creates a transaction invoking `transfer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) TransferUnsigned(tr []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "transfer", nil, tr)
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
