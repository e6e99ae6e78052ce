// Package deploy provides deployment of the conduit contract suite to a Neo
// blockchain network.
package deploy

import (
	"context"
	"fmt"
	"strings"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for the deployment of the conduit contract suite.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if the requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of a smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// Prm groups all parameters of the conduit contract suite deployment.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance the suite is deployed to.
	Blockchain Blockchain

	// Local account used for transaction signing (must be unlocked). The final
	// contract addresses are a function of this account, so repeating a
	// partially failed deployment from the same account converges to the same
	// suite.
	LocalAccount *wallet.Account

	ConduitContract  CommonDeployPrm
	RegistryContract CommonDeployPrm
	ExecutorContract CommonDeployPrm

	// Address of the settlement layer contract served by the executor.
	SettlementAddress util.Uint160
}

// Addresses carries the on-chain addresses of the deployed conduit contract
// suite.
type Addresses struct {
	Conduit  util.Uint160
	Registry util.Uint160
	Executor util.Uint160
}

// Deploy deploys the conduit contract suite to the Neo network represented by
// given Prm.Blockchain. The Conduit and the Registry contracts reference each
// other, so both addresses are precalculated from the deployer account before
// any transaction is sent. Contracts that are already on the chain are left
// untouched, which makes Deploy safe to re-run after a partial failure.
func Deploy(ctx context.Context, prm Prm) (Addresses, error) {
	// wrap the parent context into the context of the current function so that
	// transaction wait routines do not leak
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	localActor, err := actor.NewSimple(prm.Blockchain, prm.LocalAccount)
	if err != nil {
		return Addresses{}, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	deployer := prm.LocalAccount.ScriptHash()

	var res Addresses
	res.Conduit = state.CreateContractHash(deployer, prm.ConduitContract.NEF.Checksum, prm.ConduitContract.Manifest.Name)
	res.Registry = state.CreateContractHash(deployer, prm.RegistryContract.NEF.Checksum, prm.RegistryContract.Manifest.Name)
	res.Executor = state.CreateContractHash(deployer, prm.ExecutorContract.NEF.Checksum, prm.ExecutorContract.Manifest.Name)

	prm.Logger.Info("deploying Conduit contract...", zap.Stringer("address", res.Conduit))

	err = deployContract(ctx, prm, localActor, res.Conduit, prm.ConduitContract, []any{res.Registry})
	if err != nil {
		return Addresses{}, fmt.Errorf("deploy Conduit contract: %w", err)
	}

	prm.Logger.Info("deploying Conduit Registry contract...", zap.Stringer("address", res.Registry))

	err = deployContract(ctx, prm, localActor, res.Registry, prm.RegistryContract, []any{res.Conduit})
	if err != nil {
		return Addresses{}, fmt.Errorf("deploy Conduit Registry contract: %w", err)
	}

	prm.Logger.Info("deploying Transfer Executor contract...", zap.Stringer("address", res.Executor))

	err = deployContract(ctx, prm, localActor, res.Executor, prm.ExecutorContract,
		[]any{res.Registry, res.Conduit, prm.SettlementAddress})
	if err != nil {
		return Addresses{}, fmt.Errorf("deploy Transfer Executor contract: %w", err)
	}

	prm.Logger.Info("conduit contract suite successfully deployed",
		zap.Stringer("conduit", res.Conduit),
		zap.Stringer("registry", res.Registry),
		zap.Stringer("executor", res.Executor))

	return res, nil
}

// deployContract sends the deployment transaction for a single contract of
// the suite and waits for it to be persisted. No-op if the contract already
// exists at the expected address.
func deployContract(ctx context.Context, prm Prm, localActor *actor.Actor, expected util.Uint160, c CommonDeployPrm, deployArgs []any) error {
	alreadyOnChain, err := isContractOnChain(prm.Blockchain, expected)
	if err != nil {
		return fmt.Errorf("check presence of the contract on the chain: %w", err)
	}

	if alreadyOnChain {
		prm.Logger.Info("contract is already on the chain, skip deployment", zap.Stringer("address", expected))
		return nil
	}

	mgmt := management.New(localActor)

	txHash, vub, err := mgmt.Deploy(&c.NEF, &c.Manifest, deployArgs)
	if err != nil {
		return fmt.Errorf("send deployment transaction: %w", err)
	}

	prm.Logger.Info("deployment transaction sent, waiting for persistence...",
		zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	_, err = localActor.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for deployment transaction %s: %w", txHash.StringLE(), err)
	}

	if err = ctx.Err(); err != nil {
		return err
	}

	return nil
}

func isContractOnChain(b Blockchain, addr util.Uint160) (bool, error) {
	_, err := b.GetContractStateByHash(addr)
	if err == nil {
		return true, nil
	}
	if strings.Contains(err.Error(), "Unknown contract") {
		return false, nil
	}
	return false, err
}
