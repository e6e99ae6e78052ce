/*
Transfer Executor contract performs asset movements on behalf of a
settlement layer contract. Every item in a batch is either transferred
directly by the executor itself or routed through a conduit identified by a
conduit key, the latter letting token approvals granted to a single conduit
serve many settlement flows.

Conduit-routed items are accumulated: consecutive items carrying the same
conduit key are collected and dispatched to the conduit in one execute call,
preserving the order of the batch. The accumulation is flushed whenever the
conduit key changes, before any direct transfer and at the end of the batch.
The executor verifies the fixed acknowledgement value returned by the
conduit.

The contract also exposes the amount derivation helpers used by settlement
flows: exact fraction scaling and time-based linear interpolation between a
start and an end amount with directional rounding.

# Contract storage scheme

	| Key                  | Value   | Description                 |
	|----------------------|---------|-----------------------------|
	| `registryScriptHash` | Hash160 | registry contract address   |
	| `conduitScriptHash`  | Hash160 | Conduit contract address    |
	| `settlementAddress`  | Hash160 | settlement layer address    |

# Contract notifications

Transfer Executor contract does not produce notifications.
*/
package executorcontract
