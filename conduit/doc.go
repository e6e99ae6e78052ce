/*
Conduit contract is a transfer proxy executing batched asset movements on
behalf of accounts that granted it token approvals. The contract hosts one
conduit instance per conduit key, content-addressed by the identity the
registry derives from the key, and enforces its own caller check on every
batch: only the conduit owner or an account/contract opened as a channel may
move assets through it.

Instance management methods (put, updateChannel, updateOwner) can be invoked
only by the registry contract the Conduit was deployed with. Execute accepts
an ordered sequence of transfer instructions (item kind, token, from, to,
identifier, amount) and performs them one by one, dispatching native GAS,
NEP-17, NEP-11 and divisible NEP-11 movements into the respective token
contracts. Execute returns a fixed acknowledgement value which invoking
contracts must verify.

# Contract storage scheme

	| Key                        | Value      | Description               |
	|----------------------------|------------|---------------------------|
	| `registryScriptHash`       | Hash160    | registry contract address |
	| 0x01 + conduit ID          | Serialized | conduit instance          |
	| 0x02 + conduit ID + channel| []byte{1}  | open channel flag         |

# Contract notifications

Conduit contract does not produce notifications.
*/
package conduitcontract
