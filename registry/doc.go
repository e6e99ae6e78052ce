/*
Conduit Registry contract is the authority over conduit deployment and
authorization state. It deploys conduits on demand at deterministic,
predictable identities, manages the two-step transfer of conduit ownership
and maintains the per-conduit set of authorized callers (channels).

Conduit identities are derived from the registry address, the conduit key
and the code fingerprint of the Conduit contract, so getConduit predicts the
identity of a conduit before it is deployed. Conduit keys are
self-certifying: the first 20 bytes of a key must be the script hash of the
account invoking create.

The channel set is an order-preserving sequence with O(1) removal: every
channel has a 1-based reverse-index entry, removal overwrites the vacated
slot with the last element and truncates. Channel updates are forwarded to
the Conduit contract first so that its own caller check stays in sync.

# Contract storage scheme

	| Key                        | Value      | Description                  |
	|----------------------------|------------|------------------------------|
	| `conduitScriptHash`        | Hash160    | Conduit contract address     |
	| 0x01 + conduit ID          | Serialized | conduit record               |
	| 0x02 + conduit ID          | int        | number of open channels      |
	| 0x03 + conduit ID + pos    | Hash160    | channel at 0-based position  |
	| 0x04 + conduit ID + channel| int        | 1-based position of channel  |

# Contract notifications

NewConduit notification. This notification is produced when a new conduit is
deployed for a key.

	NewConduit:
	  - name: conduit
	    type: Hash160
	  - name: conduitKey
	    type: ByteArray

OwnershipTransferred notification. This notification is produced when a
conduit gets its initial owner and every time a pending owner accepts
ownership.

	OwnershipTransferred:
	  - name: conduit
	    type: Hash160
	  - name: previousOwner
	    type: Hash160
	  - name: newOwner
	    type: Hash160

PotentialOwnerUpdated notification. This notification is produced when an
ownership transfer is started or cancelled.

	PotentialOwnerUpdated:
	  - name: conduit
	    type: Hash160
	  - name: newPotentialOwner
	    type: Hash160

ChannelUpdated notification. This notification is produced when a channel of
a conduit is opened or closed.

	ChannelUpdated:
	  - name: conduit
	    type: Hash160
	  - name: channel
	    type: Hash160
	  - name: open
	    type: Boolean
*/
package registrycontract
