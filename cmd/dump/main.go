// Dump inspects a conduit contract suite deployed to a Neo network and prints
// its current state: the registered conduits with their keys, owners and open
// channels, and, optionally, the raw storage of the suite contracts.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"

	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/conduit-contract/rpc/registry"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// maxConduits limits the single-call fallback used when the RPC server has
// iterator sessions disabled.
const maxConduits = 1000

func main() {
	endpoint := flag.String("rpc", "", "RPC endpoint of the Neo network node")
	registryHash := flag.String("registry", "", "LE script hash of the Conduit Registry contract")
	rawStorage := flag.Bool("storage", false, "print raw storage of the suite contracts")

	flag.Parse()

	if *endpoint == "" || *registryHash == "" {
		flag.Usage()
		log.Fatal("both -rpc and -registry must be set")
	}

	hRegistry, err := util.Uint160DecodeStringLE(*registryHash)
	if err != nil {
		log.Fatalf("invalid registry contract address: %v", err)
	}

	b, err := newRemoteBlockChain(*endpoint)
	if err != nil {
		log.Fatalf("connect to the blockchain: %v", err)
	}
	defer b.close()

	reader := registry.NewReader(b.inv, hRegistry)

	version, err := reader.Version()
	if err != nil {
		log.Fatalf("get registry version: %v", err)
	}

	hConduit, err := reader.ConduitContract()
	if err != nil {
		log.Fatalf("get conduit contract address: %v", err)
	}

	fmt.Printf("registry: %s (version %s)\n", address.Uint160ToString(hRegistry), version)
	fmt.Printf("conduit:  %s\n", address.Uint160ToString(hConduit))

	ids, err := listConduits(b, reader)
	if err != nil {
		log.Fatalf("list conduits: %v", err)
	}

	fmt.Printf("\n%d conduit(s) registered\n", len(ids))

	for _, id := range ids {
		err = printConduit(reader, id)
		if err != nil {
			log.Fatalf("dump conduit %s: %v", id.StringLE(), err)
		}
	}

	if *rawStorage {
		for _, c := range []struct {
			name string
			hash util.Uint160
		}{
			{"registry", hRegistry},
			{"conduit", hConduit},
		} {
			fmt.Printf("\nstorage of the %s contract:\n", c.name)

			err = b.iterateContractStorage(c.hash, func(key, value []byte) error {
				fmt.Printf("  %s: %s\n", hex.EncodeToString(key), hex.EncodeToString(value))
				return nil
			})
			if err != nil {
				log.Fatalf("iterate storage of the %s contract: %v", c.name, err)
			}
		}
	}
}

// listConduits fetches identities of all registered conduits. Prefers an
// iterator session, falls back to a single expanded call for servers with
// sessions disabled.
func listConduits(b *remoteBlockchain, reader *registry.ContractReader) ([]util.Uint160, error) {
	var ids []util.Uint160

	sessionID, iter, err := reader.Conduits()
	if err == nil {
		defer func() {
			_ = b.inv.TerminateSession(sessionID)
		}()

		for {
			items, err := b.inv.TraverseIterator(sessionID, &iter, 100)
			if err != nil {
				return nil, fmt.Errorf("traverse conduits iterator: %w", err)
			}
			if len(items) == 0 {
				return ids, nil
			}

			for i := range items {
				id, err := itemToUint160(items[i].Value())
				if err != nil {
					return nil, fmt.Errorf("decode conduit identity: %w", err)
				}
				ids = append(ids, id)
			}
		}
	}

	items, err := reader.ConduitsExpanded(maxConduits)
	if err != nil {
		return nil, fmt.Errorf("expanded conduits call: %w", err)
	}

	for i := range items {
		id, err := itemToUint160(items[i].Value())
		if err != nil {
			return nil, fmt.Errorf("decode conduit identity: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

func itemToUint160(v any) (util.Uint160, error) {
	bs, ok := v.([]byte)
	if !ok {
		return util.Uint160{}, fmt.Errorf("unexpected item type %T", v)
	}
	return util.Uint160DecodeBytesBE(bs)
}

func printConduit(reader *registry.ContractReader, id util.Uint160) error {
	key, err := reader.GetKey(id)
	if err != nil {
		return fmt.Errorf("get conduit key: %w", err)
	}

	owner, err := reader.OwnerOf(id)
	if err != nil {
		return fmt.Errorf("get conduit owner: %w", err)
	}

	channels, err := reader.GetChannels(id)
	if err != nil {
		return fmt.Errorf("get conduit channels: %w", err)
	}

	fmt.Printf("\nconduit %s\n", address.Uint160ToString(id))
	fmt.Printf("  key:   %s\n", base58.Encode(key))
	fmt.Printf("  owner: %s\n", address.Uint160ToString(owner))

	// unset potential owner is stored as null and fails to unwrap, this is
	// not an error for the dump
	potentialOwner, err := reader.GetPotentialOwner(id)
	if err == nil {
		fmt.Printf("  potential owner: %s\n", address.Uint160ToString(potentialOwner))
	}

	fmt.Printf("  channels (%d):\n", len(channels))
	for i := range channels {
		fmt.Printf("    %s\n", address.Uint160ToString(channels[i]))
	}

	return nil
}
