package store

import "strconv"

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:22
 */

// Key prefixes. Store is deliberately ignorant of the chain/contract Go
// types it holds values for: callers hand it already serialized bytes,
// and it owns only the key scheme and atomicity.
const (
	prefixBlock    = "block:"
	prefixHeight   = "height:"
	prefixTx       = "tx:"
	prefixPending  = "pending:"
	prefixContract = "contract:"

	// MetaChainLength and MetaDifficulty are singleton keys, not prefixes.
	MetaChainLength = "meta:chainLength"
	MetaDifficulty  = "meta:difficulty"
)

func blockKey(hash string) []byte { return []byte(prefixBlock + hash) }

func heightKey(index int64) []byte { return []byte(prefixHeight + strconv.FormatInt(index, 10)) }

func txKey(txid string) []byte { return []byte(prefixTx + txid) }

func pendingKey(txid string) []byte { return []byte(prefixPending + txid) }

func contractKey(address string) []byte { return []byte(prefixContract + address) }

// prefixRangeEnd returns the inclusive upper bound for a lexicographic
// prefix scan: from "prefix:" to "prefix:\xFF".
func prefixRangeEnd(prefix string) []byte {
	return []byte(prefix + "\xFF")
}
