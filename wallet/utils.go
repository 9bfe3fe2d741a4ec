package wallet

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 10:05
 */

import (
	"log"

	"github.com/mr-tron/base58"
)

// Base58Encode renders raw bytes as a Base58 string, returned as []byte
// for symmetry with Base58Decode.
func Base58Encode(input []byte) []byte {
	return []byte(base58.Encode(input))
}

// Base58Decode is the inverse of Base58Encode.
func Base58Decode(input []byte) []byte {
	decode, err := base58.Decode(string(input))
	if err != nil {
		log.Panic(err)
	}
	return decode
}
