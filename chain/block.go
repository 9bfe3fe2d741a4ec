package chain

import (
	"strings"
	"time"

	"github.com/ledgerd/ledgerd/crypto"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:40
 */

// Block is an ordered set of transactions linked to its predecessor by
// hash, with a nonce varied during mining and a self-hash computed over
// the whole header.
type Block struct {
	Index        int64          `json:"index"`
	Timestamp    int64          `json:"timestamp"`
	Transactions []*Transaction `json:"transactions"`
	PreviousHash string         `json:"previous_hash"`
	Nonce        int64          `json:"nonce"`
	Hash         string         `json:"hash"`
}

// NewBlock freezes index, timestamp, transactions and previousHash,
// starts the nonce at 0 and computes the initial hash. Mining (see
// pow.go) then mutates Nonce/Hash in place until the difficulty target
// is met.
func NewBlock(index int64, transactions []*Transaction, previousHash string) *Block {
	b := &Block{
		Index:        index,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: transactions,
		PreviousHash: previousHash,
		Nonce:        0,
	}
	b.Hash = b.ComputeHash()
	return b
}

// Genesis builds block 0: no transactions, previous_hash "0".
func Genesis() *Block {
	b := &Block{
		Index:        0,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: []*Transaction{},
		PreviousHash: "0",
		Nonce:        0,
	}
	b.Hash = b.ComputeHash()
	return b
}

// ComputeHash is the SHA-256 hex digest over
// index || timestamp || canonical_tx_json(transactions) || previous_hash || nonce,
// with integers rendered in plain decimal so every node derives
// byte-identical hashes.
func (b *Block) ComputeHash() string {
	var txJSON strings.Builder
	txJSON.WriteByte('[')
	for i, tx := range b.Transactions {
		if i > 0 {
			txJSON.WriteByte(',')
		}
		txJSON.Write(tx.MarshalCanonicalJSON())
	}
	txJSON.WriteByte(']')

	payload := amountString(b.Index) + amountString(b.Timestamp) + txJSON.String() +
		b.PreviousHash + amountString(b.Nonce)
	return crypto.Sha256Hex([]byte(payload))
}

// HasValidTransactions reports whether every transaction in the block is
// individually valid.
func (b *Block) HasValidTransactions() bool {
	for _, tx := range b.Transactions {
		if !tx.IsValid() {
			return false
		}
	}
	return true
}
