package chain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ledgerd/ledgerd/crypto"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:18
 */

// ErrCannotSignReward is returned by Sign when called on a reward
// transaction (one with no Sender): reward transactions are never signed.
var ErrCannotSignReward = errors.New("cannot sign a reward transaction")

// Transaction is a single value transfer between two public-key-identified
// accounts. Sender is empty exactly for mining-reward transactions.
type Transaction struct {
	Sender    string `json:"sender"`
	Receiver  string `json:"receiver"`
	Amount    int64  `json:"amount"`
	Timestamp int64  `json:"timestamp"`
	Signature string `json:"signature"`
}

// NewTransaction builds an unsigned transaction stamped with the current
// time. Pass an empty sender to build a reward transaction.
func NewTransaction(sender, receiver string, amount int64) *Transaction {
	return &Transaction{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Hash returns the hex SHA-256 digest over sender||receiver||amount||timestamp,
// with sender rendered as the empty string when absent. This is the digest
// signatures are made over; it covers the same four fields as Fingerprint.
func (tx *Transaction) Hash() string {
	payload := tx.Sender + tx.Receiver + amountString(tx.Amount) + amountString(tx.Timestamp)
	return crypto.Sha256Hex([]byte(payload))
}

// Fingerprint is the (sender, receiver, amount, timestamp) tuple used to
// dedup transactions in the pending pool and as the store's tx id source.
func (tx *Transaction) Fingerprint() string {
	return tx.Sender + "|" + tx.Receiver + "|" + amountString(tx.Amount) + "|" + amountString(tx.Timestamp)
}

// TxID is the first 16 hex characters of sha256(sender||receiver||amount||timestamp),
// the key suffix used for tx: and pending: store entries.
func (tx *Transaction) TxID() string {
	digest := crypto.Sha256Hex([]byte(tx.Sender + tx.Receiver + amountString(tx.Amount) + amountString(tx.Timestamp)))
	return digest[:16]
}

// Sign computes the transaction hash and signs it with private, rejecting
// reward transactions outright.
func (tx *Transaction) Sign(privateHex string) error {
	if tx.Sender == "" {
		return ErrCannotSignReward
	}
	priv, err := crypto.PrivateKeyFromHex(privateHex)
	if err != nil {
		return err
	}
	sig, err := crypto.Sign(priv, tx.Hash())
	if err != nil {
		return err
	}
	tx.Signature = sig
	return nil
}

// IsValid reports whether tx is well formed: reward transactions are
// trivially valid; others require a positive amount, a present signature,
// and a signature that verifies under Sender.
func (tx *Transaction) IsValid() bool {
	if tx.Sender == "" {
		return true
	}
	if tx.Amount <= 0 {
		return false
	}
	if tx.Signature == "" {
		return false
	}
	return crypto.Verify(tx.Sender, tx.Hash(), tx.Signature)
}

// IsReward reports whether tx is a mining-reward injection.
func (tx *Transaction) IsReward() bool {
	return tx.Sender == ""
}

// MarshalCanonicalJSON renders tx with the stable field order
// {sender, receiver, amount, timestamp, signature} and no whitespace, so
// every node derives the same block hash.
func (tx *Transaction) MarshalCanonicalJSON() []byte {
	sig := tx.Signature
	return []byte(`{"sender":"` + jsonEscape(tx.Sender) + `","receiver":"` + jsonEscape(tx.Receiver) +
		`","amount":` + amountString(tx.Amount) + `,"timestamp":` + amountString(tx.Timestamp) +
		`,"signature":"` + jsonEscape(sig) + `"}`)
}

func jsonEscape(s string) string {
	b, _ := json.Marshal(s)
	// json.Marshal of a string always yields a quoted, escaped string; strip the quotes.
	return string(b[1 : len(b)-1])
}

// amountString pins the canonical decimal encoding of an integer used in
// hash inputs and canonical JSON: every node must agree on this exact
// rendering.
func amountString(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
