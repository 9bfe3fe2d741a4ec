package wallet

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/ripemd160"

	"github.com/ledgerd/ledgerd/crypto"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 10:10
 */

// checksumLength and version govern only the *display* address below,
// never what the ledger or VM key on (that is always the raw hex public
// key).
const (
	checksumLength = 4
	version        = byte(0x00)
)

// Wallet is a secp256k1 key pair plus its derived display address. Ledger
// operations identify accounts by PublicHex directly; DisplayAddress
// exists purely for humans, a Base58-encoded form nothing else on the
// wire or in storage ever looks at.
type Wallet struct {
	PrivateHex string `json:"private_hex"`
	PublicHex  string `json:"public_hex"`
}

// New generates a fresh secp256k1 key pair.
func New() (*Wallet, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return &Wallet{PrivateHex: kp.PrivateHex, PublicHex: kp.PublicHex}, nil
}

// publicKeyHash is Hash160(pubkey): SHA-256 followed by RIPEMD-160, the
// standard way of turning a public key into a short display fingerprint.
func publicKeyHash(pubHex string) ([]byte, error) {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(pub)
	hasher := ripemd160.New()
	if _, err := hasher.Write(sum[:]); err != nil {
		return nil, err
	}
	return hasher.Sum(nil), nil
}

// checksum is the first checksumLength bytes of double SHA-256, used for
// error detection in display addresses.
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLength]
}

// DisplayAddress renders this wallet's public key as a Base58 address:
// version || Hash160(pubkey) || checksum, Base58-encoded. It is never used
// by the ledger, store, gossip or VM: those all key on PublicHex.
func (w *Wallet) DisplayAddress() (string, error) {
	hash, err := publicKeyHash(w.PublicHex)
	if err != nil {
		return "", err
	}
	versioned := append([]byte{version}, hash...)
	full := append(versioned, checksum(versioned)...)
	return string(Base58Encode(full)), nil
}

// ValidateDisplayAddress checks that a Base58 display address decodes to
// the expected length and that its checksum matches.
func ValidateDisplayAddress(address string) bool {
	decoded := Base58Decode([]byte(address))
	if len(decoded) != 1+20+checksumLength {
		return false
	}
	payload := decoded[:1+20]
	want := decoded[1+20:]
	return bytes.Equal(want, checksum(payload))
}
