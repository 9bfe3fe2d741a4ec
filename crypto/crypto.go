package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 09:02
 */

// Sha256Hex hashes data and returns the lowercase hex digest, the one
// representation every other package in this module agrees on for
// transaction fingerprints and block hashes.
func Sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// KeyPair is a secp256k1 private/public key pair. PublicHex is the
// uncompressed point encoding (0x04 || X || Y), matching what wallets and
// the ledger carry on the wire and in storage.
type KeyPair struct {
	Private    *btcec.PrivateKey
	PublicHex  string
	PrivateHex string
}

// GenerateKeyPair creates a fresh secp256k1 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Private:    priv,
		PublicHex:  hex.EncodeToString(priv.PubKey().SerializeUncompressed()),
		PrivateHex: hex.EncodeToString(priv.Serialize()),
	}, nil
}

// PrivateKeyFromHex reconstructs a private key from its hex scalar, as
// stored on disk by the wallet keystore.
func PrivateKeyFromHex(privHex string) (*btcec.PrivateKey, error) {
	b, err := hex.DecodeString(privHex)
	if err != nil {
		return nil, err
	}
	priv, _ := btcec.PrivKeyFromBytes(b)
	return priv, nil
}

// Sign signs digestHex (a hex-encoded SHA-256 digest) with private and
// returns a DER-encoded hex signature.
func Sign(private *btcec.PrivateKey, digestHex string) (string, error) {
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return "", err
	}
	sig := btcecdsa.Sign(private, digest)
	return hex.EncodeToString(sig.Serialize()), nil
}

// Verify reports whether signatureHex is a valid DER ECDSA signature over
// digestHex under publicHex. Any malformed input (bad hex, wrong curve
// encoding, truncated DER) yields false, never an error.
func Verify(publicHex, digestHex, signatureHex string) bool {
	pubBytes, err := hex.DecodeString(publicHex)
	if err != nil {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	pub, err := btcec.ParsePubKey(pubBytes)
	if err != nil {
		return false
	}
	sig, err := btcecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		return false
	}
	return sig.Verify(digest, pub)
}
