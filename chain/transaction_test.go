package chain

import (
	"testing"

	"github.com/ledgerd/ledgerd/crypto"
)

func mustKeyPair(t *testing.T) *crypto.KeyPair {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	return kp
}

func TestTransactionSignAndValidate(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)

	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	if err := tx.Sign(sender.PrivateHex); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !tx.IsValid() {
		t.Fatal("expected signed transaction to be valid")
	}
}

func TestTransactionInvalidSignatureRejected(t *testing.T) {
	sender := mustKeyPair(t)
	other := mustKeyPair(t)
	receiver := mustKeyPair(t)

	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	if err := tx.Sign(other.PrivateHex); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if tx.IsValid() {
		t.Fatal("expected transaction signed by the wrong key to be invalid")
	}
}

func TestTransactionUnsignedRejected(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)
	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	if tx.IsValid() {
		t.Fatal("expected unsigned non-reward transaction to be invalid")
	}
}

func TestTransactionNonPositiveAmountRejected(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)
	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 0)
	if err := tx.Sign(sender.PrivateHex); err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if tx.IsValid() {
		t.Fatal("expected zero-amount transaction to be invalid")
	}
}

func TestRewardTransactionIsAlwaysValid(t *testing.T) {
	receiver := mustKeyPair(t)
	tx := NewTransaction("", receiver.PublicHex, 50)
	if !tx.IsValid() {
		t.Fatal("expected reward transaction to be trivially valid")
	}
	if !tx.IsReward() {
		t.Fatal("expected IsReward to be true for a senderless transaction")
	}
}

func TestCannotSignReward(t *testing.T) {
	receiver := mustKeyPair(t)
	tx := NewTransaction("", receiver.PublicHex, 50)
	if err := tx.Sign("deadbeef"); err != ErrCannotSignReward {
		t.Fatalf("expected ErrCannotSignReward, got %v", err)
	}
}

func TestFingerprintDedup(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)
	a := NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	b := *a
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("expected identical transactions to share a fingerprint")
	}
	b.Amount = 11
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("expected differing amount to change the fingerprint")
	}
}

func TestCanonicalJSONFieldOrder(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)
	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	if err := tx.Sign(sender.PrivateHex); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	got := string(tx.MarshalCanonicalJSON())
	wantPrefix := `{"sender":"`
	if len(got) < len(wantPrefix) || got[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("expected canonical JSON to start with sender field, got %q", got)
	}
}
