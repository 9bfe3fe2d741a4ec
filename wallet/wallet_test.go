package wallet

import "testing"

func TestNewGeneratesDistinctKeys(t *testing.T) {
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.PublicHex == b.PublicHex {
		t.Fatal("expected two generated wallets to have distinct public keys")
	}
}

func TestDisplayAddressRoundTripsValidation(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addr, err := w.DisplayAddress()
	if err != nil {
		t.Fatalf("DisplayAddress: %v", err)
	}
	if !ValidateDisplayAddress(addr) {
		t.Fatalf("expected display address %q to validate", addr)
	}
}

func TestValidateDisplayAddressRejectsCorruption(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	addr, err := w.DisplayAddress()
	if err != nil {
		t.Fatalf("DisplayAddress: %v", err)
	}
	// The version byte 0x00 always encodes as a leading '1', so corrupt
	// the last character instead.
	replacement := byte('2')
	if addr[len(addr)-1] == '2' {
		replacement = '3'
	}
	corrupted := addr[:len(addr)-1] + string(replacement)
	if corrupted != addr && ValidateDisplayAddress(corrupted) {
		t.Fatal("expected a corrupted display address to fail validation")
	}
}

func TestWalletsAddAndLookup(t *testing.T) {
	nodeID := "test-node"
	ws := &Wallets{Wallets: make(map[string]*Wallet)}

	pub, err := ws.AddWallet(nodeID)
	if err != nil {
		t.Fatalf("AddWallet: %v", err)
	}
	w, ok := ws.GetWallet(pub)
	if !ok {
		t.Fatal("expected newly added wallet to be retrievable")
	}
	if w.PublicHex != pub {
		t.Fatalf("expected stored wallet's public hex to match, got %q", w.PublicHex)
	}

	addrs := ws.GetAllAddresses()
	if len(addrs) != 1 || addrs[0] != pub {
		t.Fatalf("expected exactly one address %q, got %v", pub, addrs)
	}
}
