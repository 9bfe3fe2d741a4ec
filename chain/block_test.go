package chain

import "testing"

func TestGenesisBlock(t *testing.T) {
	g := Genesis()
	if g.Index != 0 {
		t.Fatalf("expected genesis index 0, got %d", g.Index)
	}
	if g.PreviousHash != "0" {
		t.Fatalf("expected genesis previous_hash '0', got %q", g.PreviousHash)
	}
	if len(g.Transactions) != 0 {
		t.Fatalf("expected genesis to have no transactions, got %d", len(g.Transactions))
	}
	if g.Hash != g.ComputeHash() {
		t.Fatal("expected genesis hash to match its own recomputation")
	}
}

func TestBlockHashDeterministic(t *testing.T) {
	a := NewBlock(1, nil, "0")
	a.Timestamp = 1234
	b := NewBlock(1, nil, "0")
	b.Timestamp = 1234

	if a.ComputeHash() != b.ComputeHash() {
		t.Fatal("expected two blocks with identical fields to hash identically")
	}
}

func TestMiningMeetsDifficultyTarget(t *testing.T) {
	b := NewBlock(1, nil, "0")
	NewProofOfWork(b, 2).Run()

	if len(b.Hash) < 2 || b.Hash[:2] != "00" {
		t.Fatalf("expected mined hash to start with 2 zeros, got %s", b.Hash)
	}
	if b.Hash != b.ComputeHash() {
		t.Fatal("expected mined hash to match a recomputation")
	}
}

func TestHasValidTransactionsRejectsInvalidEntry(t *testing.T) {
	sender := mustKeyPair(t)
	receiver := mustKeyPair(t)
	tx := NewTransaction(sender.PublicHex, receiver.PublicHex, 10) // unsigned
	b := NewBlock(1, []*Transaction{tx}, "0")
	if b.HasValidTransactions() {
		t.Fatal("expected block with an unsigned transaction to be invalid")
	}
}
