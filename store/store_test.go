package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveAndLoadBlock(t *testing.T) {
	s := openTestStore(t)

	txEntries := map[string][]byte{"abc123": []byte(`{"block_hash":"h","block_index":0}`)}
	if err := s.SaveBlock("h1", 0, []byte(`{"hash":"h1"}`), txEntries, 1); err != nil {
		t.Fatalf("SaveBlock: %v", err)
	}

	got, found, err := s.GetBlockJSON("h1")
	if err != nil || !found {
		t.Fatalf("GetBlockJSON: found=%v err=%v", found, err)
	}
	if string(got) != `{"hash":"h1"}` {
		t.Fatalf("unexpected block JSON: %s", got)
	}

	hash, found, err := s.GetBlockHashAtHeight(0)
	if err != nil || !found || hash != "h1" {
		t.Fatalf("GetBlockHashAtHeight: hash=%q found=%v err=%v", hash, found, err)
	}

	length, found, err := s.GetMeta(MetaChainLength)
	if err != nil || !found || length != 1 {
		t.Fatalf("GetMeta chainLength: length=%d found=%v err=%v", length, found, err)
	}
}

func TestPendingRoundTrip(t *testing.T) {
	s := openTestStore(t)

	if err := s.SavePending("tx1", []byte(`{"amount":1}`)); err != nil {
		t.Fatalf("SavePending: %v", err)
	}
	if err := s.SavePending("tx2", []byte(`{"amount":2}`)); err != nil {
		t.Fatalf("SavePending: %v", err)
	}

	pending, err := s.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending entries, got %d", len(pending))
	}

	if err := s.ClearPending(); err != nil {
		t.Fatalf("ClearPending: %v", err)
	}
	pending, err = s.LoadPending()
	if err != nil {
		t.Fatalf("LoadPending after clear: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected pending pool empty after clear, got %d entries", len(pending))
	}
}

func TestGetMissingKeyIsNotAnError(t *testing.T) {
	s := openTestStore(t)
	_, found, err := s.GetBlockJSON("does-not-exist")
	if err != nil {
		t.Fatalf("expected no error for a missing key, got %v", err)
	}
	if found {
		t.Fatal("expected found=false for a missing key")
	}
}

func TestLoadChainHashesStopsAtFirstGap(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveBlock("h0", 0, []byte("{}"), nil, 1); err != nil {
		t.Fatalf("SaveBlock: %v", err)
	}
	// height:1 is deliberately never written.
	if err := s.SaveBlock("h2", 2, []byte("{}"), nil, 3); err != nil {
		t.Fatalf("SaveBlock: %v", err)
	}

	hashes, err := s.LoadChainHashes(3)
	if err != nil {
		t.Fatalf("LoadChainHashes: %v", err)
	}
	if len(hashes) != 1 || hashes[0] != "h0" {
		t.Fatalf("expected a 1-element prefix [h0], got %v", hashes)
	}
}

func TestContractRoundTrip(t *testing.T) {
	s := openTestStore(t)
	if err := s.SaveContract("contract_abc", []byte(`{"address":"contract_abc"}`)); err != nil {
		t.Fatalf("SaveContract: %v", err)
	}
	got, found, err := s.GetContract("contract_abc")
	if err != nil || !found {
		t.Fatalf("GetContract: found=%v err=%v", found, err)
	}
	if string(got) != `{"address":"contract_abc"}` {
		t.Fatalf("unexpected contract JSON: %s", got)
	}
}
