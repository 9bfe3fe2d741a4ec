package gossip

import (
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledgerd/ledgerd/chain"
	"github.com/ledgerd/ledgerd/crypto"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func newTestLedger(t *testing.T) *chain.Ledger {
	t.Helper()
	l := chain.NewLedger(1, 50)
	if err := l.Initialize(filepath.Join(t.TempDir(), "store")); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestServerRejectsSelfConnection(t *testing.T) {
	url := fmt.Sprintf("ledgerd://127.0.0.1:%d", freePort(t))
	s := NewServer(url, nil, newTestLedger(t))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Close()

	if err := s.ConnectToPeer(url); err != ErrSelfConnection {
		t.Fatalf("expected ErrSelfConnection, got %v", err)
	}
}

func TestTwoServersHandshakeAndTrackEachOther(t *testing.T) {
	urlA := fmt.Sprintf("ledgerd://127.0.0.1:%d", freePort(t))
	urlB := fmt.Sprintf("ledgerd://127.0.0.1:%d", freePort(t))

	a := NewServer(urlA, nil, newTestLedger(t))
	b := NewServer(urlB, nil, newTestLedger(t))
	if err := a.Start(); err != nil {
		t.Fatalf("a.Start: %v", err)
	}
	defer a.Close()
	if err := b.Start(); err != nil {
		t.Fatalf("b.Start: %v", err)
	}
	defer b.Close()

	if err := b.ConnectToPeer(urlA); err != nil {
		t.Fatalf("ConnectToPeer: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return a.ConnectedPeerCount() == 1 })
	waitFor(t, 2*time.Second, func() bool { return b.ConnectedPeerCount() == 1 })
}

func TestBroadcastTransactionReachesPendingPool(t *testing.T) {
	urlA := fmt.Sprintf("ledgerd://127.0.0.1:%d", freePort(t))
	urlB := fmt.Sprintf("ledgerd://127.0.0.1:%d", freePort(t))

	ledgerA := newTestLedger(t)
	ledgerB := newTestLedger(t)
	a := NewServer(urlA, nil, ledgerA)
	b := NewServer(urlB, nil, ledgerB)
	if err := a.Start(); err != nil {
		t.Fatalf("a.Start: %v", err)
	}
	defer a.Close()
	if err := b.Start(); err != nil {
		t.Fatalf("b.Start: %v", err)
	}
	defer b.Close()

	if err := b.ConnectToPeer(urlA); err != nil {
		t.Fatalf("ConnectToPeer: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return a.ConnectedPeerCount() == 1 })

	sender, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	receiver, err := crypto.GenerateKeyPair()
	if err != nil {
		t.Fatalf("keypair: %v", err)
	}
	if _, err := ledgerA.MinePending(sender.PublicHex); err != nil {
		t.Fatalf("MinePending: %v", err)
	}

	tx := chain.NewTransaction(sender.PublicHex, receiver.PublicHex, 10)
	if err := tx.Sign(sender.PrivateHex); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	a.BroadcastTransaction(tx)

	waitFor(t, 2*time.Second, func() bool { return len(ledgerB.Pending()) == 1 })
}
