package wallet

import (
	"encoding/json"
	"fmt"
	"os"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 10:35
 */

// walletFile is the per-node keystore path, namespaced by NODE_ID. Keys
// are stored as JSON, not gob: Wallet is plain hex strings end-to-end, so
// the same json.Marshal/Unmarshal used everywhere else on the wire
// handles it too, with no custom (Gob|Un)Encode needed.
const walletFile = "./tmp/wallets_%s.json"

// Wallets is a node-local keystore: every wallet this node has created,
// keyed by its public hex (the same identity the ledger keys on).
type Wallets struct {
	Wallets map[string]*Wallet `json:"wallets"`
}

// CreateWallets loads the existing keystore for nodeID, or returns an
// empty one if none exists yet.
func CreateWallets(nodeID string) (*Wallets, error) {
	ws := &Wallets{Wallets: make(map[string]*Wallet)}
	err := ws.LoadFile(nodeID)
	if os.IsNotExist(err) {
		return ws, nil
	}
	return ws, err
}

// AddWallet generates a fresh key pair, stores it keyed by its public hex,
// persists the keystore, and returns the public hex (the ledger identity
// for this new account).
func (ws *Wallets) AddWallet(nodeID string) (string, error) {
	w, err := New()
	if err != nil {
		return "", err
	}
	ws.Wallets[w.PublicHex] = w
	ws.SaveFile(nodeID)
	return w.PublicHex, nil
}

// GetAllAddresses returns every public hex this keystore holds.
func (ws *Wallets) GetAllAddresses() []string {
	out := make([]string, 0, len(ws.Wallets))
	for pub := range ws.Wallets {
		out = append(out, pub)
	}
	return out
}

// GetWallet looks a wallet up by its public hex.
func (ws *Wallets) GetWallet(publicHex string) (*Wallet, bool) {
	w, ok := ws.Wallets[publicHex]
	return w, ok
}

// LoadFile reads the keystore from disk. A missing file is reported via
// os.IsNotExist, matching a fresh node that has never created a wallet.
func (ws *Wallets) LoadFile(nodeID string) error {
	path := fmt.Sprintf(walletFile, nodeID)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var loaded Wallets
	if err := json.Unmarshal(data, &loaded); err != nil {
		return err
	}
	ws.Wallets = loaded.Wallets
	return nil
}

// SaveFile writes the keystore to disk, creating the containing directory
// if needed.
func (ws *Wallets) SaveFile(nodeID string) {
	path := fmt.Sprintf(walletFile, nodeID)
	if err := os.MkdirAll("./tmp", 0755); err != nil {
		return
	}
	data, err := json.Marshal(ws)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}
