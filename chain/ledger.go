package chain

import (
	"encoding/json"
	"sync"

	"github.com/ledgerd/ledgerd/store"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 11:05
 */

// DefaultDifficulty and DefaultMiningReward are the reference
// configuration most nodes run with.
const (
	DefaultDifficulty   = 4
	DefaultMiningReward = int64(50)
)

// TaggedTransaction pairs a transaction with the index of the block that
// contains it, as returned by GetTransactionsFor.
type TaggedTransaction struct {
	Transaction *Transaction
	BlockIndex  int64
}

// Ledger owns the chain array and the pending pool. Every chain-mutating
// operation takes mu, a single mutex covering the Ledger, Store and
// pending pool together.
type Ledger struct {
	mu sync.Mutex

	chain   []*Block
	pending []*Transaction

	store *store.Store

	difficulty   int
	miningReward int64
}

// NewLedger constructs a ledger with the given difficulty and mining
// reward; callers almost always pass DefaultDifficulty/DefaultMiningReward.
func NewLedger(difficulty int, miningReward int64) *Ledger {
	return &Ledger{difficulty: difficulty, miningReward: miningReward}
}

// Initialize opens the store at path. If the store is empty, a genesis
// block is created and persisted; otherwise the chain is rebuilt from the
// height index and the pending pool is reloaded. Idempotent: calling it
// again on an already-initialized ledger returns nil and leaves the open
// store and the in-memory state as they are.
func (l *Ledger) Initialize(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.store != nil {
		return nil
	}

	fresh := !store.Exists(path)
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	l.store = s

	if fresh {
		genesis := Genesis()
		l.chain = []*Block{genesis}
		if err := l.persistBlockLocked(genesis); err != nil {
			return err
		}
		l.pending = nil
		return nil
	}

	chainLength, found, err := s.GetMeta(store.MetaChainLength)
	if err != nil {
		return err
	}
	if !found {
		chainLength = 0
	}
	hashes, err := s.LoadChainHashes(chainLength)
	if err != nil {
		return err
	}
	chain := make([]*Block, 0, len(hashes))
	for _, hash := range hashes {
		blockJSON, found, err := s.GetBlockJSON(hash)
		if err != nil {
			return err
		}
		if !found {
			break
		}
		block, err := deserializeBlock(blockJSON)
		if err != nil {
			return err
		}
		chain = append(chain, block)
	}
	l.chain = chain

	pendingRaw, err := s.LoadPending()
	if err != nil {
		return err
	}
	pending := make([]*Transaction, 0, len(pendingRaw))
	for _, v := range pendingRaw {
		var tx Transaction
		if err := json.Unmarshal(v, &tx); err != nil {
			return err
		}
		pending = append(pending, &tx)
	}
	l.pending = pending
	return nil
}

// Close releases the underlying store handle.
func (l *Ledger) Close() error {
	if l.store == nil {
		return nil
	}
	return l.store.Close()
}

func serializeBlock(b *Block) ([]byte, error) { return json.Marshal(b) }

func deserializeBlock(data []byte) (*Block, error) {
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// persistBlockLocked writes block atomically (block:, height:, every tx:
// entry, meta:chainLength). Caller must hold mu and must have already
// appended b to l.chain, so len(l.chain) reflects the post-append length.
func (l *Ledger) persistBlockLocked(b *Block) error {
	blockJSON, err := serializeBlock(b)
	if err != nil {
		return err
	}
	txEntries := make(map[string][]byte, len(b.Transactions))
	for _, tx := range b.Transactions {
		entry, err := json.Marshal(struct {
			BlockHash  string `json:"block_hash"`
			BlockIndex int64  `json:"block_index"`
		}{BlockHash: b.Hash, BlockIndex: b.Index})
		if err != nil {
			return err
		}
		txEntries[tx.TxID()] = entry
	}
	return l.store.SaveBlock(b.Hash, b.Index, blockJSON, txEntries, int64(len(l.chain)))
}

func (l *Ledger) tipLocked() *Block {
	if len(l.chain) == 0 {
		return nil
	}
	return l.chain[len(l.chain)-1]
}

func fingerprintInPending(pending []*Transaction, fp string) bool {
	for _, tx := range pending {
		if tx.Fingerprint() == fp {
			return true
		}
	}
	return false
}

// AddTransaction validates and appends tx to the pending pool, failing
// with MissingReceiver, ErrInvalidTransaction, or ErrInsufficientBalance.
// Mining-reward transactions bypass the balance check.
func (l *Ledger) AddTransaction(tx *Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tx.Receiver == "" {
		return ErrMissingReceiver
	}
	if !tx.IsValid() {
		return ErrInvalidTransaction
	}
	if !tx.IsReward() {
		if l.balanceLocked(tx.Sender) < tx.Amount {
			return ErrInsufficientBalance
		}
	}
	if fingerprintInPending(l.pending, tx.Fingerprint()) {
		return nil
	}

	l.pending = append(l.pending, tx)
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return l.store.SavePending(tx.TxID(), txJSON)
}

// MinePending drains the pending pool (plus a freshly appended reward
// transaction) into a new block, mines it, appends it to the chain,
// clears pending, and persists the block and cleared pending pool.
func (l *Ledger) MinePending(miner string) (*Block, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	reward := NewTransaction("", miner, l.miningReward)
	l.pending = append(l.pending, reward)

	tip := l.tipLocked()
	block := NewBlock(tip.Index+1, l.pending, tip.Hash)
	NewProofOfWork(block, l.difficulty).Run()

	l.chain = append(l.chain, block)
	if err := l.persistBlockLocked(block); err != nil {
		return nil, err
	}
	l.pending = nil
	if err := l.store.ClearPending(); err != nil {
		return nil, err
	}
	return block, nil
}

func (l *Ledger) balanceLocked(address string) int64 {
	var balance int64
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if tx.Receiver == address {
				balance += tx.Amount
			}
			if tx.Sender == address {
				balance -= tx.Amount
			}
		}
	}
	return balance
}

// Balance scans every block and transaction. The result may be negative
// only if validation elsewhere failed to prevent it.
func (l *Ledger) Balance(address string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceLocked(address)
}

// GetTransactionsFor returns every transaction where address is sender or
// receiver, tagged with its containing block's index.
func (l *Ledger) GetTransactionsFor(address string) []TaggedTransaction {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []TaggedTransaction
	for _, block := range l.chain {
		for _, tx := range block.Transactions {
			if tx.Sender == address || tx.Receiver == address {
				out = append(out, TaggedTransaction{Transaction: tx, BlockIndex: block.Index})
			}
		}
	}
	return out
}

// IsChainValid checks, for i>=1, that the stored hash matches a
// recomputation, that the previous-hash link holds, and that every
// transaction in the block is individually valid (which does re-verify
// signatures). Genesis is not hash-re-checked, a deliberate quirk carried
// forward since genesis has no predecessor to validate against.
func (l *Ledger) IsChainValid() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return isChainValid(l.chain)
}

func isChainValid(c []*Block) bool {
	for i := 1; i < len(c); i++ {
		if c[i].Hash != c[i].ComputeHash() {
			return false
		}
		if c[i].PreviousHash != c[i-1].Hash {
			return false
		}
		if !c[i].HasValidTransactions() {
			return false
		}
	}
	return true
}

// AddBlock is the reception path for a block offered by a peer. It is
// accepted only if it links to the current tip, its index is exactly
// tip+1, its hash matches a recomputation, and the hash meets the
// difficulty target. On acceptance, any pending transactions whose
// fingerprint appears in the new block are removed.
func (l *Ledger) AddBlock(b *Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	tip := l.tipLocked()
	if b.PreviousHash != tip.Hash {
		return ErrBlockLinkMismatch
	}
	if b.Index != tip.Index+1 {
		return ErrBlockLinkMismatch
	}
	if b.Hash != b.ComputeHash() {
		return ErrBlockHashMismatch
	}
	if !meetsTarget(b.Hash, l.difficulty) {
		return ErrBlockDifficultyUnmet
	}

	l.chain = append(l.chain, b)
	if err := l.persistBlockLocked(b); err != nil {
		return err
	}

	included := make(map[string]bool, len(b.Transactions))
	for _, tx := range b.Transactions {
		included[tx.Fingerprint()] = true
	}
	remaining := l.pending[:0:0]
	for _, tx := range l.pending {
		if included[tx.Fingerprint()] {
			if err := l.store.DeletePending(tx.TxID()); err != nil {
				return err
			}
			continue
		}
		remaining = append(remaining, tx)
	}
	l.pending = remaining
	return nil
}

// AddReceivedTransaction dedupes tx by fingerprint against the pending
// pool, validates it, and appends it if new and valid. Gossip's NEW_TX
// handler uses this rather than AddTransaction so that an already-known
// transaction is a silent no-op, never an error.
func (l *Ledger) AddReceivedTransaction(tx *Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fingerprintInPending(l.pending, tx.Fingerprint()) {
		return nil
	}
	if !tx.IsValid() {
		return ErrInvalidTransaction
	}

	l.pending = append(l.pending, tx)
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return l.store.SavePending(tx.TxID(), txJSON)
}

// ValidateChain checks a candidate chain as a whole: non-empty, and for
// i>=1 the hash, link and PoW target all check out. It deliberately does
// not re-verify transaction signatures the way IsChainValid does; a
// candidate chain is judged on its proof of work, not re-validated
// transaction by transaction.
func ValidateChain(c []*Block, difficulty int) bool {
	if len(c) == 0 {
		return false
	}
	for i := 1; i < len(c); i++ {
		if c[i].Hash != c[i].ComputeHash() {
			return false
		}
		if c[i].PreviousHash != c[i-1].Hash {
			return false
		}
		if !meetsTarget(c[i].Hash, difficulty) {
			return false
		}
	}
	return true
}

// ReplaceChain validates candidate as a whole and, if it is both valid and
// strictly longer than the current chain, persists it and then swaps it in
// as the in-memory chain. Each block is written in its own SaveBlock
// batch, so the persisted replacement is not atomic as a whole: an error
// partway through returns with the in-memory chain unchanged but with the
// blocks already written left in the store. A candidate equal in length to
// or shorter than the current chain is rejected with ErrChainNotLonger and
// an invalid one with ErrChainInvalid; in both cases nothing changes.
// It does not sweep stale block:/tx: entries left behind by the
// chain it replaces, nor does it touch the pending pool: pending
// transactions are left exactly as they were before the replacement.
func (l *Ledger) ReplaceChain(candidate []*Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(candidate) <= len(l.chain) {
		return ErrChainNotLonger
	}
	if !ValidateChain(candidate, l.difficulty) {
		return ErrChainInvalid
	}

	for _, b := range candidate {
		if err := l.persistBlockAtLengthLocked(b, candidate); err != nil {
			return err
		}
	}
	l.chain = candidate
	return nil
}

// persistBlockAtLengthLocked writes one block of a replacement chain,
// reporting the replacement chain's own length rather than the current
// in-memory length (which only updates once the whole replacement
// succeeds).
func (l *Ledger) persistBlockAtLengthLocked(b *Block, fullChain []*Block) error {
	blockJSON, err := serializeBlock(b)
	if err != nil {
		return err
	}
	txEntries := make(map[string][]byte, len(b.Transactions))
	for _, tx := range b.Transactions {
		entry, err := json.Marshal(struct {
			BlockHash  string `json:"block_hash"`
			BlockIndex int64  `json:"block_index"`
		}{BlockHash: b.Hash, BlockIndex: b.Index})
		if err != nil {
			return err
		}
		txEntries[tx.TxID()] = entry
	}
	return l.store.SaveBlock(b.Hash, b.Index, blockJSON, txEntries, int64(len(fullChain)))
}

// Length returns the current chain length.
func (l *Ledger) Length() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.chain)
}

// Tip returns the current chain tip.
func (l *Ledger) Tip() *Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tipLocked()
}

// Chain returns a copy of the chain slice (blocks themselves are shared,
// never mutated once appended).
func (l *Ledger) Chain() []*Block {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Block, len(l.chain))
	copy(out, l.chain)
	return out
}

// Pending returns a copy of the pending pool.
func (l *Ledger) Pending() []*Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*Transaction, len(l.pending))
	copy(out, l.pending)
	return out
}

// FindBlockByHash looks a block up by hash, checking the in-memory chain
// first and falling back to the store.
func (l *Ledger) FindBlockByHash(hash string) (*Block, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, b := range l.chain {
		if b.Hash == hash {
			return b, true
		}
	}
	blockJSON, found, err := l.store.GetBlockJSON(hash)
	if err != nil || !found {
		return nil, false
	}
	b, err := deserializeBlock(blockJSON)
	if err != nil {
		return nil, false
	}
	return b, true
}

// Difficulty returns the configured mining difficulty.
func (l *Ledger) Difficulty() int { return l.difficulty }

// StoreHandle exposes the underlying store so sibling subsystems (the
// contract manager's contract: entries) can share the same on-disk
// database the ledger persists blocks and pending transactions to.
func (l *Ledger) StoreHandle() *store.Store { return l.store }
