package chain

import "strings"

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 12/12/2025
 * Time: 10:05
 */

/**
 * PROOF OF WORK
 *
 * Mining increments a block's nonce and recomputes its hash until the hash
 * begins with `difficulty` leading '0' hex characters: a literal count of
 * leading zero hex digits, simpler to reason about and to verify by
 * inspection than a bit-shifted big.Int target.
 */

// ProofOfWork drives the mining loop for a single block at a given
// difficulty.
type ProofOfWork struct {
	Block      *Block
	Difficulty int
}

// NewProofOfWork binds a block to a difficulty target.
func NewProofOfWork(b *Block, difficulty int) *ProofOfWork {
	return &ProofOfWork{Block: b, Difficulty: difficulty}
}

// meetsTarget reports whether hash begins with the required count of
// leading zero hex characters.
func meetsTarget(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	if len(hash) < difficulty {
		return false
	}
	return strings.Count(hash[:difficulty], "0") == difficulty
}

// Run increments the block's nonce and recomputes its hash until the
// target is met. This is synchronous, CPU-bound and uninterruptible;
// cancellation, if added, must not affect the invariant that a
// successfully mined block meets its target.
func (pow *ProofOfWork) Run() {
	b := pow.Block
	b.Nonce = 0
	b.Hash = b.ComputeHash()
	for !meetsTarget(b.Hash, pow.Difficulty) {
		b.Nonce++
		b.Hash = b.ComputeHash()
	}
}

// Validate reports whether the block's stored hash both matches a
// recomputation and meets the difficulty target: the single-calculation
// verification half of proof of work.
func (pow *ProofOfWork) Validate() bool {
	b := pow.Block
	return b.Hash == b.ComputeHash() && meetsTarget(b.Hash, pow.Difficulty)
}
