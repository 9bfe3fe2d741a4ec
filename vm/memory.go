package vm

import "github.com/holiman/uint256"

// memory is the VM's per-execution scratch space: a sparse, word-addressed
// map rather than a flat byte array. Word index doubles as the address
// MLOAD/MSTORE operate on.
type memory struct {
	words map[uint64]*uint256.Int
}

func newMemory() *memory {
	return &memory{words: make(map[uint64]*uint256.Int)}
}

func (m *memory) load(offset uint64) *uint256.Int {
	if v, ok := m.words[offset]; ok {
		return new(uint256.Int).Set(v)
	}
	return new(uint256.Int)
}

func (m *memory) store(offset uint64, value *uint256.Int) {
	m.words[offset] = new(uint256.Int).Set(value)
}

// storageTable is a contract's persistent key->value map, 256-bit to
// 256-bit. It is distinct from transient per-execution memory.
type storageTable struct {
	slots map[string]*uint256.Int
}

func newStorageTable() *storageTable {
	return &storageTable{slots: make(map[string]*uint256.Int)}
}

// storageFromMap builds a storageTable from the decimal-string
// representation contracts are persisted with.
func storageFromMap(m map[string]string) *storageTable {
	t := newStorageTable()
	for k, v := range m {
		n := new(uint256.Int)
		if err := n.SetFromDecimal(v); err != nil {
			continue
		}
		t.slots[k] = n
	}
	return t
}

func (t *storageTable) load(key *uint256.Int) *uint256.Int {
	if v, ok := t.slots[key.Dec()]; ok {
		return new(uint256.Int).Set(v)
	}
	return new(uint256.Int)
}

func (t *storageTable) store(key, value *uint256.Int) {
	t.slots[key.Dec()] = new(uint256.Int).Set(value)
}
