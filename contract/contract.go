package contract

import (
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/ledgerd/ledgerd/crypto"
	"github.com/ledgerd/ledgerd/store"
	"github.com/ledgerd/ledgerd/vm"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 13/12/2025
 * Time: 11:20
 */

// Contract is a deployed program with its own address, bytecode,
// persistent storage and accumulated balance.
type Contract struct {
	Address   string            `json:"address"`
	Bytecode  []byte            `json:"-"`
	Creator   string            `json:"creator"`
	Storage   map[string]string `json:"storage"`
	Balance   int64             `json:"balance"`
	CreatedAt int64             `json:"created_at"`
}

// contractWire is Contract's on-the-wire shape: bytecode serializes as an
// array of byte integers rather than the base64 string encoding/json
// would otherwise give a []byte field.
type contractWire struct {
	Address   string            `json:"address"`
	Bytecode  []int             `json:"bytecode"`
	Creator   string            `json:"creator"`
	Storage   map[string]string `json:"storage"`
	Balance   int64             `json:"balance"`
	CreatedAt int64             `json:"created_at"`
}

func (c *Contract) MarshalJSON() ([]byte, error) {
	bc := make([]int, len(c.Bytecode))
	for i, b := range c.Bytecode {
		bc[i] = int(b)
	}
	return json.Marshal(contractWire{
		Address: c.Address, Bytecode: bc, Creator: c.Creator,
		Storage: c.Storage, Balance: c.Balance, CreatedAt: c.CreatedAt,
	})
}

func (c *Contract) UnmarshalJSON(data []byte) error {
	var w contractWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	bc := make([]byte, len(w.Bytecode))
	for i, v := range w.Bytecode {
		bc[i] = byte(v)
	}
	c.Address = w.Address
	c.Bytecode = bc
	c.Creator = w.Creator
	c.Storage = w.Storage
	c.Balance = w.Balance
	c.CreatedAt = w.CreatedAt
	return nil
}

// Manager owns the live contract table, keeping a per-deployer deploy
// counter for address derivation and serializing every Call behind mu.
type Manager struct {
	mu sync.Mutex

	contracts map[string]*Contract
	nonces    map[string]int64
	store     *store.Store
}

// NewManager constructs a contract manager backed by s for persistence.
func NewManager(s *store.Store) *Manager {
	return &Manager{
		contracts: make(map[string]*Contract),
		nonces:    make(map[string]int64),
		store:     s,
	}
}

// deriveAddress builds a contract address as
// "contract_" + first_40_hex(sha256(deployer || nonce || now_ms)).
func deriveAddress(deployer string, nonce, nowMS int64) string {
	digest := crypto.Sha256Hex([]byte(deployer + strconv.FormatInt(nonce, 10) + strconv.FormatInt(nowMS, 10)))
	return "contract_" + digest[:40]
}

// DeployResult reports what happened when a constructor ran.
type DeployResult struct {
	Address string
	Gas     vm.Result
}

// Deploy accepts either raw bytecode or assembly source (compiled first),
// derives a fresh address, runs the constructor once with empty calldata,
// and persists the contract only if the constructor succeeds.
func (m *Manager) Deploy(creator string, code []byte, isSource bool, gasLimit uint64) (*DeployResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bytecode := code
	if isSource {
		compiled, err := Compile(string(code))
		if err != nil {
			return nil, err
		}
		bytecode = compiled
	}

	nonce := m.nonces[creator]
	nowMS := time.Now().UnixMilli()
	address := deriveAddress(creator, nonce, nowMS)
	m.nonces[creator] = nonce + 1

	c := &Contract{
		Address:   address,
		Bytecode:  bytecode,
		Creator:   creator,
		Storage:   make(map[string]string),
		CreatedAt: nowMS,
	}

	result := vm.Execute(bytecode, c.Storage, vm.CallContext{
		Caller: creator, CallData: nil, GasLimit: gasLimit,
	})

	if !result.Success {
		return &DeployResult{Address: address, Gas: result}, nil
	}

	c.Storage = result.Storage
	m.contracts[address] = c
	if err := m.persist(c); err != nil {
		return nil, err
	}
	return &DeployResult{Address: address, Gas: result}, nil
}

// Call looks up a contract (in-memory, then the store), executes its
// bytecode with the supplied caller/value/data/gas, and persists the
// contract only on success. A failed call changes nothing but the gas
// accounting reported to the caller.
func (m *Manager) Call(address, caller string, value int64, data []byte, gasLimit uint64) (vm.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, err := m.lookupLocked(address)
	if err != nil {
		return vm.Result{}, err
	}

	result := vm.Execute(c.Bytecode, c.Storage, vm.CallContext{
		Caller: caller, CallValue: uint64(value), CallData: data, GasLimit: gasLimit,
	})

	if !result.Success {
		return result, nil
	}

	c.Storage = result.Storage
	c.Balance += value
	if err := m.persist(c); err != nil {
		return result, err
	}
	return result, nil
}

// Get returns a contract by address, checking memory then the store.
func (m *Manager) Get(address string) (*Contract, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookupLocked(address)
}

func (m *Manager) lookupLocked(address string) (*Contract, error) {
	if c, ok := m.contracts[address]; ok {
		return c, nil
	}
	raw, found, err := m.store.GetContract(address)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrContractNotFound
	}
	var c Contract
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	m.contracts[address] = &c
	return &c, nil
}

func (m *Manager) persist(c *Contract) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return m.store.SaveContract(c.Address, raw)
}
