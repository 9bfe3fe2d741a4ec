package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"
	"syscall"

	"github.com/vrecan/death/v3"

	"github.com/ledgerd/ledgerd/chain"
	"github.com/ledgerd/ledgerd/contract"
	"github.com/ledgerd/ledgerd/gossip"
	"github.com/ledgerd/ledgerd/vm"
	"github.com/ledgerd/ledgerd/wallet"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 14:05
 */

// CommandLine is the thin operator surface over the core's public
// operations: wallet creation, add_transaction/mine_pending/balance/
// is_chain_valid, one-shot broadcast to a peer, and contract
// deploy/call/get. It is not an HTTP front end, but it exercises the same
// behavioral surface one would.
type CommandLine struct{}

func (cli *CommandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println(" createwallet - create a new wallet in this node's keystore")
	fmt.Println(" listaddresses - list this node's wallet addresses")
	fmt.Println(" send -from PUBHEX -to PUBHEX -amount AMOUNT [-mine] [-peer URL] - submit a transfer")
	fmt.Println(" mine -miner PUBHEX [-peer URL] - mine the pending pool into a new block")
	fmt.Println(" balance -address PUBHEX - get the balance of an address")
	fmt.Println(" printchain - print every block in the chain")
	fmt.Println(" deploy -creator PUBHEX -source FILE [-gas LIMIT] - compile and deploy a contract")
	fmt.Println(" call -address CONTRACT -caller PUBHEX [-data HEX] [-value AMOUNT] [-gas LIMIT] - call a contract")
	fmt.Println(" getcontract -address CONTRACT - print a contract's stored state")
	fmt.Println(" startnode - run this node's gossip server (seed peers from SEED_NODES=URL,URL,...)")
}

func (cli *CommandLine) validateArgs() {
	if len(os.Args) < 2 {
		cli.printUsage()
		runtime.Goexit()
	}
}

func nodeID() string {
	id := os.Getenv("NODE_ID")
	if id == "" {
		fmt.Println("NODE_ID env is not set!")
		runtime.Goexit()
	}
	return id
}

func storePath(id string) string { return fmt.Sprintf("./tmp/store_%s", id) }

func selfURL(id string) string { return fmt.Sprintf("ledgerd://localhost:%s", id) }

func seedsFromEnv() []string {
	raw := os.Getenv("SEED_NODES")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

func handle(err error) {
	if err != nil {
		log.Panic(err)
	}
}

func openLedger(id string) *chain.Ledger {
	l := chain.NewLedger(chain.DefaultDifficulty, chain.DefaultMiningReward)
	handle(l.Initialize(storePath(id)))
	return l
}

func (cli *CommandLine) createWallet(id string) {
	ws, err := wallet.CreateWallets(id)
	handle(err)
	pub, err := ws.AddWallet(id)
	handle(err)
	w, _ := ws.GetWallet(pub)
	display, err := w.DisplayAddress()
	handle(err)
	fmt.Printf("New wallet created.\npublic: %s\ndisplay address: %s\n", pub, display)
}

func (cli *CommandLine) listAddresses(id string) {
	ws, err := wallet.CreateWallets(id)
	handle(err)
	for _, pub := range ws.GetAllAddresses() {
		fmt.Println(pub)
	}
}

func (cli *CommandLine) send(id, from, to string, amount int64, mine bool, peer string) {
	ws, err := wallet.CreateWallets(id)
	handle(err)
	w, ok := ws.GetWallet(from)
	if !ok {
		log.Panic("no such wallet in this node's keystore: " + from)
	}

	l := openLedger(id)
	defer l.Close()

	tx := chain.NewTransaction(from, to, amount)
	handle(tx.Sign(w.PrivateHex))
	if err := l.AddTransaction(tx); err != nil {
		log.Panic(err)
	}
	fmt.Println("transaction accepted into the pending pool")

	if peer != "" {
		if err := gossip.SendTransactionTo(peer, tx); err != nil {
			fmt.Printf("broadcast to %s failed: %v\n", peer, err)
		}
	}

	if mine {
		block, err := l.MinePending(from)
		handle(err)
		fmt.Printf("mined block %d: %s\n", block.Index, block.Hash)
		if peer != "" {
			if err := gossip.SendBlockTo(peer, block); err != nil {
				fmt.Printf("broadcast to %s failed: %v\n", peer, err)
			}
		}
	}
}

func (cli *CommandLine) mine(id, miner, peer string) {
	l := openLedger(id)
	defer l.Close()

	block, err := l.MinePending(miner)
	handle(err)
	fmt.Printf("mined block %d: %s\n", block.Index, block.Hash)

	if peer != "" {
		if err := gossip.SendBlockTo(peer, block); err != nil {
			fmt.Printf("broadcast to %s failed: %v\n", peer, err)
		}
	}
}

func (cli *CommandLine) balance(id, address string) {
	l := openLedger(id)
	defer l.Close()
	fmt.Printf("balance of %s: %d\n", address, l.Balance(address))
}

func (cli *CommandLine) printChain(id string) {
	l := openLedger(id)
	defer l.Close()

	for _, b := range l.Chain() {
		fmt.Printf("index: %d\n", b.Index)
		fmt.Printf("prev hash: %s\n", b.PreviousHash)
		fmt.Printf("hash: %s\n", b.Hash)
		fmt.Printf("nonce: %d\n", b.Nonce)
		for _, tx := range b.Transactions {
			kind := "reward"
			if !tx.IsReward() {
				kind = "transfer"
			}
			fmt.Printf("  tx (%s): %s -> %s : %d\n", kind, tx.Sender, tx.Receiver, tx.Amount)
		}
		fmt.Println()
	}
	fmt.Printf("chain valid: %v\n", l.IsChainValid())
}

func (cli *CommandLine) deploy(id, creator, sourcePath string, gasLimit uint64) {
	l := openLedger(id)
	defer l.Close()

	source, err := os.ReadFile(sourcePath)
	handle(err)

	mgr := contract.NewManager(l.StoreHandle())
	result, err := mgr.Deploy(creator, source, true, gasLimit)
	handle(err)

	fmt.Printf("contract address: %s\n", result.Address)
	fmt.Printf("constructor success: %v, gas used: %d\n", result.Gas.Success, result.Gas.GasUsed)
	if !result.Gas.Success {
		fmt.Printf("error: %s\n", result.Gas.Error)
	}
}

func (cli *CommandLine) call(id, address, caller, dataHex string, value int64, gasLimit uint64) {
	l := openLedger(id)
	defer l.Close()

	var data []byte
	if dataHex != "" {
		decoded, err := hex.DecodeString(dataHex)
		handle(err)
		data = decoded
	}

	mgr := contract.NewManager(l.StoreHandle())
	result, err := mgr.Call(address, caller, value, data, gasLimit)
	handle(err)

	fmt.Printf("success: %v, gas used: %d\n", result.Success, result.GasUsed)
	if len(result.ReturnData) > 0 {
		fmt.Printf("return data: %s\n", hex.EncodeToString(result.ReturnData))
	}
	if !result.Success {
		fmt.Printf("error: %s\n", result.Error)
	}
}

func (cli *CommandLine) getContract(id, address string) {
	l := openLedger(id)
	defer l.Close()

	mgr := contract.NewManager(l.StoreHandle())
	c, err := mgr.Get(address)
	handle(err)

	fmt.Printf("address: %s\ncreator: %s\nbalance: %d\ncreated_at: %d\n", c.Address, c.Creator, c.Balance, c.CreatedAt)
	for k, v := range c.Storage {
		fmt.Printf("  storage[%s] = %s\n", k, v)
	}
}

// StartNode launches the gossip server bound to this node's own port and
// blocks until SIGINT/SIGTERM, closing the ledger/store and the gossip
// server on the way out.
func (cli *CommandLine) StartNode(id string) {
	l := openLedger(id)
	server := gossip.NewServer(selfURL(id), seedsFromEnv(), l)
	handle(server.Start())
	fmt.Printf("node %s listening at %s\n", id, selfURL(id))

	d := death.NewDeath(syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	d.WaitForDeathWithFunc(func() {
		defer os.Exit(0)
		defer runtime.Goexit()
		_ = server.Close()
		_ = l.Close()
	})
}

func (cli *CommandLine) Run() {
	cli.validateArgs()
	id := nodeID()

	createWalletCmd := flag.NewFlagSet("createwallet", flag.ExitOnError)
	listAddressesCmd := flag.NewFlagSet("listaddresses", flag.ExitOnError)
	sendCmd := flag.NewFlagSet("send", flag.ExitOnError)
	mineCmd := flag.NewFlagSet("mine", flag.ExitOnError)
	balanceCmd := flag.NewFlagSet("balance", flag.ExitOnError)
	printChainCmd := flag.NewFlagSet("printchain", flag.ExitOnError)
	deployCmd := flag.NewFlagSet("deploy", flag.ExitOnError)
	callCmd := flag.NewFlagSet("call", flag.ExitOnError)
	getContractCmd := flag.NewFlagSet("getcontract", flag.ExitOnError)
	startNodeCmd := flag.NewFlagSet("startnode", flag.ExitOnError)

	sendFrom := sendCmd.String("from", "", "sender public hex")
	sendTo := sendCmd.String("to", "", "receiver public hex")
	sendAmount := sendCmd.Int64("amount", 0, "amount to send")
	sendMine := sendCmd.Bool("mine", false, "mine immediately on this node")
	sendPeer := sendCmd.String("peer", "", "peer node_url to broadcast to")

	mineMiner := mineCmd.String("miner", "", "public hex to receive the mining reward")
	minePeer := mineCmd.String("peer", "", "peer node_url to broadcast the mined block to")

	balanceAddress := balanceCmd.String("address", "", "public hex to query")

	deployCreator := deployCmd.String("creator", "", "deployer public hex")
	deploySource := deployCmd.String("source", "", "path to assembly source file")
	deployGas := deployCmd.Uint64("gas", vm.DefaultGasLimit, "gas limit")

	callAddress := callCmd.String("address", "", "contract address")
	callCaller := callCmd.String("caller", "", "caller public hex")
	callData := callCmd.String("data", "", "hex-encoded calldata")
	callValue := callCmd.Int64("value", 0, "value attached to the call")
	callGas := callCmd.Uint64("gas", vm.DefaultGasLimit, "gas limit")

	getContractAddress := getContractCmd.String("address", "", "contract address")

	switch os.Args[1] {
	case "createwallet":
		handle(createWalletCmd.Parse(os.Args[2:]))
	case "listaddresses":
		handle(listAddressesCmd.Parse(os.Args[2:]))
	case "send":
		handle(sendCmd.Parse(os.Args[2:]))
	case "mine":
		handle(mineCmd.Parse(os.Args[2:]))
	case "balance":
		handle(balanceCmd.Parse(os.Args[2:]))
	case "printchain":
		handle(printChainCmd.Parse(os.Args[2:]))
	case "deploy":
		handle(deployCmd.Parse(os.Args[2:]))
	case "call":
		handle(callCmd.Parse(os.Args[2:]))
	case "getcontract":
		handle(getContractCmd.Parse(os.Args[2:]))
	case "startnode":
		handle(startNodeCmd.Parse(os.Args[2:]))
	default:
		cli.printUsage()
		runtime.Goexit()
	}

	if createWalletCmd.Parsed() {
		cli.createWallet(id)
	}
	if listAddressesCmd.Parsed() {
		cli.listAddresses(id)
	}
	if sendCmd.Parsed() {
		if *sendFrom == "" || *sendTo == "" || *sendAmount <= 0 {
			sendCmd.Usage()
			runtime.Goexit()
		}
		cli.send(id, *sendFrom, *sendTo, *sendAmount, *sendMine, *sendPeer)
	}
	if mineCmd.Parsed() {
		if *mineMiner == "" {
			mineCmd.Usage()
			runtime.Goexit()
		}
		cli.mine(id, *mineMiner, *minePeer)
	}
	if balanceCmd.Parsed() {
		if *balanceAddress == "" {
			balanceCmd.Usage()
			runtime.Goexit()
		}
		cli.balance(id, *balanceAddress)
	}
	if printChainCmd.Parsed() {
		cli.printChain(id)
	}
	if deployCmd.Parsed() {
		if *deployCreator == "" || *deploySource == "" {
			deployCmd.Usage()
			runtime.Goexit()
		}
		cli.deploy(id, *deployCreator, *deploySource, *deployGas)
	}
	if callCmd.Parsed() {
		if *callAddress == "" || *callCaller == "" {
			callCmd.Usage()
			runtime.Goexit()
		}
		cli.call(id, *callAddress, *callCaller, *callData, *callValue, *callGas)
	}
	if getContractCmd.Parsed() {
		if *getContractAddress == "" {
			getContractCmd.Usage()
			runtime.Goexit()
		}
		cli.getContract(id, *getContractAddress)
	}
	if startNodeCmd.Parsed() {
		cli.StartNode(id)
	}
}
