package gossip

import (
	"log"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/ledgerd/ledgerd/chain"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 09:45
 */

// reconnectInterval is how often the discovery loop retries known peers
// that aren't currently connected.
const reconnectInterval = 30 * time.Second

// dialTimeout bounds outbound connection attempts.
const dialTimeout = 2 * time.Second

// Server runs the message-oriented streaming gossip protocol: it accepts
// inbound connections, dials seed and discovered peers, and propagates
// transactions and blocks to every connected peer. It holds a reference to
// the Ledger but only ever mutates it through its public operations.
type Server struct {
	nodeURL string
	seeds   []string
	ledger  *chain.Ledger

	mu         sync.RWMutex
	peers      map[string]*Peer // keyed by peer node_url
	knownPeers map[string]bool

	listener net.Listener
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewServer constructs a gossip server. nodeURL is this node's own
// scheme://host:port identity; seeds are statically configured bootstrap
// peers.
func NewServer(nodeURL string, seeds []string, ledger *chain.Ledger) *Server {
	return &Server{
		nodeURL:    nodeURL,
		seeds:      seeds,
		ledger:     ledger,
		peers:      make(map[string]*Peer),
		knownPeers: make(map[string]bool),
		stopCh:     make(chan struct{}),
	}
}

func hostPort(nodeURL string) (string, error) {
	u, err := url.Parse(nodeURL)
	if err != nil {
		return "", err
	}
	return u.Host, nil
}

// Start opens the listening socket and launches the accept loop and the
// discovery/reconnection loop. It returns once the listener is bound;
// both loops run in background goroutines until Close.
func (s *Server) Start() error {
	host, err := hostPort(s.nodeURL)
	if err != nil {
		return err
	}
	ln, err := net.Listen("tcp", host)
	if err != nil {
		return err
	}
	s.listener = ln

	s.wg.Add(2)
	go s.acceptLoop()
	go s.discoveryLoop()
	return nil
}

// Close stops the listener, the discovery loop, and every peer connection.
func (s *Server) Close() error {
	close(s.stopCh)
	err := s.listener.Close()

	s.mu.Lock()
	for _, p := range s.peers {
		p.close()
	}
	s.mu.Unlock()

	s.wg.Wait()
	return err
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				continue
			}
		}
		go s.handleConnection(conn)
	}
}

// discoveryLoop connects to every seed (after a short startup delay) and
// then, every reconnectInterval, attempts every known peer not currently
// connected.
func (s *Server) discoveryLoop() {
	defer s.wg.Done()

	select {
	case <-time.After(500 * time.Millisecond):
	case <-s.stopCh:
		return
	}
	s.connectSeeds()

	ticker := time.NewTicker(reconnectInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.reconnectKnown()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Server) connectSeeds() {
	for _, seed := range s.seeds {
		if seed == s.nodeURL {
			continue
		}
		if err := s.ConnectToPeer(seed); err != nil {
			log.Printf("gossip: seed %s unreachable: %v", seed, err)
		}
	}
}

func (s *Server) reconnectKnown() {
	s.mu.RLock()
	var targets []string
	for url := range s.knownPeers {
		if _, connected := s.peers[url]; !connected {
			targets = append(targets, url)
		}
	}
	s.mu.RUnlock()

	for _, url := range targets {
		if err := s.ConnectToPeer(url); err != nil {
			log.Printf("gossip: reconnect to %s failed: %v", url, err)
		}
	}
}

// ConnectToPeer dials peerURL and hands the connection to a background
// handler, which sends our handshake and registers the peer once the
// peer's own handshake arrives; it returns as soon as the dial succeeds.
// Rejects a connection to ourselves with ErrSelfConnection.
func (s *Server) ConnectToPeer(peerURL string) error {
	if peerURL == s.nodeURL {
		return ErrSelfConnection
	}

	host, err := hostPort(peerURL)
	if err != nil {
		return ErrPeerUnreachable
	}
	conn, err := net.DialTimeout("tcp", host, dialTimeout)
	if err != nil {
		return ErrPeerUnreachable
	}

	go s.handleConnection(conn)
	return nil
}

// handleConnection drives one peer connection end to end: send our
// handshake first (required on either side of a new connection), then
// read and dispatch messages until the connection drops.
func (s *Server) handleConnection(conn net.Conn) {
	peer := newPeer(conn)

	if err := s.sendHandshake(peer); err != nil {
		peer.close()
		return
	}

	for {
		msg, err := peer.recv()
		if err != nil {
			break
		}
		s.dispatch(peer, msg)
	}

	s.dropPeer(peer)
}

func (s *Server) dropPeer(peer *Peer) {
	peer.close()
	if url := peer.URL(); url != "" {
		s.mu.Lock()
		if s.peers[url] == peer {
			delete(s.peers, url)
		}
		s.mu.Unlock()
	}
}

func (s *Server) sendHandshake(peer *Peer) error {
	payload := HandshakePayload{
		NodeURL:     s.nodeURL,
		ChainLength: s.ledger.Length(),
		Version:     ProtocolVersion,
	}
	msg, err := newMessage(TypeHandshake, payload)
	if err != nil {
		return err
	}
	return peer.send(msg)
}

// dispatch routes one decoded message to its handler. Unknown types are
// logged and ignored.
func (s *Server) dispatch(peer *Peer, msg Message) {
	switch msg.Type {
	case TypeHandshake:
		s.handleHandshake(peer, msg)
	case TypeGetChain:
		s.handleGetChain(peer)
	case TypeChain:
		s.handleChain(msg)
	case TypeNewBlock:
		s.handleNewBlock(msg)
	case TypeNewTx:
		s.handleNewTx(msg)
	case TypeGetPeers:
		s.handleGetPeers(peer)
	case TypePeers:
		s.handlePeers(msg)
	default:
		log.Printf("gossip: ignoring unknown message type %q", msg.Type)
	}
}

// handleHandshake implements the handshake protocol: reject and close on
// self-connection, otherwise record the peer, request the chain if the
// peer claims to be ahead, and always request its peer list.
func (s *Server) handleHandshake(peer *Peer, msg Message) {
	var payload HandshakePayload
	if err := decodeData(msg, &payload); err != nil {
		return
	}
	if payload.NodeURL == s.nodeURL {
		peer.close()
		return
	}

	peer.setURL(payload.NodeURL)
	s.mu.Lock()
	s.peers[payload.NodeURL] = peer
	s.knownPeers[payload.NodeURL] = true
	s.mu.Unlock()

	if payload.ChainLength > s.ledger.Length() {
		if getChain, err := newMessage(TypeGetChain, nil); err == nil {
			_ = peer.send(getChain)
		}
	}
	if getPeers, err := newMessage(TypeGetPeers, nil); err == nil {
		_ = peer.send(getPeers)
	}
}

func (s *Server) handleGetChain(peer *Peer) {
	msg, err := newMessage(TypeChain, s.ledger.Chain())
	if err != nil {
		return
	}
	_ = peer.send(msg)
}

// handleChain replaces our chain with the candidate if it validates and is
// longer (a no-op when equal).
func (s *Server) handleChain(msg Message) {
	var blocks []*chain.Block
	if err := decodeData(msg, &blocks); err != nil {
		log.Printf("gossip: malformed CHAIN message: %v", err)
		return
	}
	if err := s.ledger.ReplaceChain(blocks); err != nil {
		log.Printf("gossip: chain replacement declined: %v", err)
	}
}

// handleNewBlock applies an incoming block via the AddBlock reception
// path. Idempotent: a block already at our tip (or behind it) is simply
// rejected by AddBlock's link check, never treated as an error worth
// surfacing. If the block looks like it implies a longer chain than ours,
// request the full chain instead of discarding it.
func (s *Server) handleNewBlock(msg Message) {
	var block chain.Block
	if err := decodeData(msg, &block); err != nil {
		log.Printf("gossip: malformed NEW_BLOCK message: %v", err)
		return
	}
	if err := s.ledger.AddBlock(&block); err != nil {
		if block.Index+1 > int64(s.ledger.Length()) {
			s.requestChainFromAny()
		}
	}
}

func (s *Server) requestChainFromAny() {
	s.mu.RLock()
	var peer *Peer
	for _, p := range s.peers {
		peer = p
		break
	}
	s.mu.RUnlock()
	if peer == nil {
		return
	}
	if msg, err := newMessage(TypeGetChain, nil); err == nil {
		_ = peer.send(msg)
	}
}

func (s *Server) handleNewTx(msg Message) {
	var tx chain.Transaction
	if err := decodeData(msg, &tx); err != nil {
		log.Printf("gossip: malformed NEW_TX message: %v", err)
		return
	}
	if err := s.ledger.AddReceivedTransaction(&tx); err != nil {
		log.Printf("gossip: rejected received transaction: %v", err)
	}
}

func (s *Server) handleGetPeers(peer *Peer) {
	s.mu.RLock()
	urls := make([]string, 0, len(s.knownPeers))
	for url := range s.knownPeers {
		urls = append(urls, url)
	}
	s.mu.RUnlock()

	msg, err := newMessage(TypePeers, PeersPayload{Peers: urls})
	if err != nil {
		return
	}
	_ = peer.send(msg)
}

// handlePeers adds newly learned URLs to knownPeers and immediately
// attempts reconnection.
func (s *Server) handlePeers(msg Message) {
	var payload PeersPayload
	if err := decodeData(msg, &payload); err != nil {
		return
	}

	s.mu.Lock()
	for _, url := range payload.Peers {
		if url != s.nodeURL {
			s.knownPeers[url] = true
		}
	}
	s.mu.Unlock()

	s.reconnectKnown()
}

// BroadcastBlock sends block to every currently connected peer. The peer
// snapshot is read under the lock and released before any network I/O; a
// send failure is silent and the peer is left for the next close event to
// drop.
func (s *Server) BroadcastBlock(b *chain.Block) {
	msg, err := newMessage(TypeNewBlock, b)
	if err != nil {
		return
	}
	s.broadcast(msg)
}

// BroadcastTransaction sends tx to every currently connected peer.
func (s *Server) BroadcastTransaction(tx *chain.Transaction) {
	msg, err := newMessage(TypeNewTx, tx)
	if err != nil {
		return
	}
	s.broadcast(msg)
}

func (s *Server) broadcast(msg Message) {
	s.mu.RLock()
	snapshot := make([]*Peer, 0, len(s.peers))
	for _, p := range s.peers {
		snapshot = append(snapshot, p)
	}
	s.mu.RUnlock()

	for _, p := range snapshot {
		if !p.isAlive() {
			continue
		}
		_ = p.send(msg)
	}
}

// SyncChain requests the full chain from peerURL, if connected.
func (s *Server) SyncChain(peerURL string) error {
	s.mu.RLock()
	peer, ok := s.peers[peerURL]
	s.mu.RUnlock()
	if !ok {
		return ErrPeerUnreachable
	}
	msg, err := newMessage(TypeGetChain, nil)
	if err != nil {
		return err
	}
	return peer.send(msg)
}

// Peers returns every peer URL known to this node (connected or not).
func (s *Server) Peers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.knownPeers))
	for url := range s.knownPeers {
		out = append(out, url)
	}
	return out
}

// ConnectedPeerCount reports the number of currently open peer
// connections, for diagnostics.
func (s *Server) ConnectedPeerCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.peers)
}
