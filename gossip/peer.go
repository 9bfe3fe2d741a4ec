package gossip

import (
	"encoding/json"
	"net"
	"sync"

	"github.com/google/uuid"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 09:20
 */

// Peer is one bidirectional gossip connection: a TCP stream carrying an
// independently framed JSON message in each direction. ID is a
// per-connection correlation id, useful for log lines distinguishing two
// connections that race to the same URL during reconnection.
type Peer struct {
	ID   uuid.UUID
	conn net.Conn

	encMu sync.Mutex
	enc   *json.Encoder
	dec   *json.Decoder

	mu    sync.Mutex
	url   string
	alive bool
}

func newPeer(conn net.Conn) *Peer {
	return &Peer{
		ID:    uuid.New(),
		conn:  conn,
		enc:   json.NewEncoder(conn),
		dec:   json.NewDecoder(conn),
		alive: true,
	}
}

// URL/setURL read and record the peer's node_url, learned from its HANDSHAKE.
// Until then an inbound connection's peer table key is unknown.
func (p *Peer) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *Peer) setURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.url = url
}

func (p *Peer) send(msg Message) error {
	p.encMu.Lock()
	defer p.encMu.Unlock()
	return p.enc.Encode(msg)
}

func (p *Peer) recv() (Message, error) {
	var msg Message
	err := p.dec.Decode(&msg)
	return msg, err
}

func (p *Peer) isAlive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.alive
}

// close marks the peer dead and releases its connection. Idempotent.
func (p *Peer) close() {
	p.mu.Lock()
	p.alive = false
	p.mu.Unlock()
	p.conn.Close()
}
