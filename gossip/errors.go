package gossip

import "errors"

// Gossip errors. The exported dial and send functions (ConnectToPeer,
// SyncChain, SendTransactionTo, SendBlockTo) return them to their caller;
// inside the server's own discovery loop they are only logged, and the
// peer is retried on the next reconnection pass.
var (
	ErrPeerUnreachable = errors.New("gossip: peer unreachable")
	ErrMalformedMessage = errors.New("gossip: malformed message")
	ErrSelfConnection   = errors.New("gossip: self connection rejected")
)
