package gossip

import (
	"net"
	"time"

	"github.com/ledgerd/ledgerd/chain"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 11:40
 */

// SendTransactionTo dials peerURL directly and delivers a single NEW_TX
// message, then closes the connection. This is the ad hoc broadcast path a
// one-shot CLI command uses when it has no long-lived Server peer table to
// broadcast from, using the same one-off dial-write-close shape as a
// direct command-line send, framed as a gossip Message like everything
// else on the wire.
func SendTransactionTo(peerURL string, tx *chain.Transaction) error {
	msg, err := newMessage(TypeNewTx, tx)
	if err != nil {
		return err
	}
	return sendOnce(peerURL, msg)
}

// SendBlockTo is SendTransactionTo's NEW_BLOCK counterpart.
func SendBlockTo(peerURL string, b *chain.Block) error {
	msg, err := newMessage(TypeNewBlock, b)
	if err != nil {
		return err
	}
	return sendOnce(peerURL, msg)
}

func sendOnce(peerURL string, msg Message) error {
	host, err := hostPort(peerURL)
	if err != nil {
		return ErrPeerUnreachable
	}
	conn, err := net.DialTimeout("tcp", host, dialTimeout)
	if err != nil {
		return ErrPeerUnreachable
	}
	defer conn.Close()
	_ = conn.SetWriteDeadline(time.Now().Add(dialTimeout))
	p := newPeer(conn)
	return p.send(msg)
}
