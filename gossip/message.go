package gossip

import "encoding/json"

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 14/12/2025
 * Time: 09:05
 */

// Message types.
const (
	TypeHandshake = "HANDSHAKE"
	TypeGetChain  = "GET_CHAIN"
	TypeChain     = "CHAIN"
	TypeNewBlock  = "NEW_BLOCK"
	TypeNewTx     = "NEW_TX"
	TypeGetPeers  = "GET_PEERS"
	TypePeers     = "PEERS"
)

// ProtocolVersion is carried in HANDSHAKE's payload. There is no version
// negotiation; it is informational only.
const ProtocolVersion = 1

// Message is the wire envelope every gossip message is framed as: a UTF-8
// JSON object {"type": ..., "data": ...}, one per logical frame. A stream
// of Messages is written with json.Encoder and read with json.Decoder,
// each of which naturally frames on JSON value boundaries without any
// length prefix.
type Message struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HandshakePayload is HANDSHAKE's data.
type HandshakePayload struct {
	NodeURL     string `json:"node_url"`
	ChainLength int    `json:"chain_length"`
	Version     int    `json:"version"`
}

// PeersPayload is PEERS's data: every peer URL this node currently knows.
type PeersPayload struct {
	Peers []string `json:"peers"`
}

func newMessage(msgType string, data any) (Message, error) {
	if data == nil {
		return Message{Type: msgType}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: msgType, Data: raw}, nil
}

// decodeData unmarshals msg.Data into out. A missing Data field is
// equivalent to "{}", so an empty/absent Data is not an error for
// payload-less message types. Callers that need no payload never call
// this.
func decodeData(msg Message, out any) error {
	if len(msg.Data) == 0 {
		return json.Unmarshal([]byte("{}"), out)
	}
	return json.Unmarshal(msg.Data, out)
}
