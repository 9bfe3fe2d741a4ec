package gossip

import "testing"

func TestNewMessageAndDecodeDataRoundTrip(t *testing.T) {
	payload := HandshakePayload{NodeURL: "ledgerd://localhost:9000", ChainLength: 3, Version: ProtocolVersion}
	msg, err := newMessage(TypeHandshake, payload)
	if err != nil {
		t.Fatalf("newMessage: %v", err)
	}
	if msg.Type != TypeHandshake {
		t.Fatalf("expected type %q, got %q", TypeHandshake, msg.Type)
	}

	var got HandshakePayload
	if err := decodeData(msg, &got); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if got != payload {
		t.Fatalf("expected %+v, got %+v", payload, got)
	}
}

func TestNewMessageNilDataOmitsField(t *testing.T) {
	msg, err := newMessage(TypeGetChain, nil)
	if err != nil {
		t.Fatalf("newMessage: %v", err)
	}
	if len(msg.Data) != 0 {
		t.Fatalf("expected no data payload for a nil-data message, got %s", msg.Data)
	}
}

func TestDecodeDataMissingIsEmptyObject(t *testing.T) {
	msg := Message{Type: TypeHandshake}
	var got HandshakePayload
	if err := decodeData(msg, &got); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if got != (HandshakePayload{}) {
		t.Fatalf("expected zero-value payload for missing data, got %+v", got)
	}
}

func TestPeersPayloadRoundTrip(t *testing.T) {
	payload := PeersPayload{Peers: []string{"ledgerd://a:1", "ledgerd://b:2"}}
	msg, err := newMessage(TypePeers, payload)
	if err != nil {
		t.Fatalf("newMessage: %v", err)
	}
	var got PeersPayload
	if err := decodeData(msg, &got); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
	if len(got.Peers) != 2 || got.Peers[0] != "ledgerd://a:1" || got.Peers[1] != "ledgerd://b:2" {
		t.Fatalf("unexpected peers payload: %+v", got)
	}
}
