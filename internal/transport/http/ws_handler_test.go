package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/socialgram/socialgram-server/internal/proto"
)

func dialWS(t *testing.T, ctx context.Context, baseURL string) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })

	return conn
}

func announce(t *testing.T, ctx context.Context, conn *websocket.Conn, eventType, nickname string) {
	t.Helper()

	payload, err := json.Marshal(proto.PresenceData{Nickname: nickname})
	if err != nil {
		t.Fatalf("marshal presence data: %v", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: eventType, Data: payload}); err != nil {
		t.Fatalf("send %s: %v", eventType, err)
	}
}

func readUpdate(t *testing.T, ctx context.Context, conn *websocket.Conn) []string {
	t.Helper()

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if outbound.Type != proto.OutboundTypeOnlineUsers {
		t.Fatalf("unexpected outbound: %+v", outbound)
	}
	return outbound.Data
}

func TestWebSocketPresenceFlow(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, env.ts.URL)
	connB := dialWS(t, ctx, env.ts.URL)

	announce(t, ctx, connA, proto.InboundTypeUserOnline, "alice")
	if got := readUpdate(t, ctx, connA); len(got) != 1 || got[0] != "alice" {
		t.Fatalf("unexpected update for A: %v", got)
	}

	// B is registered by now; announcing from B reaches both connections.
	// B may or may not have observed alice's earlier update depending on
	// when its registration landed, so read until the grown set arrives.
	announce(t, ctx, connB, proto.InboundTypeUserOnline, "bob")
	for {
		got := readUpdate(t, ctx, connB)
		if len(got) == 2 {
			if got[0] != "alice" || got[1] != "bob" {
				t.Fatalf("unexpected update for B: %v", got)
			}
			break
		}
	}

	// A sees alice's initial set first, then the grown one.
	for {
		got := readUpdate(t, ctx, connA)
		if len(got) == 2 {
			if got[0] != "alice" || got[1] != "bob" {
				t.Fatalf("unexpected update for A: %v", got)
			}
			break
		}
	}

	// B renames itself; everyone gets the rewritten set in place.
	announce(t, ctx, connB, proto.InboundTypeNicknameUpdated, "bobby")
	if got := readUpdate(t, ctx, connB); len(got) != 2 || got[1] != "bobby" {
		t.Fatalf("unexpected rename update for B: %v", got)
	}

	// B goes offline by nickname; only A is told.
	announce(t, ctx, connB, proto.InboundTypeUserOffline, "bobby")
	for {
		got := readUpdate(t, ctx, connA)
		if len(got) == 1 {
			if got[0] != "alice" {
				t.Fatalf("unexpected offline update for A: %v", got)
			}
			break
		}
	}
}

func TestWebSocketDisconnectBroadcastsToOthers(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, env.ts.URL)
	connB := dialWS(t, ctx, env.ts.URL)

	announce(t, ctx, connA, proto.InboundTypeUserOnline, "alice")
	readUpdate(t, ctx, connA)

	announce(t, ctx, connB, proto.InboundTypeUserOnline, "bob")
	for len(readUpdate(t, ctx, connB)) != 2 {
	}

	connB.Close(websocket.StatusNormalClosure, "leaving")

	// A eventually observes a set without bob.
	for {
		got := readUpdate(t, ctx, connA)
		if len(got) == 1 {
			if got[0] != "alice" {
				t.Fatalf("unexpected update after disconnect: %v", got)
			}
			return
		}
	}
}

func TestWebSocketUnknownEventReturnsError(t *testing.T) {
	env := newTestEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, env.ts.URL)

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: "bogus"}); err != nil {
		t.Fatalf("send bogus: %v", err)
	}

	var outbound proto.Outbound
	if err := wsjson.Read(ctx, conn, &outbound); err != nil {
		t.Fatalf("read outbound: %v", err)
	}
	if outbound.Type != proto.OutboundTypeError || outbound.Error == nil || outbound.Error.Code != "invalid_message" {
		t.Fatalf("expected invalid_message error, got %+v", outbound)
	}
}
