package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/socialgram/socialgram-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_presence: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	nickname := flag.String("nickname", "tester", "nickname to announce")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	payload, err := json.Marshal(proto.PresenceData{Nickname: *nickname})
	if err != nil {
		return fmt.Errorf("marshal announce: %w", err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeUserOnline, Data: payload}); err != nil {
		return fmt.Errorf("send announce: %w", err)
	}

	for {
		var outbound proto.Outbound
		if err := wsjson.Read(ctx, conn, &outbound); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch outbound.Type {
		case proto.OutboundTypeOnlineUsers:
			fmt.Printf("online users: %v\n", outbound.Data)
			return nil
		case proto.OutboundTypeError:
			if outbound.Error != nil {
				return fmt.Errorf("server error: %s (%s)", outbound.Error.Msg, outbound.Error.Code)
			}
			return fmt.Errorf("server error without payload")
		default:
			fmt.Printf("unexpected outbound type: %s\n", outbound.Type)
		}
	}
}
