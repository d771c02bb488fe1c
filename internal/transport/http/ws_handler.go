package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/socialgram/socialgram-server/internal/presence"
	"github.com/socialgram/socialgram-server/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to the presence hub.
type WSHandler struct {
	hub *presence.Hub
	log *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(hub *presence.Hub, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{hub: hub, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := presence.NewClient(uuid.NewString())
	h.hub.Register(client)
	defer h.hub.Disconnect(client.ID)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *presence.Client) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeUserOnline, proto.InboundTypeUserOffline, proto.InboundTypeNicknameUpdated:
			var data proto.PresenceData
			if err := json.Unmarshal(inbound.Data, &data); err != nil {
				h.log.Warn().Err(err).Str("conn_id", client.ID).Msg("failed to decode presence data")
				if writeErr := h.writeError(ctx, conn, "bad_request", "nickname is required"); writeErr != nil {
					return writeErr
				}
				continue
			}
			if data.Nickname == "" {
				if writeErr := h.writeError(ctx, conn, "bad_request", "nickname is required"); writeErr != nil {
					return writeErr
				}
				continue
			}

			switch inbound.Type {
			case proto.InboundTypeUserOnline:
				h.hub.AnnounceOnline(client.ID, data.Nickname)
			case proto.InboundTypeUserOffline:
				h.hub.AnnounceOffline(data.Nickname, client.ID)
			case proto.InboundTypeNicknameUpdated:
				h.hub.NicknameChanged(client.ID, data.Nickname)
			}
		default:
			// An unexpected event must not crash the connection.
			h.log.Warn().Str("conn_id", client.ID).Str("type", inbound.Type).Msg("unknown ws event")
			if writeErr := h.writeError(ctx, conn, "invalid_message", "unknown message type"); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *presence.Client) error {
	for {
		select {
		case names, ok := <-client.Updates:
			if !ok {
				return nil
			}
			outbound := proto.Outbound{
				Type: proto.OutboundTypeOnlineUsers,
				Data: names,
			}
			if err := wsjson.Write(ctx, conn, outbound); err != nil {
				h.log.Error().Err(err).Str("conn_id", client.ID).Msg("write ws update")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, code, msg string) error {
	return wsjson.Write(ctx, conn, proto.Outbound{
		Type:  proto.OutboundTypeError,
		Error: &proto.Error{Code: code, Msg: msg},
	})
}
