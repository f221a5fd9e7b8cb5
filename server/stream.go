package server

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/etnz/moneymarket"
	"github.com/hertz-contrib/websocket"
)

var upgrader = websocket.HertzUpgrader{
	CheckOrigin: func(ctx *app.RequestContext) bool {
		return true
	},
}

// Message types pushed on the stream.
const (
	TypeSnapshot = "snapshot"
	TypeReceipt  = "receipt"
	TypeError    = "error"
)

// Message is a frame of the websocket stream.
type Message struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// conn is the part of a websocket connection used by the stream.
type conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
}

// Stream upgrades to a websocket that pushes the current snapshot, then a new
// one after every applied action. Text frames received are executed as
// actions ("supply unibi 200.0" or the JSON form) and answered with a receipt
// or an error.
func (s *Handlers) Stream(ctx context.Context, c *app.RequestContext) {
	err := upgrader.Upgrade(c, func(ws *websocket.Conn) {
		defer ws.Close()
		s.log.Debug().Str("remote", ws.RemoteAddr().String()).Msg("stream opened")
		s.stream(ctx, ws)
		s.log.Debug().Str("remote", ws.RemoteAddr().String()).Msg("stream closed")
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
	}
}

// stream runs until the connection fails or ctx is done. All writes happen on
// the calling goroutine.
func (s *Handlers) stream(ctx context.Context, ws conn) {
	// only the latest snapshot matters, older ones are dropped
	updates := make(chan moneymarket.Snapshot, 1)
	cancel := s.session.Subscribe(func(snap moneymarket.Snapshot) {
		select {
		case <-updates:
		default:
		}
		select {
		case updates <- snap:
		default:
		}
	})
	defer cancel()

	replies := make(chan Message)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(done)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			reply := s.handle(ctx, data)
			select {
			case replies <- reply:
			case <-quit:
				return
			}
		}
	}()

	if err := s.write(ws, Message{Type: TypeSnapshot, Data: s.session.Snapshot()}); err != nil {
		return
	}
	for {
		var m Message
		select {
		case snap := <-updates:
			m = Message{Type: TypeSnapshot, Data: snap}
		case m = <-replies:
		case <-done:
			return
		case <-ctx.Done():
			return
		}
		if err := s.write(ws, m); err != nil {
			return
		}
	}
}

// handle executes one action received on the stream.
func (s *Handlers) handle(ctx context.Context, data []byte) Message {
	var action moneymarket.Action
	var err error
	if data = bytes.TrimSpace(data); bytes.HasPrefix(data, []byte("{")) {
		err = json.Unmarshal(data, &action)
	} else {
		action, err = moneymarket.ParseAction(string(data))
	}
	if err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}
	receipt, err := s.session.Execute(ctx, action)
	if err != nil {
		return Message{Type: TypeError, Error: err.Error()}
	}
	return Message{Type: TypeReceipt, Data: receipt}
}

func (s *Handlers) write(ws conn, m Message) error {
	b, err := json.Marshal(m)
	if err != nil {
		s.log.Error().Err(err).Msg("cannot encode stream message")
		return err
	}
	if err := ws.WriteMessage(websocket.TextMessage, b); err != nil {
		s.log.Debug().Err(err).Msg("stream write failed")
		return err
	}
	return nil
}
