// Package signal wraps a websocket connection with one reader and one writer goroutine.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed -.
var ErrClosed = errors.New("signal: connection closed")

const (
	// connection control
	_maxMessageSize = 4096
	_writeWait      = 10 * time.Second
	_pongWait       = 2 * time.Minute // read time out.
	_pingPeriod     = time.Minute
	_sendBuffer     = 16
)

// Message is the envelope of every frame.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Signal owns a websocket connection. ReadLoop and WriteLoop each run in their own goroutine;
// everything else may be called from any goroutine.
type Signal struct {
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	OnMessage func(*Message)

	once sync.Once
	done chan struct{}
}

// New -.
func New(conn *websocket.Conn) *Signal {
	return &Signal{
		conn: conn,
		send: make(chan []byte, _sendBuffer),
		done: make(chan struct{}),
	}
}

// Dial connects to a websocket endpoint.
func Dial(ctx context.Context, url string, header http.Header) (*Signal, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("signal - Dial - %s: %w", resp.Status, err)
		}

		return nil, fmt.Errorf("signal - Dial: %w", err)
	}

	return New(conn), nil
}

// ReadLoop pumps messages from the connection to OnMessage until the peer goes away.
func (s *Signal) ReadLoop() error {
	defer s.Close()

	s.conn.SetReadLimit(_maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(_pongWait))

	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(_pongWait))
	})
	s.conn.SetPingHandler(func(data string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(_pongWait))

		err := s.conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(_writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}

		return err
	})

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}

			select {
			case <-s.done:
				return nil
			default:
			}

			return fmt.Errorf("signal - ReadLoop - s.conn.ReadMessage: %w", err)
		}

		msg := &Message{}
		if err = json.Unmarshal(raw, msg); err != nil {
			continue
		}

		if s.OnMessage != nil {
			s.OnMessage(msg)
		}
	}
}

// WriteLoop pumps queued messages to the connection and keeps it alive with pings.
// It is the only writer of data frames.
func (s *Signal) WriteLoop() error {
	ticker := time.NewTicker(_pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(_writeWait))

			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.Close()

				return fmt.Errorf("signal - WriteLoop - s.conn.WriteMessage: %w", err)
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(_writeWait))

			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()

				return fmt.Errorf("signal - WriteLoop - ping: %w", err)
			}

		case <-s.done:
			_ = s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(_writeWait))

			return nil
		}
	}
}

// SendObject queues event with data encoded as JSON.
func (s *Signal) SendObject(event string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("signal - SendObject - json.Marshal: %w", err)
	}

	message, err := json.Marshal(Message{Event: event, Data: raw})
	if err != nil {
		return fmt.Errorf("signal - SendObject - json.Marshal: %w", err)
	}

	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.send <- message:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Close stops both loops. Safe to call more than once.
func (s *Signal) Close() {
	s.once.Do(func() { close(s.done) })
}

// Done -.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}
