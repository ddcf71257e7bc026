package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Server exposes a Hub over HTTP.
type Server struct {
	hub *Hub
	log *log.Logger

	// AllowRemote disables the loopback-only check.
	AllowRemote bool
	// ReadTimeout drops a client that has not answered a ping for this long.
	// PingInterval must be shorter.
	ReadTimeout  time.Duration
	PingInterval time.Duration

	upgrader websocket.Upgrader
	nextID   atomic.Uint64
}

// NewServer returns a server for hub. logger may be nil.
func NewServer(hub *Hub, logger *log.Logger) *Server {
	return &Server{
		hub:          hub,
		log:          logger,
		ReadTimeout:  60 * time.Second,
		PingInterval: 20 * time.Second,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler routes /v1/bootstrap and /v1/stream.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/bootstrap", s.BootstrapHandler())
	mux.HandleFunc("/v1/stream", s.WSHandler())
	return mux
}

func (s *Server) allowed(r *http.Request) bool {
	return s.AllowRemote || isLoopbackRemote(r.RemoteAddr)
}

func (s *Server) logf(format string, args ...any) {
	if s.log != nil {
		s.log.Printf(format, args...)
	}
}

// BootstrapHandler serves the grid description.
func (s *Server) BootstrapHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			rw.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(s.hub.Bootstrap())
	}
}

// WSHandler upgrades the connection, waits for SUBSCRIBE and streams frames
// until either side closes.
func (s *Server) WSHandler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !s.allowed(r) {
			http.Error(rw, "forbidden", http.StatusForbidden)
			return
		}
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var sub SubscribeMsg
		if err := json.Unmarshal(msg, &sub); err != nil || sub.Type != TypeSubscribe {
			closeWith(conn, websocket.ClosePolicyViolation, "expected SUBSCRIBE")
			return
		}
		if sub.ProtocolVersion != Version {
			closeWith(conn, websocket.ClosePolicyViolation, "unsupported protocol_version")
			return
		}

		c := &client{
			id:  fmt.Sprintf("C%d", s.nextID.Add(1)),
			out: make(chan []byte, 256),
		}
		if !s.hub.subscribe(c) {
			closeWith(conn, websocket.CloseTryAgainLater, "server busy")
			return
		}
		defer s.hub.leave(c.id)
		s.logf("subscribe %s from %s", c.id, r.RemoteAddr)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Observers only listen; pongs keep the read deadline moving.
		readTimeout, pingEvery := s.keepalive()
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(readTimeout))
		})

		writeErr := make(chan error, 1)
		go func() {
			ping := time.NewTicker(pingEvery)
			defer ping.Stop()
			for {
				select {
				case <-ctx.Done():
					writeErr <- ctx.Err()
					return
				case <-ping.C:
					if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
						writeErr <- err
						return
					}
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						writeErr <- err
						return
					}
				}
			}
		}()

		// Client messages after SUBSCRIBE are ignored; the loop detects close
		// and processes pongs.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		closeWith(conn, websocket.CloseNormalClosure, "bye")
		select {
		case <-writeErr:
		case <-time.After(500 * time.Millisecond):
		}
		s.logf("leave %s", c.id)
	}
}

func (s *Server) keepalive() (readTimeout, pingEvery time.Duration) {
	readTimeout, pingEvery = s.ReadTimeout, s.PingInterval
	if readTimeout <= 0 {
		readTimeout = 60 * time.Second
	}
	if pingEvery <= 0 || pingEvery >= readTimeout {
		pingEvery = readTimeout / 3
	}
	return readTimeout, pingEvery
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func isLoopbackRemote(remoteAddr string) bool {
	host := remoteAddr
	if h, _, err := net.SplitHostPort(remoteAddr); err == nil {
		host = h
	}
	host = strings.TrimPrefix(host, "[")
	host = strings.TrimSuffix(host, "]")
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
