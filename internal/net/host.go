// Package net shares a board with read-only viewers on the local network.
//
// The host serves the current document over a websocket and pushes every
// new revision; viewers find hosts through mDNS or a share link.
package net

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"LocalNotes/internal/state"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 45 * time.Second
	pingPeriod = 15 * time.Second
)

// Host publishes board snapshots to connected viewers. Viewers that fall
// behind only ever receive the newest revision.
type Host struct {
	id       string
	logger   *slog.Logger
	metrics  *Metrics
	upgrader websocket.Upgrader

	mu       sync.Mutex
	peers    map[string]*peer
	latest   []byte
	revision uint64
	started  bool
}

func NewHost(logger *slog.Logger, metrics *Metrics) *Host {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Host{
		id:      uuid.NewString(),
		logger:  logger,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		peers: make(map[string]*peer),
	}
}

// ID identifies this host to its viewers.
func (h *Host) ID() string { return h.id }

// Publish queues snap for every viewer. Snapshots older than the last
// published revision are ignored. It never blocks on the network.
func (h *Host) Publish(snap state.Snapshot) {
	data, err := encodeSnapshot(h.id, snap)
	if err != nil {
		h.logger.Error("encode snapshot", "revision", snap.Revision, "error", err)
		return
	}

	h.mu.Lock()
	if h.started && snap.Revision <= h.revision {
		h.mu.Unlock()
		return
	}
	h.latest = data
	h.revision = snap.Revision
	h.started = true
	for _, p := range h.peers {
		if p.offer(data) {
			h.metrics.coalesced()
		}
	}
	h.mu.Unlock()

	h.metrics.published(snap.Revision)
}

// Viewers returns the number of connected viewers.
func (h *Host) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Handler serves the websocket at /ws and Prometheus metrics at /metrics.
func (h *Host) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// Serve listens on addr until ctx is cancelled.
func (h *Host) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		h.logger.Info("share host listening", "addr", addr, "host", h.id)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		h.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

func (h *Host) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	p := newPeer(uuid.NewString(), conn)
	h.mu.Lock()
	h.peers[p.id] = p
	if h.latest != nil {
		p.offer(h.latest)
	}
	h.mu.Unlock()

	h.metrics.viewerConnected()
	h.logger.Info("viewer connected", "peer", p.id, "remote", r.RemoteAddr)

	go p.writeLoop(h.metrics)
	p.readLoop()

	h.mu.Lock()
	delete(h.peers, p.id)
	h.mu.Unlock()
	p.close()
	h.metrics.viewerDisconnected()
	h.logger.Info("viewer disconnected", "peer", p.id)
}

func (h *Host) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, p := range h.peers {
		p.close()
	}
}

type peer struct {
	id   string
	conn *websocket.Conn

	mu   sync.Mutex
	next []byte
	wake chan struct{}

	once sync.Once
	done chan struct{}
}

func newPeer(id string, conn *websocket.Conn) *peer {
	return &peer{
		id:   id,
		conn: conn,
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// offer replaces any unsent frame with data. It reports whether an unsent
// frame was dropped.
func (p *peer) offer(data []byte) bool {
	p.mu.Lock()
	replaced := p.next != nil
	p.next = data
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
	return replaced
}

func (p *peer) take() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	data := p.next
	p.next = nil
	return data
}

func (p *peer) writeLoop(m *Metrics) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
			data := p.take()
			if data == nil {
				continue
			}
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				p.close()
				return
			}
			m.sent()
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				p.close()
				return
			}
		}
	}
}

// readLoop discards anything a viewer sends and returns once the connection
// is gone.
func (p *peer) readLoop() {
	p.conn.SetReadLimit(4096)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := p.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (p *peer) close() {
	p.once.Do(func() {
		close(p.done)
		p.conn.Close()
	})
}
