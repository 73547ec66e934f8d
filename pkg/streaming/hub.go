// Package streaming serves a running machine's frames over a
// websocket, so a browser can watch or play a session without a
// local display driver. It speaks a tiny binary protocol: the server pushes frame
// or frame-cache-hit messages, the client pushes button-mask updates.
package streaming

import (
	"log"
	"net/http"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/google/brotli/go/cbrotli"
	"github.com/gorilla/websocket"
)

// message kinds, sent as the first byte of every websocket message.
const (
	kindFrame       = 0 // idx(2) + brotli-compressed RGBA pixels
	kindFrameCached = 1 // idx(2), replay a frame already sent once
	kindButtons     = 2 // client -> server: one byte, the joypad mask
)

const cacheSize = 64

// Hub accepts websocket connections and fans out frames pushed via
// Broadcast to every connected Client, deduplicating identical frames
// against a small cache so a mostly-static screen (a menu, a title
// screen) doesn't re-send the same compressed bytes every frame.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
	cache   *frameCache

	// OnButtons, if set, is called with the joypad mask any connected
	// client sends. Only one client's input is honored at a time; the
	// last message wins.
	OnButtons func(mask uint8)
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]bool),
		cache:   newFrameCache(cacheSize),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1 << 16,
	WriteBufferSize: 1 << 16,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request to a websocket and registers the
// resulting connection as a Client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &Client{hub: h, conn: conn, send: make(chan []byte, 8)}

	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()
}

// ListenAndServe starts the HTTP server that upgrades every request
// on addr to a websocket stream of frames.
func (h *Hub) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/", h)
	log.Printf("streaming: serving on %s", addr)
	return http.ListenAndServe(addr, mux)
}

// Broadcast compresses rgba (a tightly packed RGBA frame) and sends
// it to every connected client, or tells them to replay a cached
// frame if these exact bytes were already sent once.
func (h *Hub) Broadcast(rgba []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.clients) == 0 {
		return
	}

	hash := xxhash.Sum64(rgba)
	if idx := h.cache.index(hash); idx != -1 {
		h.sendAll([]byte{kindFrameCached, byte(idx), byte(idx >> 8)})
		return
	}

	compressed, err := cbrotli.Encode(rgba, cbrotli.WriterOptions{Quality: 7})
	if err != nil {
		return
	}
	idx := h.cache.add(hash, compressed)

	msg := make([]byte, 0, 3+len(compressed))
	msg = append(msg, kindFrame, byte(idx), byte(idx>>8))
	msg = append(msg, compressed...)
	h.sendAll(msg)
}

func (h *Hub) sendAll(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// client too slow to keep up, drop the frame for it
		}
	}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}
