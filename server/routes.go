package main

import (
	"encoding/json"
	"log"
	"net"
	"net/http"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures the HTTP surface: confined static assets, the
// WebSocket endpoint, the read-only API and the room invite QR.
func SetupRoutes(hub *Hub, staticDir string) chi.Router {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
	}))

	r.Get("/api/rooms", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, hub.manager.List())
	})

	r.Get("/api/leaderboard", func(w http.ResponseWriter, req *http.Request) {
		if hub.db == nil {
			writeJSON(w, []LeaderboardEntry{})
			return
		}
		entries, err := hub.db.GetLeaderboard(req.URL.Query().Get("by"), 20)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, entries)
	})

	// Shareable room invite: a PNG QR code encoding the join URL.
	r.Get("/qr/{roomID}", func(w http.ResponseWriter, req *http.Request) {
		roomID := chi.URLParam(req, "roomID")
		if hub.manager.Get(roomID) == nil {
			http.NotFound(w, req)
			return
		}
		scheme := "http"
		if req.TLS != nil {
			scheme = "https"
		}
		joinURL := scheme + "://" + req.Host + "/#" + roomID
		png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		ip := extractIP(req)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Printf("upgrade error: %v", err)
			return
		}

		hub.TrackConnect(ip)

		client := NewClient(hub, conn, ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	r.Handle("/*", StaticHandler(staticDir))

	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// StaticHandler serves client assets. Request paths are cleaned and
// confined under the asset root: a request can never resolve to a file
// above it.
func StaticHandler(root string) http.Handler {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")

		// path.Clean on a rooted path resolves any ".." segments
		// before the filesystem ever sees them.
		cleaned := path.Clean("/" + r.URL.Path)
		if cleaned == "/" {
			cleaned = "/index.html"
		}

		full := filepath.Join(absRoot, filepath.FromSlash(cleaned))
		if full != absRoot && !strings.HasPrefix(full, absRoot+string(filepath.Separator)) {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, full)
	})
}
