package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := LoadConfig()
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	staticDir := flag.String("static", cfg.StaticDir, "Path to client asset directory")
	dbPath := flag.String("db", cfg.DBPath, "Path to SQLite database ('' disables accounts)")
	flag.Parse()

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	}

	hub := NewHub(db)
	go hub.Run()

	router := SetupRoutes(hub, *staticDir)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: router}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *staticDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	if hub.analytics != nil {
		hub.analytics.Stop()
	}
	server.Close()
}
