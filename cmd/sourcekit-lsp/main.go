package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/divalue/sourcekit-lsp/internal/server"
	"github.com/divalue/sourcekit-lsp/internal/sourcekitd"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	backendNetwork := flag.String("backend-network", "unix", "Network of the backend daemon (unix or tcp)")
	backendAddr := flag.String("backend-addr", "/run/sourcekitd.sock", "Address of the backend daemon")
	logPath := flag.String("log", "/tmp/sourcekit-lsp.log", "Log file path")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("sourcekit-lsp server version %s\n", Version)
		return
	}

	// Set up logging. Stdout carries the protocol, so logs go to a
	// file and stderr only.
	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	commonlog.Configure(1, logPath)

	multiWriter := io.MultiWriter(os.Stderr, logFile)
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting sourcekit-lsp server...")

	backend, err := sourcekitd.Dial(context.Background(), *backendNetwork, *backendAddr)
	if err != nil {
		log.Fatalf("Failed to connect to backend: %v", err)
	}
	defer backend.Close()

	srv, err := server.NewServer(backend)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	if err := srv.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
