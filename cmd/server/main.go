package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/baditaflorin/l"
	"github.com/valyala/fasthttp"

	"github.com/baditaflorin/go_sign_similarity/internal/config"
	"github.com/baditaflorin/go_sign_similarity/pkg/similarity"
)

// Default configuration
const (
	DefaultConcurrency    = 0 // 0 means use GOMAXPROCS
	DefaultRequestTimeout = 60 * time.Second
)

// serverFlags holds the command-line overrides of the configuration file.
type serverFlags struct {
	configPath  string
	addr        string
	concurrency int
	warmUp      bool
	logFile     string

	// set records the flags given explicitly on the command line.
	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*serverFlags, error) {
	f := &serverFlags{set: make(map[string]bool)}
	fs.StringVar(&f.configPath, "config", "", "Path to a TOML configuration file")
	fs.StringVar(&f.addr, "addr", "", "Listen address (overrides the configuration)")
	fs.IntVar(&f.concurrency, "concurrency", DefaultConcurrency, "Maximum number of concurrent requests (0 = GOMAXPROCS)")
	fs.BoolVar(&f.warmUp, "warm-up", false, "Warm up the caches on startup (overrides the configuration)")
	fs.StringVar(&f.logFile, "log-file", "", "Log file path (overrides the configuration)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return f, nil
}

// apply overrides cfg with the flags given on the command line.
func (f *serverFlags) apply(cfg *config.Config) {
	if f.addr != "" {
		cfg.Server.Address = f.addr
	}
	if f.logFile != "" {
		cfg.Logging.File = f.logFile
	}
	if f.set["warm-up"] {
		cfg.Batch.WarmUp = f.warmUp
	}
	cfg.Batch.Progress = false
}

func main() {
	// Parse command-line flags
	flags, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	cfg, _, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	flags.apply(cfg)

	// Set up logger
	logger, err := createLogger(cfg.Logging.File, cfg.JSONLogs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	logger.Info("Starting sign similarity HTTP server",
		"address", cfg.Server.Address,
		"read_timeout", cfg.ReadTimeout(),
		"write_timeout", cfg.WriteTimeout(),
		"max_request_size", cfg.Server.MaxRequestBytes,
		"concurrency", flags.concurrency,
		"redis", cfg.Redis.Enabled,
	)

	signSimilarity, err := similarity.New(cfg.Options(logger)...)
	if err != nil {
		logger.Error("Failed to initialize sign similarity", "error", err)
		os.Exit(1)
	}
	defer signSimilarity.Close()

	logger.Info("Sign similarity initialized successfully",
		"warm_up", cfg.Batch.WarmUp,
		"cpus", runtime.NumCPU(),
		"max_distance", signSimilarity.MaxDistance(),
	)

	handlers := newHandlers(signSimilarity, logger, DefaultRequestTimeout)

	// Create HTTP server with fasthttp
	server := &fasthttp.Server{
		Handler:               handlers.requestHandler,
		Name:                  "SignSimilarityServer",
		ReadTimeout:           cfg.ReadTimeout(),
		WriteTimeout:          cfg.WriteTimeout(),
		MaxRequestBodySize:    cfg.Server.MaxRequestBytes,
		Concurrency:           flags.concurrency,
		DisableKeepalive:      false,
		TCPKeepalive:          true,
		TCPKeepalivePeriod:    3 * time.Minute,
		MaxIdleWorkerDuration: 10 * time.Second,
	}

	// Set up graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		logger.Info("Shutting down server...")
		if err := server.Shutdown(); err != nil {
			logger.Error("Error during server shutdown", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("Server listening", "address", cfg.Server.Address)
	if err := server.ListenAndServe(cfg.Server.Address); err != nil {
		logger.Error("Server error", "error", err)
		return
	}

	<-idleConnsClosed
	logger.Info("Server stopped")
}

// createLogger creates and configures a logger
func createLogger(logFile string, jsonFormat bool) (l.Logger, error) {
	factory := l.NewStandardFactory()

	var output io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
	}

	logger, err := factory.CreateLogger(l.Config{
		Output:      output,
		JsonFormat:  jsonFormat,
		AsyncWrite:  true,
		BufferSize:  1024 * 1024,       // 1MB
		MaxFileSize: 100 * 1024 * 1024, // 100MB
		MaxBackups:  5,
		AddSource:   true,
		Metrics:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return logger, nil
}
