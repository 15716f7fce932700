// Package main runs servedir: a static file server for a single directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/f4ah6o/servedir/internal/config"
	"github.com/f4ah6o/servedir/internal/handler"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error:"), err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	h, err := handler.New(cfg, logger)
	if err != nil {
		return err
	}

	// Bind first so a busy port fails before the banner is printed.
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger,
	}

	printBanner(h.Root(), ln.Addr(), cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Println(color.YellowString("Shutting down (waiting up to %s)", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// parseFlags builds the configuration from defaults, an optional config file
// and the command line, in increasing order of precedence.
func parseFlags(args []string) (config.Config, error) {
	fs := flag.NewFlagSet("servedir", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to a .toml or .yaml config file")
	dir := fs.String("dir", "", "Directory to serve (default: working directory)")
	addr := fs.String("addr", config.DefaultAddr, "Address to listen on")
	port := fs.Int("port", 0, "Port to serve on (shorthand for -addr :PORT)")
	etag := fs.Bool("etag", true, "Send ETag headers and answer If-None-Match")
	expires := fs.Int64("expires", config.DefaultExpiresMs, "Expires header offset in milliseconds (0 disables)")
	reasons := fs.Bool("reasons", false, "Append the internal reason code to 404 bodies")
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.RootDir = *dir
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Addr = fmt.Sprintf(":%d", *port)
		case "etag":
			cfg.ETag = *etag
		case "expires":
			cfg.Expires = config.Millis(*expires)
		case "reasons":
			cfg.ShowReasons = *reasons
		}
	})
	return cfg, nil
}

func printBanner(root string, addr net.Addr, cfg config.Config) {
	url := "http://" + addr.String()
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		url = fmt.Sprintf("http://localhost:%d", tcp.Port)
	}
	fmt.Printf("🌐 Serving %s at %s\n", color.CyanString(root), color.GreenString(url))

	etag := color.RedString("off")
	if cfg.ETag {
		etag = color.GreenString("on")
	}
	expires := color.RedString("off")
	if cfg.Expires > 0 {
		expires = color.GreenString(cfg.Expires.Duration().String())
	}
	fmt.Printf("   etag: %s  expires: %s\n", etag, expires)
	fmt.Println("Press Ctrl+C to stop")
}
