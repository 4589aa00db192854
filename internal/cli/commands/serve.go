package commands

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapreq/internal/server"
	"github.com/leapstack-labs/leapreq/internal/tree"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Host      string
	Port      int
	Watch     bool
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the requirements web UI",
		Long: `Start a local web server for browsing the requirement tree.

The UI provides:
- Document and item browser
- Check findings per item
- Reference trace against the corpus
- Traceability matrix
- Live reload on item file changes (with --watch)

A JSON API mirrors every page for scripted access.`,
		Example: `  # Serve on the default address
  leapreq serve

  # Serve on a custom port
  leapreq serve --port 3000

  # Serve without auto-opening the browser
  leapreq serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", "", "Host to bind (default: 127.0.0.1)")
	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 7867)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch for item file changes")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	// CLI flags override config file
	host := cfg.Server.Host
	if opts.Host != "" {
		host = opts.Host
	}
	port := cfg.Server.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	srv := server.New(server.Config{
		Tree: cmdCtx.Tree,
		TreeConfig: tree.Config{
			Root:           cfg.Root,
			VCS:            cfg.VCS,
			SkipExtensions: cfg.SkipExtensions,
			Logger:         cmdCtx.Logger,
		},
		Host:          host,
		Port:          port,
		Watch:         opts.Watch,
		SessionSecret: sessionSecret(),
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://%s", net.JoinHostPort(host, strconv.Itoa(port)))
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	r.Printf("Serving requirements on %s\n", url)
	r.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	return srv.Serve(ctx)
}

// sessionSecret returns the cookie signing secret. Without one in the
// environment, each server start gets a fresh random secret, which
// invalidates old session cookies on restart.
func sessionSecret() string {
	if secret := os.Getenv("LEAPREQ_SESSION_SECRET"); secret != "" {
		return secret
	}
	return uuid.NewString()
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
