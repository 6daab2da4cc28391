package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/server"
	"github.com/goliatone/go-formbuilder/pkg/persist"
)

var (
	serveAddr     string
	serveDBPath   string
	serveAutosave time.Duration
	serveInMemory bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the form builder HTTP server",
	Long: `Start the HTTP server that exposes the builder API, published form
pages and the response listings.

Examples:
  # Serve with the default SQLite store
  formbuilder serve

  # Serve on a different address with an ephemeral store
  formbuilder serve --addr :9090 --in-memory`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "sqlite database path (overrides config)")
	serveCmd.Flags().DurationVar(&serveAutosave, "autosave", 0, "draft autosave interval (overrides config)")
	serveCmd.Flags().BoolVar(&serveInMemory, "in-memory", false, "keep all data in memory, nothing touches disk")
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	autosave := cfg.Builder.AutosaveInterval
	if serveAutosave > 0 {
		autosave = serveAutosave
	}

	srv, err := server.New(server.Options{
		Logger:           logger,
		Gateway:          persist.NewGateway(store),
		AutosaveInterval: autosave,
		DefaultTheme:     cfg.Builder.DefaultTheme,
	})
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server", zap.String("addr", addr))
	return srv.Run(ctx, addr)
}

func openStore() (persist.Store, error) {
	if serveInMemory {
		return persist.NewMemory(), nil
	}
	path := cfg.Storage.Path
	if serveDBPath != "" {
		path = serveDBPath
	}
	return persist.NewSQLite(path)
}
