/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/api"
	"github.com/cardazim/cardazim/pkg/collector"
	"github.com/cardazim/cardazim/pkg/config"
	"github.com/cardazim/cardazim/pkg/protocol"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve [host] [port]",
	Short: "Collect cards sent over TCP",
	Long: `Listen for cards, store each one in the data directory and print it as
it arrives. Host and port default to the server section of the config.

With --api-port set, the REST API for browsing and solving stored cards is
served alongside the collector.

Examples:
  cardazim serve 127.0.0.1 8000
  cardazim serve 0.0.0.0 8000 --api-port 9200`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		server := cfg.Server
		if len(args) > 0 {
			server.Bind = args[0]
		}
		if len(args) > 1 {
			port, err := parsePort(args[1])
			if err != nil {
				return err
			}
			server.Port = port
		}
		if cmd.Flags().Changed("backlog") {
			server.Backlog, _ = cmd.Flags().GetInt("backlog")
		}

		apiConfig := cfg.API
		if cmd.Flags().Changed("api-port") {
			apiConfig.Port, _ = cmd.Flags().GetInt("api-port")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cmd.OutOrStdout(), server, apiConfig)
	},
}

// serve runs the collector, and the API when apiConfig.Port is set, until
// ctx is cancelled or either of them fails.
func serve(ctx context.Context, out io.Writer, server config.Server, apiConfig config.API) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	listener, err := protocol.Listen(server.Bind, server.Port, server.Backlog)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	collectorServer, err := collector.New(collector.Config{
		Listener:    listener,
		Store:       store,
		Out:         out,
		Logger:      logger,
		Metrics:     collector.NewMetrics(registry),
		ReadTimeout: server.ReadTimeout(),
	})
	if err != nil {
		listener.Close()
		return err
	}

	fmt.Fprintf(out, "Listening on %s\n", listener.Addr())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	running := 1
	go func() { errs <- collectorServer.Serve(ctx) }()

	if apiConfig.Port > 0 {
		running++
		starter := container.GetServerFactory().CreateServerStarter()
		go func() {
			errs <- starter.StartServer(ctx, store, api.ServerConfig{
				Bind:   server.Bind,
				Port:   apiConfig.Port,
				APIKey: apiConfig.APIKey,
			}, logger, registry)
		}()
	}

	// The first component to stop takes the other down with it.
	var result error
	for ; running > 0; running-- {
		if err := <-errs; err != nil && !errors.Is(err, context.Canceled) {
			result = errors.Join(result, err)
		}
		cancel()
	}
	return result
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("api-port", 0, "Port for the REST API (0 disables it)")
	serveCmd.Flags().Int("backlog", 1000, "Accept backlog for the collector socket")
}
