package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mireles/ontoground/internal/config"
	"github.com/mireles/ontoground/internal/service"
)

var serveQueueFlag string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve grounding requests over NATS",
	Long: `Run the grounding engine as a NATS request/reply service so other
processes can resolve terms without local vocabulary indexes.

Multiple servers with the same queue group share the request load.

Examples:
  ontoground serve
  ontoground serve --queue curation-pool
  ontoground config set nats_url nats://broker:4222`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	serviceConfig := service.DefaultConfig()
	if cfg.NATSURL != "" {
		serviceConfig.URL = cfg.NATSURL
	}
	if serveQueueFlag != "" {
		serviceConfig.QueueGroup = serveQueueFlag
	}

	logger := newLogger()
	server := service.NewServer(buildSearcher(cfg), serviceConfig, logger)

	if err := server.Connect(); err != nil {
		return err
	}
	defer server.Close()

	if err := server.Start(cmd.Context()); err != nil {
		return err
	}

	// Block until interrupted.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return nil
}

func init() {
	serveCmd.Flags().StringVar(&serveQueueFlag, "queue", "", "NATS queue group (default \"ontoground\")")
	rootCmd.AddCommand(serveCmd)
}
