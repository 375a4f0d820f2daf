package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benmeehan/procstat-agent/internal/services"
	"github.com/benmeehan/procstat-agent/internal/sinks"
	"github.com/benmeehan/procstat-agent/internal/stats"
	"github.com/benmeehan/procstat-agent/internal/utils"
	"github.com/benmeehan/procstat-agent/pkg/file"
	"github.com/benmeehan/procstat-agent/pkg/logger"
	"github.com/spf13/cobra"
)

const defaultConfigPath = "configs/config.yaml"

func newRootCmd() *cobra.Command {
	var configPath, logLevel string

	cmd := &cobra.Command{
		Use:           "procstat-agent",
		Short:         "Report the top CPU and memory consuming processes to a metrics backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAgent(configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML configuration file")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "override logging.level from the configuration")

	cmd.AddCommand(newInitConfigCmd(), newVersionCmd())
	return cmd
}

func runAgent(configPath, logLevel string) error {
	log := logger.Default()
	fileClient := file.NewFileService()

	// Load configuration from file
	config, err := utils.LoadConfig(configPath, fileClient)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if logLevel != "" {
		config.Logging.Level = logLevel
	}

	log, closer, err := logger.New(config.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	hostname, err := utils.ResolveHostname(context.Background(), config.Agent.Hostname)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve hostname")
		return err
	}
	log = log.With().Str("hostname", hostname).Logger()

	counters := stats.NewCounters()

	collector, err := services.NewProcessCollector(config, counters, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create process collector")
		return err
	}

	factory, err := services.NewSinkFactory(config, fileClient, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create sink")
		return err
	}
	sink := sinks.NewLazySink(factory, log)
	defer func() {
		if err := sink.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close sink")
		}
	}()

	loop := services.NewSampleLoop(collector, sink, hostname, config.Agent.Interval.Duration,
		config.Agent.CPUProcCount, config.Agent.MemProcCount, counters, log)

	// Create a new service registry to manage services
	serviceRegistry := services.NewServiceRegistry(log)
	loopService := serviceRegistry.RegisterServices(config, loop, counters)

	if err := serviceRegistry.StartServices(); err != nil {
		log.Error().Err(err).Msg("Failed to start services")
		return err
	}
	log.Info().Str("version", version).Msg("All services started successfully")

	// Handle graceful shutdown
	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stopCh)

	select {
	case sig := <-stopCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")
	case <-loopService.Done():
		log.Error().Err(loopService.Err()).Msg("Sample loop terminated")
	}

	serviceRegistry.StopServices()
	return loopService.Err()
}
