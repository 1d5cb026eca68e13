package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stagehand/stagehand/internal/coordinator"
	"github.com/stagehand/stagehand/internal/devhost"
	"github.com/stagehand/stagehand/pkg/config"
	"github.com/stagehand/stagehand/pkg/logger"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the shim against the development host simulator",
		Long: `Start the engine lifecycle coordinator against a simulated host.

The simulator opens the configured document, reports file writes as
saves, and accepts commands on stdin:

  open <path>   open a document
  new           create a new empty document
  status        show the coordinator state
  exit          shut the host down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShim()
		},
	}
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		Long:  `Write a stagehand.config.json skeleton into the project root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		Long:  `Check that the configuration file is valid: engine name, workspaces and log level.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Stagehand",
		Long:  `Print the version number of Stagehand`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("🎬 Stagehand v%s\n", version)
		},
	}
}

// Implementation functions

func runShim() error {
	cfg, err := config.NewManager().LoadConfig(getConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := verbosity
	if cfg.LogLevel != "" {
		level = string(cfg.LogLevel)
	}
	log := logger.CreateLogger(cfg.LogFile, level)

	factory := &coordinator.DependencyFactory{}
	coord, host, err := factory.CreateCoordinator(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to set up host simulator: %w", err)
	}
	defer host.Close()

	if err := coord.Start(); err != nil {
		return err
	}
	printSuccess(fmt.Sprintf("Coordinating engine %q (status: %s)", cfg.EngineName, coord.Status()))
	printInfo("Type 'open <path>', 'new', 'status' or 'exit'. Ctrl-C quits.")

	// The console reader blocks on stdin and cannot be cancelled; it runs
	// outside the group so a signal shutdown is not held up by it.
	go runConsole(host, coord)

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			printInfo("Shutting down...")
			host.Exit()
		case <-ctx.Done():
		}
		return nil
	})

	g.Go(func() error {
		<-host.Done()
		coord.Stop()
		return nil
	})

	return g.Wait()
}

func runConsole(host *devhost.Host, coord *coordinator.Coordinator) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "exit":
			host.Exit()
			return
		case line == "new":
			host.NewDocument()
		case line == "status":
			printInfo(fmt.Sprintf("status=%s context=%s", coord.Status(), coord.Context()))
		case strings.HasPrefix(line, "open "):
			path := strings.TrimSpace(strings.TrimPrefix(line, "open "))
			if err := host.OpenDocument(path); err != nil {
				printError(fmt.Sprintf("cannot open %s: %v", path, err))
			}
		default:
			printError(fmt.Sprintf("unknown command: %s", line))
		}
	}
}

func runInit() error {
	path := getConfigPath()
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg := config.NewManager().GetDefaultConfig()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printSuccess(fmt.Sprintf("Created %s", path))
	printInfo("Add your workspaces and engine name, then run 'stagehand run'.")
	return nil
}

func runValidate() error {
	printInfo(fmt.Sprintf("Validating %s", getConfigPath()))

	cfg, err := config.NewManager().LoadConfig(getConfigPath())
	if err != nil {
		printError(fmt.Sprintf("Configuration invalid: %v", err))
		return err
	}

	printSuccess("Configuration is valid")
	printInfo(fmt.Sprintf("Engine: %s", cfg.EngineName))
	printInfo(fmt.Sprintf("Workspaces: %d", len(cfg.Workspaces)))
	return nil
}
