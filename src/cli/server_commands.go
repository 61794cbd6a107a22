package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"dcd-complete/src/backend"
	"dcd-complete/src/config"
	"dcd-complete/src/internal/common"
	"dcd-complete/src/internal/constants"
	"dcd-complete/src/server"
)

// RunServe serves completion requests on in and out until the client exits
func RunServe(cfg *config.Config, in io.Reader, out io.Writer) error {
	srv := server.NewCompletionServer(cfg, backend.NewExecTransport())
	return srv.Run(in, out)
}

// RunDCDServer starts dcd-server and stops it on SIGINT or SIGTERM
func RunDCDServer(cfg *config.Config) error {
	bin, err := common.ResolveBinary(cfg.ServerBinary, constants.ServerBinaryName)
	if err != nil {
		return err
	}

	manager := backend.NewServerManager(bin, cfg.NormalizedImportPaths())
	proc, err := manager.Start()
	if err != nil {
		return fmt.Errorf("failed to start dcd-server: %w", err)
	}
	common.CLILogger.Info("Started %s %v", bin, manager.Args())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		common.CLILogger.Info("Received shutdown signal, stopping dcd-server...")
	case <-proc.Done():
		if err := proc.Err(); err != nil {
			return fmt.Errorf("dcd-server exited: %w", err)
		}
		common.CLILogger.Info("dcd-server exited")
		return nil
	}

	if err := manager.Stop(); err != nil {
		common.CLILogger.Warn("dcd-server stopped with error: %v", err)
		return err
	}
	common.CLILogger.Info("dcd-server stopped")
	return nil
}
