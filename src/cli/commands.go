package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	versionpkg "dcd-complete/src/internal/version"
)

// CLI Constants
const (
	CmdComplete   = "complete"
	CmdServe      = "serve"
	CmdServer     = "server"
	CmdConfig     = "config"
	CmdConfigInit = "init"
	CmdConfigShow = "show"
	CmdVersion    = "version"
	FlagConfig    = "config"
	FlagFile      = "file"
	FlagStdin     = "stdin"
	FlagPath      = "path"
	FlagLine      = "line"
	FlagColumn    = "column"
	FlagEncoding  = "encoding"
	FlagFormat    = "format"
	FlagForce     = "force"
	FlagVerbose   = "verbose"
)

// Output formats of the complete command
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatLSP  = "lsp"
)

// CLI Variables
var (
	configPath string
	filePath   string
	readStdin  bool
	bufferPath string
	line       int
	column     int
	encoding   string
	format     string
	force      bool
	verbose    bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "dcd-complete",
	Short: "D completion source backed by the DCD completion daemon",
	Long: `dcd-complete asks dcd-client for completions at a cursor position and turns the
reply into editor candidates: identifiers with aligned kind labels, or calltips whose
insert text is the parameter names of the called function.

QUICK START:
  dcd-complete server                              # Run dcd-server in the foreground
  dcd-complete complete -f app.d -l 12 --column 8  # One-shot completion
  dcd-complete serve                               # Stdio endpoint for editor plugins

AVAILABLE COMMANDS:
  dcd-complete complete       # Complete at a position in a file or stdin buffer
  dcd-complete serve          # Content-Length framed JSON-RPC on stdio
  dcd-complete server         # Start dcd-server and stop it on interrupt
  dcd-complete config init    # Write the default configuration file
  dcd-complete config show    # Print the effective configuration
  dcd-complete version        # Show version information

Use 'dcd-complete <command> --help' for detailed command information.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Command definitions
var (
	completeCmd = &cobra.Command{
		Use:   CmdComplete,
		Short: "Complete at a cursor position",
		Long: `Run one completion request against dcd-client.

The buffer is read from --file, or from stdin with --stdin (use --path to name the
file it belongs to). --line is 1-based, --column is the 0-based character column of
the cursor on that line.

Output formats:
  text   one display label per line (default)
  json   position, byte offset, mode and candidates
  lsp    an LSP CompletionList

Examples:
  dcd-complete complete -f source/app.d -l 12 --column 8
  cat app.d | dcd-complete complete --stdin --path source/app.d -l 3 --column 4 --format json`,
		Args: cobra.NoArgs,
		RunE: runCompleteCmd,
	}

	serveCmd = &cobra.Command{
		Use:   CmdServe,
		Short: "Serve completion requests over stdio",
		Long: `Start a JSON-RPC 2.0 endpoint on stdin/stdout using LSP Content-Length framing.

One process serves one editing session: import directories are sent to dcd-client
only once, and with server_autostart a dcd-server is started on initialize and
stopped on exit.

Methods:
  initialize      -> {serverInfo, dcdServer}
  dcd/complete    {textDocument:{uri}, position:{line,character}, text, encoding?}
                  -> {position, mode, list}
  shutdown        -> null
  exit            (notification) ends the session`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	serverCmd = &cobra.Command{
		Use:   CmdServer,
		Short: "Run dcd-server in the foreground",
		Long: `Start dcd-server with the configured import paths and stop it on SIGINT or SIGTERM.

The binary is server_binary when it names an existing file, otherwise dcd-server
from PATH.`,
		Args: cobra.NoArgs,
		RunE: runServerCmd,
	}

	configCmd = &cobra.Command{
		Use:   CmdConfig,
		Short: "Manage configuration",
		Long: `Manage the dcd-complete configuration file.

The default location is ~/.dcd-complete/config.yaml.`,
		RunE: runConfigCmd,
	}

	versionCmd = &cobra.Command{
		Use:   CmdVersion,
		Short: "Show version information",
		Long: `Display version information for dcd-complete.

Examples:
  dcd-complete version              # Show version number
  dcd-complete version --verbose    # Show detailed build information`,
		RunE: runVersionCmd,
	}
)

// Config subcommands
var (
	configInitCmd = &cobra.Command{
		Use:   CmdConfigInit,
		Short: "Write the default configuration file",
		Long: `Write a configuration file with default values.

An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runConfigInitCmd,
	}

	configShowCmd = &cobra.Command{
		Use:   CmdConfigShow,
		Short: "Print the effective configuration",
		Long:  `Print the configuration after defaults and environment overrides are applied.`,
		Args:  cobra.NoArgs,
		RunE:  runConfigShowCmd,
	}
)

func init() {
	// Complete command flags
	completeCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")
	completeCmd.Flags().StringVarP(&filePath, FlagFile, "f", "", "Read the buffer from this file")
	completeCmd.Flags().BoolVar(&readStdin, FlagStdin, false, "Read the buffer from stdin")
	completeCmd.Flags().StringVar(&bufferPath, FlagPath, "", "File the stdin buffer belongs to (optional)")
	completeCmd.Flags().IntVarP(&line, FlagLine, "l", 1, "Cursor line, 1-based")
	completeCmd.Flags().IntVar(&column, FlagColumn, 0, "Cursor column in characters, 0-based")
	completeCmd.Flags().StringVarP(&encoding, FlagEncoding, "e", "", "Buffer encoding (default utf-8)")
	completeCmd.Flags().StringVar(&format, FlagFormat, FormatText, "Output format: text, json or lsp")
	completeCmd.MarkFlagsMutuallyExclusive(FlagFile, FlagStdin)

	// Serve command flags
	serveCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")

	// Server command flags
	serverCmd.Flags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (optional)")

	// Config command flags
	configCmd.PersistentFlags().StringVarP(&configPath, FlagConfig, "c", "", "Configuration file path (default ~/.dcd-complete/config.yaml)")
	configInitCmd.Flags().BoolVarP(&force, FlagForce, "f", false, "Overwrite an existing file")

	// Config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	// Version command flags
	versionCmd.Flags().BoolVarP(&verbose, FlagVerbose, "v", false, "Show detailed version information")

	// Add commands to root
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// Command runner functions - these delegate to the extracted modules

func runCompleteCmd(cmd *cobra.Command, args []string) error {
	req := CompleteRequest{
		File:     filePath,
		Stdin:    readStdin,
		Path:     bufferPath,
		Line:     line,
		Column:   column,
		Encoding: encoding,
		Format:   format,
	}
	return RunComplete(cmd.Context(), loadConfig(configPath), req, cmd.InOrStdin(), cmd.OutOrStdout())
}

func runServeCmd(cmd *cobra.Command, args []string) error {
	return RunServe(loadConfig(configPath), cmd.InOrStdin(), cmd.OutOrStdout())
}

func runServerCmd(cmd *cobra.Command, args []string) error {
	return RunDCDServer(loadConfig(configPath))
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

func runConfigInitCmd(cmd *cobra.Command, args []string) error {
	return InitConfig(configPath, force, cmd.OutOrStdout())
}

func runConfigShowCmd(cmd *cobra.Command, args []string) error {
	return ShowConfig(loadConfig(configPath), cmd.OutOrStdout())
}

func runVersionCmd(cmd *cobra.Command, args []string) error {
	if verbose {
		fmt.Fprintln(cmd.OutOrStdout(), versionpkg.GetFullVersionInfo())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "dcd-complete %s\n", versionpkg.GetVersion())
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
