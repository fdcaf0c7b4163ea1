// Package cli implements the slpack command-line interface. Each lifecycle
// hook of the bundle recipe maps onto one subcommand.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/slcmake/internal/paths"
	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app carries state shared by the subcommands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	logger    *log.Logger
}

// NewRootCmd creates the top-level "slpack" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "slpack",
		Short: "Package the sl_cmake bundle",
		Long: "slpack declares the sl_cmake bundle's requirements, copies its exported\n" +
			"CMake helper and header template into a package directory, and exposes\n" +
			"its include path to consumers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory holding the package index (default: $(CWD)/.slpack-db)")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.Bool(flagDeclareRequirements, true, "declare the upstream requirements")
	pf.Bool(flagContributeIncludePath, false, "contribute the package root to consumer include paths")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newRequirementsCmd(a))
	root.AddCommand(newPackageCmd(a))
	root.AddCommand(newBuildCmd(a))
	root.AddCommand(newInfoCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newShowCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

// setup builds the logger and loads configuration before any subcommand runs.
func (a *app) setup(cmd *cobra.Command) error {
	level := log.InfoLevel
	if a.flags.verbose {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "slpack",
		Level:  level,
	})

	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return systemError(fmt.Errorf("resolve config dir: %w", err))
	}
	a.configDir = configDir

	v, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}
	if err := bindFlags(v, cmd.Root().PersistentFlags()); err != nil {
		return systemError(err)
	}
	a.v = v
	a.logger.Debug("config loaded", "dir", configDir, "file", v.ConfigFileUsed())
	return nil
}

// resolveDataDir returns the data directory following the precedence:
// --data-dir flag > config.yaml data_dir > SLPACK_DATA_DIR env > default.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.v.GetString(cfgKeyDataDir))
}

// exitErr attaches an exit code to an error.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func userError(err error) error   { return &exitErr{code: exitUserError, err: err} }
func systemError(err error) error { return &exitErr{code: exitSysError, err: err} }

// exitCode maps an error to the process exit code. I/O failures are system
// errors; a missing export or bad configuration is a user error.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var e *exitErr
	if errors.As(err, &e) {
		return e.code
	}
	if errors.Is(err, types.ErrIO) {
		return exitSysError
	}
	return exitUserError
}
