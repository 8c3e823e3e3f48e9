// Package cli implements the xmp command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/xmptree/internal/paths"
	"github.com/mesh-intelligence/xmptree/pkg/types"
	"github.com/mesh-intelligence/xmptree/pkg/xmp"
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
	verbose   bool
}

// app is the state shared by subcommands once configuration is loaded.
type app struct {
	flags         rootFlags
	configDir     string
	sidecarSuffix string
	logger        *zap.Logger
	registry      *xmp.Registry
}

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

// userErrors classify failures caused by the invocation rather than the
// system.
var userErrors = []error{
	types.ErrMissingKey,
	types.ErrInvalidPath,
	types.ErrFileNotFound,
	types.ErrUnregisteredNamespace,
	types.ErrUnsupportedOperation,
	types.ErrUnsupportedValue,
	errUnknownNamespace,
	errInvalidValue,
}

var (
	errUnknownNamespace = errors.New("unknown namespace")
	errInvalidValue     = errors.New("invalid value")
)

// classify wraps err with the exit code it maps to.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return &exitError{code: exitUserError, err: err}
		}
	}
	return &exitError{code: exitSysError, err: err}
}

// NewRootCmd creates the top-level "xmp" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "xmp",
		Short: "Inspect and edit XMP-style metadata",
		Long: "xmp reads and writes typed, hierarchical metadata stored in packet files\n" +
			"or in sidecars next to the files they describe.",
		Version: xmp.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = a.logger.Sync()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newGetCmd(a))
	root.AddCommand(newSetCmd(a))
	root.AddCommand(newDeleteCmd(a))
	root.AddCommand(newNamespacesCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(run(NewRootCmd(), os.Args[1:], os.Stderr))
}

// run executes root with args and returns the exit code. Errors are printed
// to stderr.
func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "xmp:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument errors from cobra.
	return exitUserError
}

// load resolves the config directory, reads the configuration and prepares
// the logger and namespace registry.
func (a *app) load() error {
	dir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return classify(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(dir)
	if err != nil {
		return classify(err)
	}
	a.configDir = dir
	a.sidecarSuffix = cfg.SidecarSuffix

	logger, err := newLogger(cfg.LogLevel, a.flags.verbose)
	if err != nil {
		return classify(err)
	}
	a.logger = logger

	reg := xmp.NewRegistry()
	reg.RegisterStandard()
	for _, ns := range cfg.Namespaces {
		if got := reg.Register(ns.URI, ns.Prefix); got != ns.Prefix {
			a.logger.Warn("configured prefix unavailable",
				zap.String("uri", ns.URI),
				zap.String("prefix", ns.Prefix),
				zap.String("effective", got))
		}
	}
	a.registry = reg
	return nil
}

// sessionOptions returns the options every command opens files with.
func (a *app) sessionOptions(extra ...xmp.Option) []xmp.Option {
	opts := []xmp.Option{
		xmp.WithRegistry(a.registry),
		xmp.WithLogger(a.logger),
		xmp.WithSidecarSuffix(a.sidecarSuffix),
	}
	return append(opts, extra...)
}

// namespaceURI accepts either a namespace URI or a registered prefix.
func (a *app) namespaceURI(arg string) (string, error) {
	if _, ok := a.registry.Prefix(arg); ok {
		return arg, nil
	}
	if uri, ok := a.registry.URI(arg); ok {
		return uri, nil
	}
	if isURI(arg) {
		return arg, nil
	}
	return "", fmt.Errorf("%w: %q is neither a URI nor a registered prefix", errUnknownNamespace, arg)
}
