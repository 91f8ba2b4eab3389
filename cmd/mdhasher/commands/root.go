// Package commands implements the CLI commands for mdhasher.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mdhasher/internal/app"
	"go.trai.ch/mdhasher/internal/build"
)

// CLI represents the command line interface for mdhasher.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, paths []string, opts app.RunOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "mdhasher [flags] PATH...",
		Short: "Rename files to the digest of their content",
		Long: `mdhasher walks the given paths and renames every recently modified file
to the hex digest of its content, keeping the extension.

Files matched by .gitignore or .ignore are skipped, as are hidden entries.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE:          c.runE,
	}
	c.rootCmd = rootCmd

	defaults := app.DefaultRunOptions()
	flags := rootCmd.Flags()
	flags.StringP(app.OptDigest, "d", defaults.Digest, "Digest algorithm: sha1, sha224, sha256, sha384 or sha512")
	flags.BoolP(app.OptAll, "a", false, "Process all files regardless of modification time")
	flags.BoolP(app.OptNoIgnore, "N", false, "Do not respect .gitignore and .ignore files")
	flags.StringP(app.OptIgnoreFile, "i", "", "Additional ignore file applied to every path")
	flags.StringP(app.OptWindow, "w", defaults.Window, "Only process files modified within this duration")
	flags.StringP(app.OptLog, "l", defaults.Log, "Logging mode: auto, terminal, full or quiet")
	flags.IntP(app.OptJobs, "j", defaults.Jobs, "Number of files processed at once")
	flags.BoolP(app.OptHidden, "H", false, "Include hidden files and directories")
	flags.BoolP("dry-run", "n", false, "Print the renames without performing them")
	flags.StringP("config", "c", "", "Path to a defaults file (default: nearest .mdhasher.yaml)")
	flags.Bool("json-logs", false, "Write diagnostics as JSON")
	flags.BoolP("verbose", "v", false, "Enable debug diagnostics")

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) runE(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	opts := app.RunOptions{Explicit: make(map[string]bool)}

	opts.Digest, _ = flags.GetString(app.OptDigest)
	opts.All, _ = flags.GetBool(app.OptAll)
	opts.NoIgnore, _ = flags.GetBool(app.OptNoIgnore)
	opts.IgnoreFile, _ = flags.GetString(app.OptIgnoreFile)
	opts.Window, _ = flags.GetString(app.OptWindow)
	opts.Log, _ = flags.GetString(app.OptLog)
	opts.Jobs, _ = flags.GetInt(app.OptJobs)
	opts.Hidden, _ = flags.GetBool(app.OptHidden)
	opts.DryRun, _ = flags.GetBool("dry-run")
	opts.ConfigPath, _ = flags.GetString("config")
	opts.JSONLogs, _ = flags.GetBool("json-logs")
	opts.Verbose, _ = flags.GetBool("verbose")

	for _, name := range []string{
		app.OptDigest, app.OptAll, app.OptNoIgnore, app.OptIgnoreFile,
		app.OptWindow, app.OptLog, app.OptJobs, app.OptHidden,
	} {
		if flags.Changed(name) {
			opts.Explicit[name] = true
		}
	}

	return c.app.Run(cmd.Context(), args, opts)
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
