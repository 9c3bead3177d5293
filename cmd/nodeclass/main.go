package main

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mgomes/nodeclass/internal/logging"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags and config are read.
type app struct {
	config *Config
	log    *zap.Logger
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, log: zap.NewNop()}
	var configPath string

	root := &cobra.Command{
		Use:   "nodeclass",
		Short: "Compile and explore class hierarchies declared in manifests",
		Long: `nodeclass compiles class hierarchies declared in YAML or TOML manifests,
checks abstract obligations and visibility rules, and lets you construct
instances and call their methods.

Examples:
  nodeclass check animals.yaml            # compile every class
  nodeclass describe Dog animals.yaml     # show a class's members
  nodeclass new Dog animals.yaml --call speak
  nodeclass repl animals.yaml             # interactive session`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			log, err := logging.New(logging.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level, Output: a.errOut})
			if err != nil {
				return err
			}
			a.config = cfg
			a.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./nodeclass.{toml,yaml})")
	flags.Bool("log-json", false, "emit JSON logs")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.Int("max-depth", 64, "maximum inheritance depth")

	root.AddCommand(
		newCheckCmd(a),
		newDescribeCmd(a),
		newNewCmd(a),
		newREPLCmd(a),
	)
	return root
}
