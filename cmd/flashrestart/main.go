package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/flashrestart/internal/cliconfig"
	"github.com/bft-labs/flashrestart/pkg/log"
	"github.com/bft-labs/flashrestart/pkg/restart"
)

const helpDescription = `
Resume a FLASH simulation from its last checkpoint.

flashrestart reads the run log to find the last checkpoint and plot files
that were closed, then rewrites flash.par so the next run picks up there.
Every edit keeps a timestamped backup next to the parameter file.

Highlights:
  - Reads basenm and log_file from flash.par, or takes them as flags.
  - Rewrites values in place; comments, ordering and spacing are kept.
  - Configure via file, env (FLASHRESTART_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  flashrestart scan --sim-dir runs/sedov
  flashrestart restart --sim-dir runs/sedov --dry-run
  flashrestart set nend=20000 tmax=0.05 --sim-dir runs/sedov
  flashrestart prune --keep 5 --archive
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// cli carries the resolved configuration and logger shared by subcommands.
type cli struct {
	cfg     cliconfig.Config
	cfgPath string
	logger  log.Logger
}

// load applies file and environment configuration under the flags the user
// set, validates, and builds the logger.
func (c *cli) load(cmd *cobra.Command) error {
	cfgFile := c.cfgPath
	if cfgFile == "" {
		cfgFile = cliconfig.DefaultConfigPath()
	}

	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if cfgFile != "" && cliconfig.FileExists(cfgFile) {
		fc, err := cliconfig.LoadFileConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cliconfig.ApplyFileConfig(&c.cfg, fc, changed); err != nil {
			return err
		}
	}

	// Environment overrides the file; flags override both.
	if err := cliconfig.ApplyEnvConfig(&c.cfg, changed); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	if err := c.cfg.Validate(); err != nil {
		return err
	}

	lvl, err := log.ParseLevel(c.cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logger = log.NewZerologAdapter(lvl)
	c.logger.Debug("configuration",
		log.String("sim_dir", c.cfg.SimDir),
		log.String("par_file", c.cfg.ParFile),
		log.String("log_file", c.cfg.LogFile),
		log.String("basenm", c.cfg.BaseName),
		log.Duration("lock_timeout", c.cfg.LockTimeout),
	)
	return nil
}

func (c *cli) restarter() (*restart.Restarter, error) {
	r, err := restart.New(c.cfg.RestartConfig(), restart.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("create restarter: %w", err)
	}
	return r, nil
}

func main() {
	c := &cli{
		cfg:    cliconfig.DefaultConfig(),
		logger: log.NewZerologAdapter(zerolog.InfoLevel),
	}

	root := &cobra.Command{
		Use:           "flashrestart",
		Short:         "Resume a FLASH simulation from its last checkpoint",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgPath, "config", "", "path to config file (default: $HOME/.flashrestart/config.toml)")
	pf.StringVar(&c.cfg.SimDir, "sim-dir", c.cfg.SimDir, "simulation directory; relative paths resolve against it")
	pf.StringVar(&c.cfg.ParFile, "par-file", c.cfg.ParFile, "parameter file to rewrite")
	pf.StringVar(&c.cfg.LogFile, "log-file", c.cfg.LogFile, "run log to scan (default: log_file from the parameter file)")
	pf.StringVar(&c.cfg.BaseName, "basenm", c.cfg.BaseName, "output base name (default: basenm from the parameter file)")
	pf.DurationVar(&c.cfg.LockTimeout, "lock-timeout", c.cfg.LockTimeout, "how long to wait for another edit of the parameter file")
	pf.StringVar(&c.cfg.LogLevel, "log-level", c.cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(
		newScanCmd(c),
		newRestartCmd(c),
		newSetCmd(c),
		newPruneCmd(c),
		newHistoryCmd(c),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		c.logger.Error("flashrestart", log.Err(err))
		os.Exit(1)
	}
}
