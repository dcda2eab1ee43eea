// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/calcvm/config"
	"github.com/ava-labs/calcvm/consts"
	"github.com/ava-labs/calcvm/pebble"
	"github.com/ava-labs/calcvm/trace"
	"github.com/ava-labs/calcvm/utils"

	avatrace "github.com/ava-labs/avalanchego/trace"
)

const simulatorFolder = ".calc-simulator"

type app struct {
	dataDir    string
	configPath string
	logLevel   string
	quiet      bool
	metrics    bool

	// Populated by open and released by close.
	log      logging.Logger
	db       *pebble.Database
	tracer   avatrace.Tracer
	registry *prometheus.Registry
	sim      *simulator
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "calc-simulator",
		Short: "Calculator program simulator",
	}

	defaultDir := simulatorFolder
	if homeDir, err := os.UserHomeDir(); err == nil {
		defaultDir = path.Join(homeDir, simulatorFolder)
	}

	cobra.EnablePrefixMatching = true
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.DisableAutoGenTag = true
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", defaultDir, "directory holding the database and logs")
	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a JSON config file")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	cmd.PersistentFlags().BoolVar(&a.quiet, "quiet", false, "do not display logs on the console")
	cmd.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "print collected metrics to stderr on exit")

	cmd.AddCommand(
		newAccountCmd(a),
		newExecuteCmd(a),
		newRunCmd(a),
	)
	return cmd
}

// withSimulator opens the simulator, runs [f] and releases everything
// opened regardless of the outcome.
func (a *app) withSimulator(cmd *cobra.Command, f func(context.Context, *simulator) error) (err error) {
	if err := a.open(cmd.ErrOrStderr()); err != nil {
		return errors.Join(err, a.close())
	}
	defer func() {
		if a.metrics {
			err = errors.Join(err, printMetrics(a.registry, cmd.ErrOrStderr()))
		}
		err = errors.Join(err, a.close())
	}()
	return f(cmd.Context(), a.sim)
}

func (a *app) open(console io.Writer) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		level, err := logging.ToLevel(a.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
		cfg.LogDisplayLevel = level
	}

	dbPath, err := utils.InitSubDirectory(a.dataDir, "db")
	if err != nil {
		return err
	}
	logsPath, err := utils.InitSubDirectory(a.dataDir, "logs")
	if err != nil {
		return err
	}

	loggingConfig := logging.Config{}
	loggingConfig.LoggerName = consts.Name
	loggingConfig.Directory = logsPath
	loggingConfig.MaxSize = 8
	loggingConfig.MaxFiles = 4
	loggingConfig.MaxAge = 7
	loggingConfig.LogLevel = cfg.LogLevel
	loggingConfig.DisplayLevel = cfg.LogDisplayLevel
	loggingConfig.LogFormat = logging.JSON
	loggingConfig.DisableWriterDisplaying = a.quiet

	a.log = newLogger(loggingConfig, console)

	a.tracer, err = trace.New(&cfg.Trace)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.db, err = pebble.New(dbPath, cfg.Database, a.registry)
	if err != nil {
		return err
	}
	a.sim, err = newSimulator(a.log, a.db, cfg.MaxAccountSpace, a.tracer, a.registry)
	if err != nil {
		return err
	}

	a.log.Debug("simulator initialized",
		zap.String("dataDir", a.dataDir),
		zap.Stringer("logLevel", cfg.LogLevel),
		zap.Int("maxAccountSpace", cfg.MaxAccountSpace),
	)
	return nil
}

func (a *app) close() error {
	errs := wrappers.Errs{}
	if a.db != nil {
		errs.Add(a.db.Close())
		a.db = nil
	}
	if a.tracer != nil {
		errs.Add(a.tracer.Close())
		a.tracer = nil
	}
	if a.log != nil {
		a.log.Stop()
		a.log = nil
	}
	a.sim = nil
	return errs.Err
}
