// Command advault parses directory attribute dumps into a linked, tagged
// markdown vault for graph-based inspection.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"advault/config"
	"advault/directory"
	"advault/link"
	"advault/pipeline"
	"advault/store"
	"advault/store/pgstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	combined  string
	users     string
	groups    string
	computers string

	vaultDir string
	dsn      string
	envFile  string

	overwrite  bool
	appendMode bool
	debug      bool

	logonCount int
	logonDays  int
	delimiter  string
	seed       string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "advault",
		Short:         "Parse directory attribute dumps into a linked markdown vault",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.combined, "file", "f", "", "combined input file")
	f.StringVarP(&opts.users, "users", "U", "", "input file containing only users")
	f.StringVarP(&opts.groups, "groups", "G", "", "input file containing only groups")
	f.StringVarP(&opts.computers, "computers", "C", "", "input file containing only computers")
	f.StringVarP(&opts.vaultDir, "directory", "D", "", "vault directory for output documents")
	f.StringVar(&opts.dsn, "dsn", "", "Postgres DSN; store documents in a database instead of the vault directory")
	f.StringVar(&opts.envFile, "env-file", "", "env file with ADVAULT_* overrides")
	f.BoolVar(&opts.overwrite, "overwrite", false, "overwrite existing documents")
	f.BoolVar(&opts.appendMode, "append", false, "smart-append new facts into existing documents")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	f.IntVar(&opts.logonCount, "logon-count", config.DefaultLogonCountThreshold, "logon count below which an account is tagged low-activity")
	f.IntVar(&opts.logonDays, "logon-days", config.DefaultStaleLogonDays, "days since last logon after which an account is tagged stale")
	f.StringVar(&opts.delimiter, "delimiter", config.DefaultDelimiter, "delimiter between attribute names and values")
	f.StringVar(&opts.seed, "filename-seed", config.DefaultFilenameSeed, "attribute used to name each document")

	cmd.MarkFlagsMutuallyExclusive("overwrite", "append")

	return cmd
}

func run(cmd *cobra.Command, opts *options) error {
	level := zerolog.InfoLevel
	if opts.debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return err
	}

	if opts.combined != "" && (opts.users != "" || opts.groups != "" || opts.computers != "") {
		return errors.New("provide either a combined file (-f) or per-type files (-U/-G/-C), not both")
	}
	if opts.combined == "" && opts.users == "" && opts.groups == "" && opts.computers == "" {
		return errors.New("no input files specified")
	}
	if opts.vaultDir == "" && opts.dsn == "" {
		return errors.New("no output configured: pass --directory or --dsn")
	}

	sources, closeAll, err := openSources(opts)
	if err != nil {
		return err
	}
	defer closeAll()

	ctx := cmd.Context()
	runID := uuid.New()

	var st store.DocumentStore
	if opts.dsn != "" {
		pg := pgstore.New(opts.dsn, runID, logger)
		if err := pg.Connect(ctx); err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.EnsureSchema(ctx); err != nil {
			return err
		}
		st = pg
	} else {
		st = store.NewVaultStore(opts.vaultDir)
	}
	p := pipeline.New(cfg, st, link.Index{}, runID, logger)

	stats, err := p.Run(ctx, sources)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(),
		"processed %d users, %d groups, %d computers (%d skipped)\n",
		stats.Users, stats.Groups, stats.Computers, stats.SkippedObjects)
	return nil
}

func buildConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	cfg := config.Default()

	var err error
	if opts.envFile != "" {
		if cfg, err = config.LoadEnv(cfg, opts.envFile); err != nil {
			return cfg, err
		}
	} else if cfg, err = config.FromEnv(cfg); err != nil {
		return cfg, err
	}

	// Flags the user actually set win over env values.
	flagSet := cmd.Flags()
	if flagSet.Changed("delimiter") {
		cfg.Delimiter = opts.delimiter
	}
	if flagSet.Changed("filename-seed") {
		cfg.FilenameSeed = opts.seed
	}
	if flagSet.Changed("logon-count") {
		cfg.LogonCountThreshold = opts.logonCount
	}
	if flagSet.Changed("logon-days") {
		cfg.StaleLogonDays = opts.logonDays
	}
	if opts.overwrite {
		cfg.Mode = config.ModeOverwrite
	}
	if opts.appendMode {
		cfg.Mode = config.ModeAppend
	}
	cfg.Debug = opts.debug

	return cfg, nil
}

func openSources(opts *options) ([]pipeline.Source, func(), error) {
	type input struct {
		path   string
		forced directory.Class
	}
	inputs := []input{
		{opts.combined, directory.ClassUnknown},
		{opts.users, directory.ClassUser},
		{opts.groups, directory.ClassGroup},
		{opts.computers, directory.ClassComputer},
	}

	var (
		sources []pipeline.Source
		files   []*os.File
	)
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}

	for _, in := range inputs {
		if in.path == "" {
			continue
		}
		f, err := os.Open(in.path)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("opening input: %w", err)
		}
		files = append(files, f)
		sources = append(sources, pipeline.Source{
			Name:   in.path,
			Reader: f,
			Forced: in.forced,
		})
	}
	return sources, closeAll, nil
}
