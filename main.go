package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	interactive bool
	quiet       bool

	flagSchema   string
	flagLocale   string
	flagFormat   string
	flagOutput   string
	flagUser     string
	flagDSN      string
	flagLogLevel string
	flagDBA      bool
	flagSysDBA   bool

	snapshotType string
	snapshotDSN  string
)

var rootCmd = &cobra.Command{
	Use:           "oradoc [config.toml]",
	Short:         "Oracle schema documentation generator",
	Args:          cobra.MaximumNArgs(1),
	RunE:          runReport,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [config.toml]",
	Short: "Copy the catalog views of a schema into SQLite, PostgreSQL or MySQL",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSnapshot,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the oradoc version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), versionString())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to TOML config file")
	pf.StringVarP(&flagSchema, "schema", "r", "", "schema to document (default: the connected user)")
	pf.StringVarP(&flagUser, "user", "u", "", "user to connect as")
	pf.StringVarP(&flagDSN, "dsn", "t", "", "catalog source DSN")
	pf.BoolVarP(&flagSysDBA, "sysdba", "s", false, "connect as SYSDBA")
	pf.BoolVarP(&flagDBA, "dba", "d", false, "read dba_* views where visible")
	pf.BoolVarP(&interactive, "interactive", "i", false, "prompt for missing connection details")
	pf.BoolVarP(&quiet, "quiet", "q", false, "only log errors and hide progress")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.Flags().StringVarP(&flagLocale, "locale", "l", "", "message catalog name")
	rootCmd.Flags().StringVar(&flagFormat, "format", "", "report format: html, markdown or docx")
	rootCmd.Flags().StringVarP(&flagOutput, "output", "f", "", "report file")

	snapshotCmd.Flags().StringVar(&snapshotType, "to-type", "", "snapshot target type: sqlite, postgres or mysql")
	snapshotCmd.Flags().StringVar(&snapshotDSN, "to-dsn", "", "snapshot target DSN")

	rootCmd.AddCommand(snapshotCmd, versionCmd)
	rootCmd.Version = versionString()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// prepareConfig loads the config file, applies flags and prompts, and
// validates the result.
func prepareConfig(cmd *cobra.Command, args []string) (*Config, error) {
	// Positional arg takes precedence over --config flag
	cfgPath := configPath
	if len(args) > 0 {
		cfgPath = args[0]
	}

	cfg, err := readConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	applyFlags(cmd, cfg)
	if interactive {
		if err := newTerminalPrompter().fill(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	set("schema", &cfg.Schema, flagSchema)
	set("user", &cfg.Source.User, flagUser)
	set("dsn", &cfg.Source.DSN, flagDSN)
	set("log-level", &cfg.LogLevel, flagLogLevel)
	if flags.Lookup("locale") != nil {
		set("locale", &cfg.Locale, flagLocale)
		set("format", &cfg.Format, flagFormat)
		set("output", &cfg.Output, flagOutput)
	}
	if flags.Changed("dba") {
		cfg.UseDBAViews = flagDBA
	}
	if flags.Changed("sysdba") {
		cfg.Source.SysDBA = flagSysDBA
	}
	if flags.Lookup("to-type") != nil {
		set("to-type", &cfg.Snapshot.Type, snapshotType)
		set("to-dsn", &cfg.Snapshot.DSN, snapshotDSN)
	}
	if cfg.Source.Type == "" && cfg.Source.DSN != "" {
		cfg.Source.Type = "oracle"
	}
	if quiet {
		cfg.LogLevel = "error"
	}
}

// catalogSession is an open catalog source with its view mapping resolved.
type catalogSession struct {
	src    SourceDB
	user   string
	reader *sqlCatalog
	log    *zap.SugaredLogger
}

func openCatalog(ctx context.Context, cfg *Config, log *zap.SugaredLogger) (*catalogSession, error) {
	src, err := newSourceDB(cfg.Source.Type)
	if err != nil {
		return nil, err
	}
	user, err := src.ExtractUser(cfg.Source)
	if err != nil {
		return nil, &Error{Kind: KindConfig, Message: "source user", Cause: err}
	}
	if err := cfg.finalize(user); err != nil {
		return nil, err
	}

	log.Infow("connecting", "source", src.Name(), "user", user, "schema", cfg.Schema)
	db, err := src.OpenDB(cfg.Source)
	if err != nil {
		return nil, &Error{Kind: KindCatalog, Message: "open source", Cause: err}
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, &Error{Kind: KindCatalog, Message: "connect " + src.Name(), Cause: err}
	}
	if v, err := src.ServerVersion(ctx, db); err == nil {
		log.Debugw("connected", "server", v)
	}

	views := defaultCatalogViews()
	if cfg.UseDBAViews {
		if views, err = probeDBAViews(ctx, db, views); err != nil {
			db.Close()
			return nil, err
		}
	}
	if views, err = views.withOverrides(cfg.Views); err != nil {
		db.Close()
		return nil, err
	}
	for logical, actual := range views {
		if logical != actual {
			log.Debugw("catalog view mapped", "view", logical, "to", actual)
		}
	}

	if user == "" {
		user = cfg.Schema
	}
	return &catalogSession{
		src:    src,
		user:   user,
		reader: newSQLCatalog(db, views, src.Placeholder()),
		log:    log,
	}, nil
}

func (s *catalogSession) Close() error { return s.reader.db.Close() }

// diagnose logs what helps explain a failed catalog read.
func (s *catalogSession) diagnose(ctx context.Context, err error) {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindCatalog {
		return
	}
	fields := []any{"source", s.src.Name()}
	if v, verr := s.src.ServerVersion(ctx, s.reader.db); verr == nil {
		fields = append(fields, "server", v)
	}
	if nls := os.Getenv("NLS_LANG"); nls != "" {
		fields = append(fields, "nls_lang", nls)
	}
	s.log.Errorw("catalog read failed", fields...)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig(cmd, args)
	if err != nil {
		return err
	}
	log, _ := newStderrLogger(cfg.LogLevel)
	defer log.Sync()

	// Format and messages are checked before any catalog work.
	format, err := cfg.ReportFormat()
	if err != nil {
		return err
	}
	loc, err := LoadLocalizer(localeFS(cfg.localeDir()), cfg.Locale)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log.Infow("oradoc starting", "version", versionString(), "format", format.String(), "locale", loc.Locale())

	sess, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	job := &reportJob{
		reader:    sess.reader,
		schema:    cfg.Schema,
		user:      sess.user,
		format:    format,
		loc:       loc,
		output:    cfg.Output,
		generator: generatorName(),
		log:       log,
		progress:  newProgress(!quiet && cfg.LogLevel != "debug"),
	}
	if _, err := job.run(ctx); err != nil {
		sess.diagnose(ctx, err)
		return err
	}

	if interactive {
		if msg, err := loc.Message(msgReportEnd); err == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := prepareConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Snapshot.Type == "" || cfg.Snapshot.DSN == "" {
		return configErrorf("snapshot target required: set [snapshot] type and dsn or pass --to-type and --to-dsn")
	}
	log, _ := newStderrLogger(cfg.LogLevel)
	defer log.Sync()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	sess, err := openCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer sess.Close()

	w, err := newSnapshotWriter(ctx, cfg.Snapshot)
	if err != nil {
		return err
	}
	counts, err := exportSnapshot(ctx, sess.reader.db, sess.reader.views, sess.src.Placeholder(), strings.ToUpper(cfg.Schema), w, log)
	if cerr := w.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close snapshot: %w", cerr)
	}
	if err != nil {
		sess.diagnose(ctx, err)
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	log.Infow("snapshot written", "type", cfg.Snapshot.Type, "schema", cfg.Schema, "views", len(counts), "rows", total)
	return nil
}
