package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/diillson/genomics-finops-go/internal/application/usecase"
	"github.com/diillson/genomics-finops-go/internal/domain/entity"
	"github.com/diillson/genomics-finops-go/internal/domain/repository"
	"github.com/diillson/genomics-finops-go/internal/shared/types"
	"github.com/diillson/genomics-finops-go/pkg/version"
)

// UseCaseFactory builds the billing use case and its adapters for a resolved
// configuration. The returned close function releases them.
type UseCaseFactory func(ctx context.Context, cfg *types.Config) (*usecase.BillingUseCase, func() error, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	console    types.ConsoleInterface
	newUseCase UseCaseFactory
	lookupEnv  func(string) (string, bool)
	version    string
	quiet      bool
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, console types.ConsoleInterface) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		console:    console,
		lookupEnv:  os.LookupEnv,
		version:    versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "genomics-finops",
		Short:         "Daily storage cost attribution for a genomics platform",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          app.runBilling,
	}
	rootCmd.SetVersionTemplate(`{{printf "Genomics FinOps version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("db", "", "Path to the SQLite database (default: finops.db)")
	flags.String("org", "", "Organization whose projects are billed")
	flags.String("api-server", "", "Platform API server URL")
	flags.Float64("live-rate", 0, "Live storage price per GiB-month")
	flags.Float64("archived-rate", 0, "Archived storage price per GiB-month")
	flags.Int("workers", 0, "Concurrent project listings (default: 5)")
	flags.String("fetch-timeout", "", "Timeout for one project listing, e.g. 10m")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("s3-bucket", "", "Upload exported reports to this S3 bucket")
	flags.String("s3-prefix", "", "Key prefix for uploaded reports")
	flags.String("aws-profile", "", "AWS profile used for uploads")
	flags.String("aws-region", "", "AWS region used for uploads")
	flags.String("metrics-file", "", "Write Prometheus metrics to this file after each run")
	flags.BoolVarP(&app.quiet, "quiet", "q", false, "Do not print the banner nor check for updates")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Compute and store today's storage costs (default command)",
		Args:  cobra.NoArgs,
		RunE:  app.runBilling,
	}
	runCmd.Flags().String("date", "", "Billing day to store the costs under (YYYY-MM-DD, default: today UTC)")
	rootCmd.Flags().String("date", "", "Billing day to store the costs under (YYYY-MM-DD, default: today UTC)")

	trendCmd := &cobra.Command{
		Use:   "trend",
		Short: "Show the daily storage cost trend from stored runs",
		Args:  cobra.NoArgs,
		RunE:  app.runTrend,
	}
	trendCmd.Flags().Int("days", 30, "Number of days to show")
	trendCmd.Flags().String("scope", string(entity.ScopeUnique), "Cost scope: unique or total")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored per-project costs of one day",
		Args:  cobra.NoArgs,
		RunE:  app.runShow,
	}
	showCmd.Flags().String("date", "", "Day to show (YYYY-MM-DD, default: today UTC)")

	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the billing job on a cron schedule until interrupted",
		Args:  cobra.NoArgs,
		RunE:  app.runSchedule,
	}
	scheduleCmd.Flags().String("cron", "", `Cron expression in UTC (default: "0 2 * * *")`)

	rootCmd.AddCommand(runCmd, trendCmd, showCmd, scheduleCmd)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// SetUseCaseFactory sets how commands build the billing use case.
func (app *CLIApp) SetUseCaseFactory(factory UseCaseFactory) {
	app.newUseCase = factory
}

// parseArgs lê as flags do comando. Changed registra as flags informadas
// explicitamente, as únicas que sobrescrevem arquivo e ambiente.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	args := &types.CLIArgs{Changed: map[string]bool{}}
	flags.Visit(func(f *pflag.Flag) { args.Changed[f.Name] = true })

	args.ConfigFile, _ = flags.GetString("config-file")
	args.Database, _ = flags.GetString("db")
	args.Organization, _ = flags.GetString("org")
	args.APIServer, _ = flags.GetString("api-server")
	args.LiveRate, _ = flags.GetFloat64("live-rate")
	args.ArchivedRate, _ = flags.GetFloat64("archived-rate")
	args.Workers, _ = flags.GetInt("workers")
	args.FetchTimeout, _ = flags.GetString("fetch-timeout")
	args.ReportName, _ = flags.GetString("report-name")
	args.ReportType, _ = flags.GetStringSlice("report-type")
	args.S3Bucket, _ = flags.GetString("s3-bucket")
	args.S3Prefix, _ = flags.GetString("s3-prefix")
	args.AWSProfile, _ = flags.GetString("aws-profile")
	args.AWSRegion, _ = flags.GetString("aws-region")
	args.MetricsFile, _ = flags.GetString("metrics-file")
	args.RunDate, _ = flags.GetString("date")
	args.Schedule, _ = flags.GetString("cron")
	args.TrendDays, _ = flags.GetInt("days")
	args.Scope, _ = flags.GetString("scope")

	dir, _ := flags.GetString("dir")
	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}
	args.Dir = dir

	return args, nil
}

// resolveConfig combina padrões, arquivo, ambiente e flags, nesta ordem.
func (app *CLIApp) resolveConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg, err := app.configRepo.Resolve(args.ConfigFile, app.lookupEnv)
	if err != nil {
		return nil, err
	}

	set := func(flag string, apply func()) {
		if args.Changed[flag] {
			apply()
		}
	}
	set("db", func() { cfg.Database = args.Database })
	set("org", func() { cfg.Organization = args.Organization })
	set("api-server", func() { cfg.APIServer = args.APIServer })
	set("live-rate", func() { cfg.LiveRate = args.LiveRate })
	set("archived-rate", func() { cfg.ArchivedRate = args.ArchivedRate })
	set("workers", func() { cfg.Workers = args.Workers })
	set("fetch-timeout", func() { cfg.FetchTimeout = args.FetchTimeout })
	set("report-name", func() { cfg.ReportName = args.ReportName })
	set("report-type", func() { cfg.ReportType = args.ReportType })
	set("dir", func() { cfg.Dir = args.Dir })
	set("s3-bucket", func() { cfg.S3Bucket = args.S3Bucket })
	set("s3-prefix", func() { cfg.S3Prefix = args.S3Prefix })
	set("aws-profile", func() { cfg.AWSProfile = args.AWSProfile })
	set("aws-region", func() { cfg.AWSRegion = args.AWSRegion })
	set("metrics-file", func() { cfg.MetricsFile = args.MetricsFile })
	set("cron", func() { cfg.Schedule = args.Schedule })

	if args.RunDate != "" {
		day, err := parseDay(args.RunDate)
		if err != nil {
			return nil, err
		}
		cfg.RunDate = day
	}

	return cfg, nil
}

func parseDay(s string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return day, nil
}

// session é o que cada comando recebe depois de resolver a configuração.
type session struct {
	args    *types.CLIArgs
	cfg     *types.Config
	useCase *usecase.BillingUseCase
	close   func() error
}

// prepare resolve a configuração e constrói o caso de uso.
func (app *CLIApp) prepare(cmd *cobra.Command, needsPlatform bool) (*session, error) {
	if !app.quiet {
		displayWelcomeBanner(app.version)
		go version.CheckLatestVersion(cmd.Context(), app.version)
	}

	args, err := parseArgs(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := app.resolveConfig(args)
	if err != nil {
		return nil, err
	}
	if needsPlatform && cfg.APIToken == "" {
		return nil, types.ErrMissingToken
	}
	if app.newUseCase == nil {
		return nil, fmt.Errorf("no use case factory configured")
	}

	uc, closeFn, err := app.newUseCase(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	return &session{args: args, cfg: cfg, useCase: uc, close: closeFn}, nil
}

func (app *CLIApp) release(s *session) {
	if s.close == nil {
		return
	}
	if err := s.close(); err != nil {
		app.console.LogWarning("Failed to release resources: %s", err)
	}
}

func (app *CLIApp) runBilling(cmd *cobra.Command, _ []string) error {
	s, err := app.prepare(cmd, true)
	if err != nil {
		return err
	}
	defer app.release(s)

	_, err = s.useCase.RunStorageBilling(cmd.Context(), s.cfg)
	return err
}

func (app *CLIApp) runTrend(cmd *cobra.Command, _ []string) error {
	s, err := app.prepare(cmd, false)
	if err != nil {
		return err
	}
	defer app.release(s)

	_, err = s.useCase.RunTrendAnalysis(cmd.Context(), s.args.TrendDays, entity.Scope(s.args.Scope))
	return err
}

func (app *CLIApp) runShow(cmd *cobra.Command, _ []string) error {
	s, err := app.prepare(cmd, false)
	if err != nil {
		return err
	}
	defer app.release(s)

	day := s.cfg.RunDate
	if day.IsZero() {
		day = time.Now().UTC()
	}
	_, err = s.useCase.ShowStoredCosts(cmd.Context(), day)
	return err
}

func (app *CLIApp) runSchedule(cmd *cobra.Command, _ []string) error {
	s, err := app.prepare(cmd, true)
	if err != nil {
		return err
	}
	defer app.release(s)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return s.useCase.RunScheduled(ctx, s.cfg.Schedule, s.cfg)
}
