package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vampirepapi/link2notion/internal/app"
	"github.com/vampirepapi/link2notion/internal/exporter"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/notion"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/formatter"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	envFile    string
	verbose    bool
	headless   bool
	noHeadless bool
}

func (f *rootFlags) configOpts() config.Opts {
	opts := config.Opts{
		EnvFile: f.envFile,
		Verbose: f.verbose,
	}
	if f.headless {
		v := true
		opts.Headless = &v
	}
	if f.noHeadless {
		v := false
		opts.Headless = &v
	}
	return opts
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:          "link2notion",
		Short:        "Migrate LinkedIn saved posts into a Notion database",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.envFile, "env-file", "", "path to an env file loaded before reading configuration")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&flags.headless, "headless", false, "force the browser to run headless")
	pf.BoolVar(&flags.noHeadless, "no-headless", false, "run the browser with a visible window")

	root.AddCommand(newServeCmd(flags), newExportCmd(flags))
	return root
}

func buildApp(flags *rootFlags, opts ...fx.Option) *fx.App {
	base := []fx.Option{
		fx.Logger(logger.New(logger.Opts{Verbose: flags.verbose})),
		fx.Provide(func() (*config.Config, error) {
			return config.New(flags.configOpts())
		}),
		app.Module,
	}
	return fx.New(append(base, opts...)...)
}

func runMigrate(ctx context.Context, flags *rootFlags) error {
	var (
		m   migrator.Client
		log logger.Logger
	)

	fxApp := buildApp(flags, fx.Populate(&m, &log))
	if err := fxApp.Start(ctx); err != nil {
		return err
	}

	summary, err := m.Migrate(ctx)
	if err != nil {
		log.Error("Migration failed", "error", err)
		_ = fxApp.Stop(ctx)
		return err
	}

	log.Info("Migration summary",
		"scraped", formatter.FormatNumber(summary.Scraped),
		"created", formatter.FormatNumber(summary.Created),
		"skipped", formatter.FormatNumber(summary.Skipped),
	)
	return fxApp.Stop(ctx)
}

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard and scheduled migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fxApp := buildApp(flags, fx.Invoke(app.RegisterServer))
			if err := fxApp.Start(cmd.Context()); err != nil {
				return err
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			<-sigChan

			return fxApp.Stop(context.Background())
		},
	}
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var (
		out    string
		single bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export posts from the Notion database as markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				n   notion.Client
				cfg *config.Config
				log logger.Logger
			)

			fxApp := buildApp(flags, fx.Populate(&n, &cfg, &log))
			ctx := cmd.Context()
			if err := fxApp.Start(ctx); err != nil {
				return err
			}

			posts, err := n.ListPosts(ctx)
			if err != nil {
				log.Error("Failed to list posts from Notion", "error", err)
				_ = fxApp.Stop(ctx)
				return err
			}

			var path string
			if single {
				path, err = exporter.ExportSingle(posts, out)
			} else {
				dir := out
				if dir == "" {
					dir = cfg.Export.Dir
				}
				path, err = exporter.ExportPosts(posts, dir)
			}
			if err != nil {
				log.Error("Failed to export posts", "error", err)
				_ = fxApp.Stop(ctx)
				return err
			}

			log.Info("Exported posts",
				"count", formatter.FormatNumber(len(posts)),
				"path", path,
			)
			return fxApp.Stop(ctx)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output directory, or output file with --single")
	cmd.Flags().BoolVar(&single, "single", false, "write one combined markdown file")
	return cmd
}
