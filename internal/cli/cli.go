package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/khoward/eventpipe/internal/calendar"
	"github.com/khoward/eventpipe/internal/config"
	"github.com/khoward/eventpipe/internal/importer"
	"github.com/khoward/eventpipe/internal/logger"
	"github.com/khoward/eventpipe/internal/publish"
	"github.com/khoward/eventpipe/internal/source"
	"github.com/khoward/eventpipe/internal/storage"
	"github.com/khoward/eventpipe/internal/venue"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNewEvents = 2
)

var (
	flagConfig  string
	flagFormat  string
	flagICSPath string
	flagDryRun  bool
	flagVerbose bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eventpipe",
		Short: "Import event listings from configured sources",
		Long: `Imports event listings from configured sources (scraped pages,
iCalendar feeds, JSON APIs), normalizes them into a common schema,
deduplicates against previously published events, and publishes the
survivors with venue metadata attached.`,
		RunE: runImport,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML source configuration (required)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagICSPath, "ics", "", "Write accepted events to this iCalendar file")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Fetch and report without persisting anything")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.MarkFlagRequired("config")

	return cmd
}

// runImport is the main command logic.
func runImport(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	opts := importer.Options{Registry: source.DefaultRegistry()}

	if !flagDryRun {
		db, err := storage.Open(cfg.Database)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}

		published := publish.NewStore(db)
		identifiers, err := published.Identifiers()
		if err != nil {
			return fmt.Errorf("loading published identifiers: %w", err)
		}

		opts.Venues = venue.NewStore(db)
		opts.Publisher = published
		opts.Published = identifiers
	}

	imp := importer.New(opts)
	result, err := imp.Run(cmd.Context(), cfg.Sources)
	if err != nil {
		return fmt.Errorf("running import: %w", err)
	}

	if flagICSPath != "" && len(result.Accepted) > 0 {
		ics := calendar.GenerateICS(result.Accepted)
		if err := os.WriteFile(flagICSPath, []byte(ics), 0644); err != nil {
			return fmt.Errorf("writing calendar file: %w", err)
		}
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(result.Accepted) > 0 {
		os.Exit(ExitNewEvents)
	}
	os.Exit(ExitSuccess)
	return nil
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
