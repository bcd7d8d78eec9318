package cli

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pgdash/internal/config"
	"github.com/rileyhilliard/pgdash/internal/credentials"
	"github.com/rileyhilliard/pgdash/internal/dashboard"
	"github.com/rileyhilliard/pgdash/internal/db"
	"github.com/rileyhilliard/pgdash/internal/errors"
	"github.com/rileyhilliard/pgdash/internal/logger"
	"github.com/rileyhilliard/pgdash/internal/stats"
)

var (
	dashDatabaseFlag string
	dashIntervalFlag string
)

// dashCmd starts the TUI dashboard.
var dashCmd = &cobra.Command{
	Use:   "dash [profile]",
	Short: "Start the live dashboard",
	Long: `Start the live dashboard against a configured profile.

With no argument the config's default profile is used. The monitored
database defaults to the profile's configured database.

Examples:
  pgdash dash
  pgdash dash prod
  pgdash dash prod --database appdb --interval 5s`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profileName := ""
		if len(args) > 0 {
			profileName = args[0]
		}
		return dashCommand(profileName, dashDatabaseFlag, dashIntervalFlag)
	},
}

func init() {
	rootCmd.AddCommand(dashCmd)
	dashCmd.Flags().StringVar(&dashDatabaseFlag, "database", "", "database to monitor (default: the profile's database)")
	dashCmd.Flags().StringVar(&dashIntervalFlag, "interval", "", "auto-refresh interval (1s, 2s, 5s, 10s, or off)")
}

// dashCommand resolves the profile, builds the collection pipeline, and
// runs the TUI until the user quits.
func dashCommand(profileName, database, intervalFlag string) error {
	cfg, _, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	name, profile, err := resolveProfile(cfg, profileName)
	if err != nil {
		return err
	}

	if database == "" {
		database = profile.DSNDatabase()
	}

	interval, err := parseInterval(intervalFlag, cfg.Monitor.Interval)
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[pgdash]")
	creds := credentials.Chain{credentials.NewEnvSource()}
	pool := db.NewPool(creds, cfg.Monitor.ConnectTimeout, log)
	defer pool.Close()

	identity := db.Identity{
		ProfileID: name,
		Host:      profile.Host,
		Port:      profile.Port,
		User:      profile.User,
		Database:  database,
		SSLMode:   profile.SSLMode,
	}

	collector := stats.NewCollector(cfg.Monitor.TopTables, log)

	// The model emits requests on the loop's channel; the loop answers
	// through the bridge into the program. The program does not exist
	// until the model does, so the bridge is attached last.
	bridge := dashboard.NewBridge(nil)
	loop := dashboard.NewLoop(pool, collector, identity, bridge, log)
	model := dashboard.NewModel(name, database, loop.Requests(), interval, cfg.Monitor.HistorySize)
	program := tea.NewProgram(model, tea.WithAltScreen())
	bridge.Attach(program)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	_, err = program.Run()
	return err
}

// resolveProfile picks the named profile, or the config default.
func resolveProfile(cfg *config.Config, name string) (string, config.Profile, error) {
	if len(cfg.Profiles) == 0 {
		return "", config.Profile{}, errors.New(errors.ErrConfig,
			"No profiles configured",
			"Add one with 'pgdash profile add <name> --host <host>' first.")
	}

	if name == "" {
		name = cfg.Default
	}
	if name == "" {
		return "", config.Profile{}, errors.New(errors.ErrConfig,
			"No profile selected and no default set",
			"Pass a profile name, or set one as default with 'pgdash profile add --default'.")
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		return "", config.Profile{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' not found", name),
			"Run 'pgdash profile list' to see what's configured.")
	}

	return name, profile, nil
}

// parseInterval parses the --interval flag, falling back to the config
// value when the flag is empty. "off" and "0" disable auto-refresh.
func parseInterval(flag string, fallback time.Duration) (time.Duration, error) {
	if flag == "" {
		return fallback, nil
	}
	if flag == "off" || flag == "0" {
		return 0, nil
	}

	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 1s, 5s, or off.")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrConfig,
			"Interval cannot be negative",
			"Try something like 1s, 5s, or off.")
	}
	return d, nil
}
