package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/pgdash/internal/config"
	"github.com/rileyhilliard/pgdash/internal/credentials"
	"github.com/rileyhilliard/pgdash/internal/errors"
)

// ProfileAddOptions holds flags for the profile add command.
type ProfileAddOptions struct {
	Host     string
	Port     int
	User     string
	Database string
	SSLMode  string
	Default  bool
}

var profileAddOpts ProfileAddOptions

// profileCmd groups the profile management subcommands.
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage connection profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a connection profile",
	Long: `Add a named connection profile to the configuration.

The password is never stored; set PGDASH_SECRET_<NAME> in the
environment instead.

Examples:
  pgdash profile add local --host localhost
  pgdash profile add prod --host db.example.com --user monitor --database appdb --default`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileAdd(args[0], profileAddOpts)
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileList()
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a connection profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return profileRemove(args[0])
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd, profileListCmd, profileRemoveCmd)

	profileAddCmd.Flags().StringVar(&profileAddOpts.Host, "host", "", "server hostname or address (required)")
	profileAddCmd.Flags().IntVar(&profileAddOpts.Port, "port", 5432, "server port")
	profileAddCmd.Flags().StringVar(&profileAddOpts.User, "user", "", "login role")
	profileAddCmd.Flags().StringVar(&profileAddOpts.Database, "database", "", "default database")
	profileAddCmd.Flags().StringVar(&profileAddOpts.SSLMode, "sslmode", "", "sslmode (disable, prefer, require, verify-ca, verify-full)")
	profileAddCmd.Flags().BoolVar(&profileAddOpts.Default, "default", false, "make this the default profile")
	_ = profileAddCmd.MarkFlagRequired("host")
}

// profileAdd validates and stores a new profile.
func profileAdd(name string, opts ProfileAddOptions) error {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	if _, exists := cfg.Profiles[name]; exists {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' already exists", name),
			"Choose a different name, or remove it first with 'pgdash profile remove'.")
	}

	cfg.Profiles[name] = config.Profile{
		Host:     opts.Host,
		Port:     opts.Port,
		User:     opts.User,
		Database: opts.Database,
		SSLMode:  opts.SSLMode,
	}

	// The first profile becomes the default automatically.
	if opts.Default || cfg.Default == "" {
		cfg.Default = name
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if path == "" {
		path, err = config.DefaultSavePath()
		if err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Added profile '%s' (%s)\n", name, path)
	if opts.User != "" {
		fmt.Printf("Set %s to provide its password.\n", credentials.EnvVar(name))
	}
	return nil
}

// profileList prints the configured profiles, default first.
func profileList() error {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	if len(cfg.Profiles) == 0 {
		fmt.Println("No profiles configured. Add one with 'pgdash profile add <name> --host <host>'.")
		return nil
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Profiles in %s:\n", path)
	for _, name := range names {
		p := cfg.Profiles[name]
		marker := " "
		if name == cfg.Default {
			marker = "*"
		}
		target := p.Host
		if p.Port != 0 && p.Port != 5432 {
			target = fmt.Sprintf("%s:%d", p.Host, p.Port)
		}
		user := p.User
		if user == "" {
			user = "-"
		}
		fmt.Printf("  %s %-16s %-28s user=%-12s db=%s\n", marker, name, target, user, p.DSNDatabase())
	}
	return nil
}

// profileRemove deletes a profile and clears a dangling default.
func profileRemove(name string) error {
	cfg, path, err := config.LoadOrDefault(configFlag)
	if err != nil {
		return err
	}

	if _, exists := cfg.Profiles[name]; !exists {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Profile '%s' not found", name),
			"Run 'pgdash profile list' to see what's configured.")
	}

	delete(cfg.Profiles, name)
	if cfg.Default == name {
		cfg.Default = ""
	}

	if path == "" {
		path, err = config.DefaultSavePath()
		if err != nil {
			return err
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Printf("Removed profile '%s'\n", name)
	return nil
}
