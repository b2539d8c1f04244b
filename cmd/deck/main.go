// deck - planet menu and portfolio scenes on a navigable scene stack.
//
// Console (ESC):
//
//	cmd back | forward | last | goto N   - move the cursor
//	cmd push NAME | pop | clear          - edit the stack
//	cmd intro | skip | reset             - replay or finish the intro, recentre the camera
//	cmd scenes | help
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scene-deck/internal/config"
)

var (
	configPath string
	assetsDir  string
	windowed   bool
	width      int
	height     int
	fps        int
)

func main() {
	cmd := &cobra.Command{
		Use:   "deck",
		Short: "Planet menu and portfolio scenes on a scene stack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return a.run()
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (.yaml or .toml); default $DECK_CONFIG or "+config.DefaultPath)
	pf.StringVar(&assetsDir, "assets", "", "asset root directory; default $DECK_ASSETS or the config value")
	cmd.Flags().BoolVar(&windowed, "windowed", false, "run in a window instead of fullscreen")
	cmd.Flags().IntVar(&width, "width", 0, "window width")
	cmd.Flags().IntVar(&height, "height", 0, "window height")
	cmd.Flags().IntVar(&fps, "fps", 0, "target frames per second")

	cmd.AddCommand(checkCmd(), configCmd())

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// checkCmd loads every scene without a window and reports what was found.
func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load every scene headless and report missing assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			return a.check(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
