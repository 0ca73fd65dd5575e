package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"country-linker/internal/config"
)

const defaultConfigFile = "country-linker.yaml"

func configCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the configuration file",
	}

	c.AddCommand(configInitCmd(), configShowCmd(a))

	return c
}

func configInitCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init [PATH]",
		Short: "Write a configuration file with every default spelled out",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return usageError(fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}

			if err := config.WriteFile(config.Default(), path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)

			return nil
		},
	}

	c.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return c
}

func configShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration after file and environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}
}
