// SPDX-License-Identifier: MIT
package cmd

import (
	"github.com/spf13/cobra"

	"dawengine/internal/config"
	"dawengine/pkg/build"
)

// Options bundles the parsed CLI command and the config flags a
// command needs, so main can dispatch on Command without re-parsing
// os.Args itself.
type Options struct {
	Config *config.Config

	Command     string // "run", "list", "graph"
	ConfigPath  string
	ProjectPath string // project JSON file, required by "graph"
	DotOutPath  string // destination for "graph"'s DOT output; "-" means stdout
}

// ParseArgs builds the root Cobra command and its subcommands, parses
// os.Args, and returns the resolved Options. Commands that only need
// to print and exit (list, graph) don't load a YAML config file; "run"
// loads and validates one via config.LoadConfig.
func ParseArgs(args []string) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	opts := &Options{Command: "run"}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         buildInfo.Description,
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = "run"
			cfg, err := config.LoadConfig(opts.ConfigPath)
			if err != nil {
				return err
			}
			opts.Config = cfg
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
	rootCmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "",
		"Path to YAML config file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio output devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = "list"
			return nil
		},
	}
	rootCmd.AddCommand(listCmd)

	graphCmd := &cobra.Command{
		Use:   "graph <project.json>",
		Short: "Render a project's routing graph as Graphviz DOT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Command = "graph"
			opts.ProjectPath = args[0]
			return nil
		},
	}
	graphCmd.Flags().StringVarP(&opts.DotOutPath, "out", "o", "-",
		"Destination for the rendered DOT file (\"-\" for stdout)")
	rootCmd.AddCommand(graphCmd)

	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return opts, nil
}
