package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Name                  string   `yaml:"name"`
	Version               string   `yaml:"version"`
	Exports               []string `yaml:"exports"`
	Requirements          []string `yaml:"requirements"`
	IncludeDir            string   `yaml:"include_dir"`
	DeclareRequirements   bool     `yaml:"declare_requirements"`
	ContributeIncludePath bool     `yaml:"contribute_include_path"`
	DataDir               string   `yaml:"data_dir,omitempty"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config.yaml",
		Long:  "Create the configuration directory and a config.yaml describing the sl_cmake bundle.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return systemError(fmt.Errorf("create config directory: %w", err))
			}

			path := filepath.Join(a.configDir, configFileExt)
			created, err := writeConfigIfMissing(path, a.flags.dataDir)
			if err != nil {
				return systemError(fmt.Errorf("write config: %w", err))
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Config already exists at %s\n", path)
			}
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml with the published bundle's
// values if the file does not exist. It reports whether it wrote the file.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	d := types.DefaultDescriptor(types.Options{DeclareRequirements: true})
	cfg := configFile{
		Name:                d.Name,
		Version:             d.Version,
		Exports:             d.Exports,
		IncludeDir:          d.IncludeDir,
		DeclareRequirements: d.Options.DeclareRequirements,
		DataDir:             dataDir,
	}
	for _, r := range d.Requirements {
		cfg.Requirements = append(cfg.Requirements, r.String())
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	return true, os.WriteFile(path, data, 0o644)
}
