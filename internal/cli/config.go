package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/slcmake/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "SLPACK"

	cfgKeyName                  = "name"
	cfgKeyVersion               = "version"
	cfgKeyExports               = "exports"
	cfgKeyRequirements          = "requirements"
	cfgKeyIncludeDir            = "include_dir"
	cfgKeyDeclareRequirements   = "declare_requirements"
	cfgKeyContributeIncludePath = "contribute_include_path"
	cfgKeyDataDir               = "data_dir"

	flagDeclareRequirements   = "declare-requirements"
	flagContributeIncludePath = "contribute-include-path"
)

// loadConfig reads config.yaml from configDir using Viper. A missing
// config.yaml is not an error; defaults describe the published bundle.
// The two variant switches may also come from SLPACK_* environment variables.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyName, types.DefaultName)
	v.SetDefault(cfgKeyVersion, types.DefaultVersion)
	v.SetDefault(cfgKeyIncludeDir, types.DefaultIncludeDir)
	v.SetDefault(cfgKeyDeclareRequirements, true)
	v.SetDefault(cfgKeyContributeIncludePath, false)

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range []string{cfgKeyDeclareRequirements, cfgKeyContributeIncludePath} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// bindFlags lets explicitly set variant flags override config and env.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	bindings := map[string]string{
		cfgKeyDeclareRequirements:   flagDeclareRequirements,
		cfgKeyContributeIncludePath: flagContributeIncludePath,
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// descriptorFromConfig builds and validates the Descriptor described by v.
func descriptorFromConfig(v *viper.Viper) (types.Descriptor, error) {
	d := types.DefaultDescriptor(types.Options{
		DeclareRequirements:   v.GetBool(cfgKeyDeclareRequirements),
		ContributeIncludePath: v.GetBool(cfgKeyContributeIncludePath),
	})
	d.Name = v.GetString(cfgKeyName)
	d.Version = v.GetString(cfgKeyVersion)
	d.IncludeDir = v.GetString(cfgKeyIncludeDir)

	if v.IsSet(cfgKeyExports) {
		d.Exports = v.GetStringSlice(cfgKeyExports)
	}
	if v.IsSet(cfgKeyRequirements) {
		refs := v.GetStringSlice(cfgKeyRequirements)
		d.Requirements = make([]types.Requirement, 0, len(refs))
		for _, ref := range refs {
			r, err := types.ParseRequirement(ref)
			if err != nil {
				return types.Descriptor{}, err
			}
			d.Requirements = append(d.Requirements, r)
		}
	}

	if err := d.Validate(); err != nil {
		return types.Descriptor{}, fmt.Errorf("invalid descriptor: %w", err)
	}
	return d, nil
}
