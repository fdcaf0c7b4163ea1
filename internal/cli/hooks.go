package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slcmake/internal/consumer"
	"github.com/mesh-intelligence/slcmake/internal/paths"
	"github.com/mesh-intelligence/slcmake/internal/recipe"
	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// newRecipe builds a recipe from the loaded configuration.
func (a *app) newRecipe() (*recipe.Recipe, error) {
	d, err := descriptorFromConfig(a.v)
	if err != nil {
		return nil, userError(err)
	}
	r, err := recipe.New(d, recipe.WithLogger(a.logger))
	if err != nil {
		return nil, userError(err)
	}
	return r, nil
}

func newRequirementsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "requirements",
		Short: "Print the declared upstream requirements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRecipe()
			if err != nil {
				return err
			}
			reqs := r.Requirements()
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), reqs)
			}
			for _, req := range reqs {
				fmt.Fprintln(cmd.OutOrStdout(), req.String())
			}
			return nil
		},
	}
}

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Run the build hook (nothing to compile)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRecipe()
			if err != nil {
				return err
			}
			if err := r.Build(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Nothing to build for %s\n", r.Descriptor().Reference())
			return nil
		},
	}
}

func newPackageCmd(a *app) *cobra.Command {
	var (
		source  string
		dest    string
		noIndex bool
	)
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Copy the exported files into a package directory",
		Long: "Copy every exported file from the source directory into the package\n" +
			"directory. Either all files are copied or the destination is left unchanged.\n" +
			"The run is recorded in the package index unless --no-index is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRecipe()
			if err != nil {
				return err
			}
			desc := r.Descriptor()

			dataDir, err := a.resolveDataDir()
			if err != nil {
				return systemError(fmt.Errorf("resolve data dir: %w", err))
			}
			if dest == "" {
				dest = paths.PackageDir(dataDir, desc.Name, desc.Version)
			}
			absSource, err := filepath.Abs(source)
			if err != nil {
				return userError(err)
			}
			absDest, err := filepath.Abs(dest)
			if err != nil {
				return userError(err)
			}

			files, pkgErr := r.Package(absSource, absDest)

			if !noIndex {
				run := &types.Run{
					Reference:  desc.Reference(),
					State:      r.State(),
					SourceDir:  absSource,
					PackageDir: absDest,
					Files:      files,
				}
				if pkgErr != nil {
					run.Error = pkgErr.Error()
				}
				if err := a.recordRun(run); err != nil {
					if pkgErr != nil {
						a.logger.Error("record run", "err", err)
						return pkgErr
					}
					return systemError(fmt.Errorf("record run: %w", err))
				}
				a.logger.Debug("run recorded", "run", run.RunID)
			}
			if pkgErr != nil {
				return pkgErr
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, files)
			}
			fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("Packaged %s -> %s", desc.Reference(), absDest)))
			printFiles(out, files)
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", ".", "directory containing the export files")
	cmd.Flags().StringVar(&dest, "dest", "", "package directory (default: <data-dir>/packages/<name>/<version>)")
	cmd.Flags().BoolVar(&noIndex, "no-index", false, "do not record the run in the package index")
	return cmd
}

func (a *app) recordRun(run *types.Run) error {
	x, err := a.openIndex()
	if err != nil {
		return err
	}
	defer x.Close()
	_, err = x.Record(run)
	return err
}

func newInfoCmd(a *app) *cobra.Command {
	var (
		packageDir   string
		consumerPath string
	)
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Contribute the package include path to consumer metadata",
		Long: "Apply the package_info hook. With --consumer the metadata file (YAML, TOML\n" +
			"or JSON by extension) is read, updated, and written back; repeated runs\n" +
			"do not duplicate entries.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.newRecipe()
			if err != nil {
				return err
			}
			desc := r.Descriptor()

			if packageDir == "" {
				dataDir, err := a.resolveDataDir()
				if err != nil {
					return systemError(fmt.Errorf("resolve data dir: %w", err))
				}
				packageDir = paths.PackageDir(dataDir, desc.Name, desc.Version)
			}
			absPackageDir, err := filepath.Abs(packageDir)
			if err != nil {
				return userError(err)
			}

			var meta types.ConsumerMetadata
			if consumerPath != "" {
				if meta, err = consumer.Load(consumerPath); err != nil {
					return userError(err)
				}
			}
			r.PackageInfo(&meta, absPackageDir)
			if consumerPath != "" {
				if err := consumer.Save(consumerPath, meta); err != nil {
					return systemError(err)
				}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if meta.IncludeDirs == nil {
					meta.IncludeDirs = []string{}
				}
				return printJSON(out, meta)
			}
			fmt.Fprintln(out, headingStyle.Render("Include dirs"))
			for _, dir := range meta.IncludeDirs {
				fmt.Fprintf(out, "  %s\n", dir)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&packageDir, "package-dir", "", "package directory (default: <data-dir>/packages/<name>/<version>)")
	cmd.Flags().StringVar(&consumerPath, "consumer", "", "consumer metadata file to update")
	return cmd
}
