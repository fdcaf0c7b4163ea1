package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/slcmake/internal/sqlite"
	"github.com/mesh-intelligence/slcmake/pkg/types"
)

// openIndex opens the package index in the resolved data directory.
func (a *app) openIndex() (*sqlite.Index, error) {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return nil, systemError(fmt.Errorf("resolve data dir: %w", err))
	}
	x := sqlite.NewIndex()
	if err := x.Open(dataDir); err != nil {
		return nil, systemError(fmt.Errorf("open index: %w", err))
	}
	return x, nil
}

func newListCmd(a *app) *cobra.Command {
	var reference string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List packaging runs recorded in the package index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.openIndex()
			if err != nil {
				return err
			}
			defer x.Close()

			runs, err := x.List(reference)
			if err != nil {
				return systemError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if runs == nil {
					runs = []types.Run{}
				}
				return printJSON(out, runs)
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No packaging runs recorded")
				return nil
			}
			fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("%-36s  %-20s  %-8s  %s", "RUN", "REFERENCE", "STATE", "CREATED")))
			for _, run := range runs {
				fmt.Fprintf(out, "%-36s  %-20s  %-8s  %s\n",
					run.RunID, run.Reference, renderState(run.State), run.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&reference, "reference", "", "only list runs for this name/version")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded packaging run and its files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.openIndex()
			if err != nil {
				return err
			}
			defer x.Close()

			run, err := x.Get(args[0])
			if errors.Is(err, types.ErrNotFound) {
				return userError(fmt.Errorf("%w: %s", err, args[0]))
			}
			if err != nil {
				return systemError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return printJSON(out, run)
			}
			fmt.Fprintln(out, headingStyle.Render(fmt.Sprintf("%s  %s", run.RunID, run.Reference)))
			fmt.Fprintf(out, "  state:    %s\n", renderState(run.State))
			fmt.Fprintf(out, "  created:  %s\n", run.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintf(out, "  source:   %s\n", run.SourceDir)
			fmt.Fprintf(out, "  package:  %s\n", run.PackageDir)
			if run.Error != "" {
				fmt.Fprintf(out, "  error:    %s\n", run.Error)
			}
			printFiles(out, run.Files)
			return nil
		},
	}
}
