package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the slpack release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/slcmake"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the slpack version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "slpack v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
