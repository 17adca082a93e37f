// Command groupmove-sim runs headless group-movement scenarios and prints
// a run report: groups are recruited from scattered agents, given shared
// destinations, and ticked to completion.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "groupmove-sim",
		Short:         "Headless group movement simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
