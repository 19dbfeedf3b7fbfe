package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/orangesignal/lzss"
	"github.com/spf13/cobra"
)

var cmdMethods = &cobra.Command{
	Use:   "methods",
	Short: "List the supported compression methods",
	Long: `
The "methods" command prints the dictionary size, the maximum match length and
the minimum match length of every supported LHA method.
`,
	DisableAutoGenTag: true,
	Args:              cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMethods(os.Stdout)
	},
}

func init() {
	cmdRoot.AddCommand(cmdMethods)
}

func runMethods(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "method\tdictionary\tmax match\tthreshold\t")
	for _, m := range lzss.Methods() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t\n",
			m.ID, m.DictionarySize, m.MaxMatch, m.Threshold)
	}
	return tw.Flush()
}
