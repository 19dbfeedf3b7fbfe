package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// GlobalOptions hold the options used by all commands.
type GlobalOptions struct {
	Verbose bool
}

var globalOptions GlobalOptions

// cmdRoot is the base command when no other command has been specified.
var cmdRoot = &cobra.Command{
	Use:   "lzss",
	Short: "Evaluate the LZSS match finders of the LHA methods",
	Long: `
lzss encodes files with the LZSS stage of the LHA compression methods and
reports the number of literals and matches produced by the different match
finders. The entropy coding stage of LHA is only estimated.
`,
	Version:           version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	DisableAutoGenTag: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if globalOptions.Verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(0)
	},
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.BoolVarP(&globalOptions.Verbose, "verbose", "v", false, "log debug messages")
}

func main() {
	if err := cmdRoot.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
