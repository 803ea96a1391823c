package main

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the nutrition-engine version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nutrition-engine %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
			return
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" || s.Key == "vcs.time" || s.Key == "vcs.modified" {
					fmt.Printf("  %s: %s\n", s.Key, s.Value)
				}
			}
			for _, dep := range info.Deps {
				fmt.Printf("  dep %s %s\n", dep.Path, dep.Version)
			}
		}
	},
}

func init() {
	versionCmd.Flags().BoolP("verbose", "v", false, "also print VCS details and dependency versions")

	rootCmd.AddCommand(versionCmd)
}
