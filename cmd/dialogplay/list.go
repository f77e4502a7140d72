package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dialog sequences",
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := projectFromFlags(cmd)
		if err != nil {
			return err
		}
		showLevels, _ := cmd.Flags().GetBool("levels")

		out := cmd.OutOrStdout()
		listSequences(out, proj)
		if showLevels {
			fmt.Fprintln(out)
			listLevels(out, proj)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().Bool("levels", false, "Also list levels and their triggers")
	rootCmd.AddCommand(listCmd)
}

func listSequences(out io.Writer, proj *project) {
	for _, id := range proj.library.IDs() {
		seq, _ := proj.library.Get(id)

		var flags []string
		if seq.Loop {
			flags = append(flags, "loop")
		}
		if !seq.PauseGame {
			flags = append(flags, "no-pause")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ",") + "]"
		}
		fmt.Fprintf(out, "%-20s %3d lines  %s%s\n", id, seq.Len(), proj.library.Source(id), suffix)
	}
}

func listLevels(out io.Writer, proj *project) {
	for i, level := range proj.levels {
		fmt.Fprintf(out, "%s (%s) %s\n", level.ID, level.Name, proj.levelFiles[i])
		if level.AutoStartDialog != "" {
			fmt.Fprintf(out, "  autostart -> %s\n", level.AutoStartDialog)
		}
		for _, tr := range level.Triggers {
			fmt.Fprintf(out, "  %-12s %-8s -> %s\n", tr.ID, tr.TriggerMode(), tr.Sequence)
		}
	}
}
