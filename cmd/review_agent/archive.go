package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage saved analyses",
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved analyses in the order they were first saved",
	Args:  cobra.NoArgs,
	RunE:  runArchiveList,
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a saved analysis as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveDelete,
}

var (
	archiveListJSON bool
	archiveShowOut  string
)

func init() {
	archiveListCmd.Flags().BoolVar(&archiveListJSON, "json", false, "Print the full entries as JSON")
	archiveShowCmd.Flags().StringVarP(&archiveShowOut, "out", "o", "", "Write the JSON to this file instead of stdout")

	archiveCmd.AddCommand(archiveListCmd, archiveShowCmd, archiveDeleteCmd)
	rootCmd.AddCommand(archiveCmd)
}

func runArchiveList(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	entries := a.session.List(cmd.Context())
	if archiveListJSON {
		return writeJSON(cmd.OutOrStdout(), "", entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved analyses.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOLABORADOR\tAÑO\tPUNTUACIÓN\tGUARDADO")
	for _, e := range entries {
		saved := ""
		if e.SavedAt != nil {
			saved = e.SavedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\n", e.ID, e.Colaborador, e.Año, e.PuntuacionGeneral, saved)
	}
	return tw.Flush()
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	result, err := a.session.View(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), archiveShowOut, result.WithoutRawText())
}

func runArchiveDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	if err := a.session.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Deleted %s\n", args[0])
	return nil
}
