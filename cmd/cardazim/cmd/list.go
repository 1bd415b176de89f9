/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List received cards",
	Long: `List every card in the data directory, oldest first.

Example:
  cardazim list --data-dir ./data`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listCards(cmd.OutOrStdout())
	},
}

func listCards(out io.Writer) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	cards, err := store.List()
	if err != nil {
		return err
	}

	if len(cards) == 0 {
		fmt.Fprintln(out, "No cards received yet.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCREATOR\tSOLVED\tRECEIVED")
	for _, stored := range cards {
		c, err := stored.Card()
		if err != nil {
			logger.WithError(err).WithField("id", stored.ID.String()).Warn("skipping unreadable card")
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n",
			stored.ID, c.Name, c.Creator, c.IsSolved(), stored.ReceivedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(listCmd)
}
