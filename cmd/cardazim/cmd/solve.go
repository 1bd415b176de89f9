/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/storage"
)

// errWrongSolution is returned when a proposed solution does not open a card
var errWrongSolution = errors.New("wrong solution")

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <id> <solution>",
	Short: "Solve a received card",
	Long: `Try a solution against a stored card. A correct solution is recorded
in the store and the image can be saved with --out.

Example:
  cardazim solve 2z1Y0Z0bX5n7d8t0tq1C3cZ0v7A "yes!" --out solved.png`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		return solveCard(cmd.OutOrStdout(), args[0], args[1], outPath)
	},
}

func solveCard(out io.Writer, rawID, solution, imagePath string) error {
	id, err := storage.ParseID(rawID)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	c, solved, err := store.Solve(id, solution)
	if err != nil {
		return err
	}
	if !solved {
		return fmt.Errorf("%w for card %s", errWrongSolution, id)
	}

	logger.WithField("id", id.String()).WithField("card", c.Name).Info("card solved")
	fmt.Fprintln(out, c)
	return saveImage(out, c, imagePath)
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().String("out", "", "Save the decrypted image to this file (.png or .jpg)")
}
