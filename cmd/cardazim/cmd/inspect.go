/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/card"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <card-file>",
	Short: "Decode a serialized card file",
	Long: `Decode a card saved with 'send --save' (or any raw card payload) and
print it. --solution tries to decrypt the image and --out saves it.

Example:
  cardazim inspect cardoz.card --solution "yes!" --out cardoz.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		solution, _ := cmd.Flags().GetString("solution")
		outPath, _ := cmd.Flags().GetString("out")
		return inspectCard(cmd.OutOrStdout(), args[0], solution, outPath)
	},
}

func inspectCard(out io.Writer, path, solution, imagePath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read card file: %w", err)
	}

	c, err := card.Deserialize(data)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%d bytes, %dx%d image, fingerprint %s\n",
		len(data), c.Image.Image.Width, c.Image.Image.Height, c.Image.Fingerprint)

	if solution != "" && !c.Solve(solution) {
		return fmt.Errorf("%w for %s", errWrongSolution, path)
	}

	fmt.Fprintln(out, c)
	return saveImage(out, c, imagePath)
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().String("solution", "", "Solution to decrypt the image with")
	inspectCmd.Flags().String("out", "", "Save the image to this file (.png or .jpg)")
}
