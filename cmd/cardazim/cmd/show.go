/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/card"
	"github.com/cardazim/cardazim/pkg/cryptimage"
	"github.com/cardazim/cardazim/pkg/storage"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a received card",
	Long: `Print one stored card. With --out the image is saved as well; it is
decrypted only if the card has been solved.

Example:
  cardazim show 2z1Y0Z0bX5n7d8t0tq1C3cZ0v7A --out card.png`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("out")
		return showCard(cmd.OutOrStdout(), args[0], outPath)
	},
}

func showCard(out io.Writer, rawID, imagePath string) error {
	id, err := storage.ParseID(rawID)
	if err != nil {
		return err
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stored, err := store.Get(id)
	if err != nil {
		return err
	}

	c, err := stored.Card()
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "ID: %s\nReceived: %s from %s\n", stored.ID, stored.ReceivedAt.Local().Format(time.DateTime), stored.RemoteAddr)
	fmt.Fprintln(out, c)
	return saveImage(out, c, imagePath)
}

// saveImage writes the card image to path when path is set
func saveImage(out io.Writer, c *card.Card, path string) error {
	if path == "" {
		return nil
	}
	if err := cryptimage.SaveRawImage(path, &c.Image.Image); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	fmt.Fprintf(out, "Image saved to %s\n", path)
	return nil
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().String("out", "", "Save the card image to this file (.png or .jpg)")
}
