/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/cardazim/cardazim/pkg/card"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send <host> <port> <name> <creator> <image_path> <riddle> <solution>",
	Short: "Create a card and send it to a collector",
	Long: `Create a card from an image, encrypt the image with the solution and
send the card to a collector in a single message.

Examples:
  cardazim send 127.0.0.1 8000 cardoz lidor ./smile.png "coming here a lot?" "yes!"
  cardazim send 127.0.0.1 8000 cardoz lidor ./smile.png "coming here a lot?" "yes!" --save cardoz.card`,
	Args: cobra.ExactArgs(7),
	RunE: func(cmd *cobra.Command, args []string) error {
		port, err := parsePort(args[1])
		if err != nil {
			return err
		}
		timeout, _ := cmd.Flags().GetDuration("timeout")
		savePath, _ := cmd.Flags().GetString("save")

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		return sendCard(ctx, cmd.OutOrStdout(), sendOptions{
			host:      args[0],
			port:      port,
			name:      args[2],
			creator:   args[3],
			imagePath: args[4],
			riddle:    args[5],
			solution:  args[6],
			savePath:  savePath,
		})
	},
}

type sendOptions struct {
	host      string
	port      int
	name      string
	creator   string
	imagePath string
	riddle    string
	solution  string
	savePath  string
}

func sendCard(ctx context.Context, out io.Writer, opts sendOptions) error {
	if container == nil {
		return errors.New("dependency container not initialized")
	}

	c, err := card.CreateFromPath(opts.name, opts.creator, opts.imagePath, opts.riddle, opts.solution)
	if err != nil {
		return err
	}
	c.Image.Encrypt(opts.solution)

	data, err := c.Serialize()
	if err != nil {
		return err
	}

	if opts.savePath != "" {
		if err := os.WriteFile(opts.savePath, data, 0600); err != nil {
			return fmt.Errorf("failed to save card: %w", err)
		}
	}

	conn, err := container.Dial(ctx, opts.host, opts.port)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SendMessage(data); err != nil {
		return err
	}

	logger.WithField("bytes", len(data)).WithField("remote", conn.RemoteAddr().String()).Debug("card sent")
	fmt.Fprintln(out, "Done.")
	return nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	return port, nil
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().Duration("timeout", 10*time.Second, "Timeout for connecting and sending")
	sendCmd.Flags().String("save", "", "Also write the serialized card to this file")
}
