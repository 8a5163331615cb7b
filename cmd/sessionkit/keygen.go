package main

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// minSecretBytes matches the minimum SESSION_SECRET length.
const minSecretBytes = 32

var errShortSecret = fmt.Errorf("secret must be at least %d bytes", minSecretBytes)

func newKeygenCmd() *cobra.Command {
	var (
		size  int
		count int
	)

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate random session secrets",
		Long: `keygen prints random secrets suitable for SESSION_SECRET and
SESSION_PREVIOUS_SECRETS, one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < minSecretBytes {
				return errShortSecret
			}
			if count < 1 {
				return errors.New("count must be positive")
			}

			buf := make([]byte, size)
			for range count {
				if _, err := rand.Read(buf); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), base64.RawURLEncoding.EncodeToString(buf))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&size, "bytes", "b", minSecretBytes, "random bytes per secret")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of secrets")
	return cmd
}
