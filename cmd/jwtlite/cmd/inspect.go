package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybergodev/jwtlite"
)

func newInspectCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [token]",
		Short: "Decode a token without verifying it",
		Long: `Decode and print the header and payload of a token.

The signature and expiry are NOT checked and no secret is needed. Never trust
the printed values; use verify for that.`,
		Args: cobra.MaximumNArgs(1),
		RunE: root.withTeardown(func(cmd *cobra.Command, args []string) error {
			token, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tok, err := jwtlite.ParseUnverified(token)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.ErrOrStderr(), "WARNING: signature not verified")
			if tok.Header.Expires() {
				expiresAt := tok.Header.ExpiresAt().UTC()
				state := "valid"
				if expiresAt.Before(time.Now()) {
					state = "expired"
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "expires: %s (%s)\n", expiresAt.Format(time.RFC3339), state)
			} else {
				fmt.Fprintln(cmd.ErrOrStderr(), "expires: never")
			}

			root.logger.Debug("token inspected", zap.String("alg", string(tok.Header.Alg)))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), tok.String())
			return err
		}),
	}
}
