package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cybergodev/jwtlite"
	"github.com/cybergodev/jwtlite/internal/security"
)

type verifyOptions struct {
	maxAge           time.Duration
	ignoreExpiration bool
	complete         bool
}

func newVerifyCommand(root *rootOptions) *cobra.Command {
	opts := &verifyOptions{}

	cmd := &cobra.Command{
		Use:   "verify [token]",
		Short: "Verify a token and print its payload",
		Long: `Verify the signature and expiry of a token and print the payload as JSON.

The token is read from the argument, or from stdin when the argument is
omitted or "-". A failed verification exits non-zero and prints the error
as {"name": ..., "message": ...} on stderr.`,
		Args: cobra.MaximumNArgs(1),
		RunE: root.withTeardown(func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args, root, opts)
		}),
	}

	cmd.Flags().DurationVar(&opts.maxAge, "max-age", 0, "Grace period added to the token expiry")
	cmd.Flags().BoolVar(&opts.ignoreExpiration, "ignore-expiration", false, "Accept expired tokens")
	cmd.Flags().BoolVar(&opts.complete, "complete", false, "Print header and payload")

	return cmd
}

func runVerify(cmd *cobra.Command, args []string, root *rootOptions, opts *verifyOptions) error {
	token, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	secret, err := root.loadSecret()
	if err != nil {
		return err
	}
	defer security.ZeroBytes(secret)

	codec, err := root.codec(nil)
	if err != nil {
		return err
	}

	var payload json.RawMessage
	header, err := codec.VerifyInto(token, secret, &payload, jwtlite.VerifyOptions{
		MaxAge:           opts.maxAge,
		IgnoreExpiration: opts.ignoreExpiration,
	})
	if err != nil {
		return err
	}

	var out any = payload
	if opts.complete {
		out = jwtlite.Token{Header: header, Payload: payload}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format payload: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
