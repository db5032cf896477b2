package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybergodev/jwtlite"
	"github.com/cybergodev/jwtlite/internal/security"
)

type signOptions struct {
	alg        string
	expiresIn  time.Duration
	expireDate int64
	noExpiry   bool
}

func newSignCommand(root *rootOptions) *cobra.Command {
	opts := &signOptions{}

	cmd := &cobra.Command{
		Use:   "sign [payload-json]",
		Short: "Sign a JSON payload",
		Long: `Sign a JSON payload and print the token.

The payload is read from the argument, or from stdin when the argument is
omitted or "-". Key order of objects is kept as written.`,
		Example: `  jwtlite sign '{"userId":1}' --secret s3cret
  echo '{"userId":1}' | JWTLITE_SECRET=s3cret jwtlite sign --expires-in 15m --alg HS512`,
		Args: cobra.MaximumNArgs(1),
		RunE: root.withTeardown(func(cmd *cobra.Command, args []string) error {
			return runSign(cmd, args, root, opts)
		}),
	}

	cmd.Flags().StringVar(&opts.alg, "alg", "", "Signing algorithm: HS256, HS384 or HS512")
	cmd.Flags().DurationVar(&opts.expiresIn, "expires-in", 0, "Expire the token after this duration")
	cmd.Flags().Int64Var(&opts.expireDate, "expire-date", 0, "Absolute expiry as Unix epoch milliseconds")
	cmd.Flags().BoolVar(&opts.noExpiry, "no-expiry", false, "Never expire, overriding the configured expires_in")
	cmd.MarkFlagsMutuallyExclusive("expires-in", "expire-date", "no-expiry")

	return cmd
}

func runSign(cmd *cobra.Command, args []string, root *rootOptions, opts *signOptions) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	secret, err := root.loadSecret()
	if err != nil {
		return err
	}
	defer security.ZeroBytes(secret)

	codec, err := root.codec(func(cfg *jwtlite.Config) {
		if opts.expiresIn > 0 {
			cfg.ExpiresIn = opts.expiresIn
		}
	})
	if err != nil {
		return err
	}

	signOpts := jwtlite.SignOptions{
		Algorithm:  jwtlite.SigningMethod(opts.alg),
		ExpireDate: opts.expireDate,
	}
	if opts.noExpiry {
		signOpts.ExpireDate = jwtlite.NeverExpires
	}

	// RawMessage keeps the caller's key order; invalid JSON fails as an invalid payload
	var payload any
	if input != "" {
		payload = json.RawMessage(input)
	}

	token, err := codec.Sign(payload, secret, signOpts)
	if err != nil {
		return err
	}

	root.logger.Info("token signed", zap.Int64("expire_date", signOpts.ExpireDate))
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
