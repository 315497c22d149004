package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/cachesession/core/cache"
	"github.com/dmitrymomot/cachesession/core/config"
	"github.com/dmitrymomot/cachesession/core/session"
	"github.com/dmitrymomot/cachesession/core/sessionid"
)

// tokenFlags override the identifier settings loaded from the environment.
type tokenFlags struct {
	key       string
	algorithm string
	size      int
	expiresIn time.Duration
}

func (f *tokenFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.key, "key", "", "integrity key (overrides SESSION_KEY)")
	cmd.Flags().StringVar(&f.algorithm, "algorithm", "", "MAC hash (overrides SESSION_ALGORITHM)")
	cmd.Flags().IntVar(&f.size, "size", 0, "random bytes (overrides SESSION_SIZE)")
	cmd.Flags().DurationVar(&f.expiresIn, "expires-in", 0, "identifier lifetime (overrides SESSION_EXPIRES_IN)")
}

// codec resolves the session configuration the server would use and
// returns its identifier codec.
func (f *tokenFlags) codec() (*sessionid.Codec, error) {
	var cfg session.Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	if f.key != "" {
		cfg.Key = f.key
	}
	if f.algorithm != "" {
		cfg.Algorithm = f.algorithm
	}
	if f.size != 0 {
		cfg.Size = f.size
	}
	if f.expiresIn != 0 {
		cfg.ExpiresIn = f.expiresIn
	}

	mgr, err := session.NewFromConfig(cfg, cache.NewMemory())
	if err != nil {
		return nil, err
	}
	return mgr.Codec(), nil
}

func mintCmd() *cobra.Command {
	var flags tokenFlags

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Print a new session identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := flags.codec()
			if err != nil {
				return err
			}
			token, err := codec.Construct()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func inspectCmd() *cobra.Command {
	var flags tokenFlags

	cmd := &cobra.Command{
		Use:   "inspect <token>",
		Short: "Validate a session identifier",
		Long: `Validate a session identifier against the configured key and layout.
Exits with an error when the identifier is not valid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := flags.codec()
			if err != nil {
				return err
			}

			res := codec.Validate(args[0])
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "valid:    %t\n", res.Valid)
			fmt.Fprintf(out, "signed:   %t\n", codec.Signed())
			if !res.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "expires:  %s\n", res.ExpiresAt.UTC().Format(time.RFC3339))
				fmt.Fprintf(out, "expired:  %t\n", res.Expired)
			}
			if !res.Valid {
				return errInvalidToken
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
