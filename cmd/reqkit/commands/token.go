package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/kbukum/reqkit/auth"
)

var errNoAuth = errors.New("no credentials configured: set auth.access_token, auth.token_url or auth.store")

func newTokenCommand(g *globalOptions) *cobra.Command {
	var (
		refresh bool
		details bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the current access token",
		Long: `Print the access token of the configured provider. A stale token is
refreshed first; --refresh forces a refresh.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTokens(cmd.Context(), g, func(ctx context.Context, tokens *auth.TokenProvider) error {
				access, err := currentToken(ctx, tokens, refresh)
				if err != nil {
					return err
				}
				if !details {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), access)
					return err
				}
				tok, err := tokens.Token(ctx)
				if err != nil {
					return err
				}
				return writeTokenDetails(cmd.OutOrStdout(), tok)
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "force a refresh before printing")
	cmd.Flags().BoolVar(&details, "details", false, "print token metadata instead of the token")

	cmd.AddCommand(newTokenSetCommand(g))
	cmd.AddCommand(newTokenClearCommand(g))
	return cmd
}

func newTokenSetCommand(g *globalOptions) *cobra.Command {
	var (
		refreshToken string
		expiresIn    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "set <access-token>",
		Short: "Store a token in the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTokens(cmd.Context(), g, func(ctx context.Context, tokens *auth.TokenProvider) error {
				tok := &auth.Token{AccessToken: args[0], RefreshToken: refreshToken, TokenType: "Bearer"}
				if expiresIn > 0 {
					tok.ExpiresAt = time.Now().Add(expiresIn)
				}
				return tokens.SetToken(ctx, tok)
			})
		},
	}
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh token stored alongside")
	cmd.Flags().DurationVar(&expiresIn, "expires-in", 0, "lifetime of the access token")
	return cmd
}

func newTokenClearCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTokens(cmd.Context(), g, func(ctx context.Context, tokens *auth.TokenProvider) error {
				return tokens.Clear(ctx)
			})
		},
	}
}

func currentToken(ctx context.Context, tokens *auth.TokenProvider, refresh bool) (string, error) {
	if !refresh {
		return tokens.AccessToken(ctx)
	}
	tok, err := tokens.Token(ctx)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", auth.ErrTokenNotFound
	}
	return tokens.RefreshAccessToken(ctx, tok.RefreshToken)
}

func withTokens(ctx context.Context, g *globalOptions, fn func(ctx context.Context, tokens *auth.TokenProvider) error) error {
	rt, err := newRuntime(ctx, g)
	if err != nil {
		return err
	}
	return rt.run(ctx, func(ctx context.Context) error {
		if rt.tokens == nil {
			return errNoAuth
		}
		return fn(ctx, rt.tokens)
	})
}

func writeTokenDetails(w io.Writer, tok *auth.Token) error {
	if tok == nil {
		return auth.ErrTokenNotFound
	}
	now := time.Now()
	expiry := "unknown"
	remaining := "unknown"
	if exp := tok.Expiry(); !exp.IsZero() {
		expiry = exp.Format(time.RFC3339)
		remaining = exp.Sub(now).Round(time.Second).String()
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	rows := [][]string{
		{"Type", tok.TokenType},
		{"Expires At", expiry},
		{"Time Until Expiry", remaining},
		{"Stale", fmt.Sprintf("%v", tok.Stale(now, auth.DefaultLeeway))},
		{"Refresh Token Available", fmt.Sprintf("%v", tok.RefreshToken != "")},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
