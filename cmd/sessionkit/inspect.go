package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/sessionkit/pkg/jwt"
	"github.com/dmitrymomot/sessionkit/pkg/jwtsession"
)

func newInspectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <cookie-value|->",
		Short: "Verify a session cookie and print its claims",
		Long: `inspect decodes a session cookie value with the configured secrets
and prints its claims as YAML. Pass "-" to read the value from stdin.
Expired tokens are printed with a warning and a non-zero exit code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			m, err := jwtsession.NewFromConfig(cfg.Session)
			if err != nil {
				return err
			}

			value := args[0]
			if value == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				value = line
			}
			value = strings.TrimSpace(value)

			claims, inspectErr := m.Inspect(value)
			if claims == nil {
				return inspectErr
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(describe(claims)); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if errors.Is(inspectErr, jwt.ErrExpiredToken) {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: token is expired")
			}
			return inspectErr
		},
	}
}

// describe adds readable timestamps next to the numeric time claims.
func describe(claims map[string]any) map[string]any {
	out := make(map[string]any, len(claims)+3)
	for k, v := range claims {
		out[k] = v
	}
	for _, name := range []string{jwt.ClaimIssuedAt, jwt.ClaimExpiresAt, jwt.ClaimNotBefore} {
		if t, ok := jwt.TimeClaim(claims, name); ok {
			out[name+"_time"] = t.UTC().Format(time.RFC3339)
		}
	}
	return out
}
