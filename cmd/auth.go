package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teemow/inboxagent/internal/config"
	"github.com/teemow/inboxagent/internal/google"
)

func newAuthCmd() *cobra.Command {
	var (
		account string
		code    string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to the Gmail inbox",
		Long: `Print the Google consent URL and store the token for the account once the
authorization code is entered. The code is the "code" query parameter of the
page Google redirects to after consent.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Google.Validate(); err != nil {
				return err
			}
			if account == "" {
				account = cfg.Gmail.Account
			}

			auth := google.NewAuth(cfg.Google, cfg.Gmail.TokenDir)
			out := cmd.OutOrStdout()

			if code == "" {
				fmt.Fprintf(out, "Open this URL in a browser and grant access:\n\n%s\n\n", auth.AuthURL(uuid.NewString()))
				fmt.Fprint(out, "Authorization code: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read authorization code: %w", err)
				}
				code = strings.TrimSpace(line)
			}
			if code == "" {
				return errors.New("authorization code is required")
			}

			if err := auth.Exchange(cmd.Context(), account, code); err != nil {
				return err
			}
			fmt.Fprintf(out, "Token stored for account %q\n", account)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account name (default from config)")
	cmd.Flags().StringVar(&code, "code", "", "Authorization code; prompted for when empty")

	return cmd
}
