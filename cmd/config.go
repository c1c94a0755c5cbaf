package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jmehdipour/notify-relay/internal/config"
	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and encode access token files",
	}
	cmd.AddCommand(newTestFileCmd())
	cmd.AddCommand(newEncodeCmd())

	return cmd
}

func newTestFileCmd() *cobra.Command {
	var out, token, prefix string

	cmd := &cobra.Command{
		Use:   "test-file",
		Short: "Write a credentials file for smoke tests against a mock Messaging API",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := testCredentials(token, prefix)
			b, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, b, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "test-config.json", "output path")
	cmd.Flags().StringVar(&token, "token", "test", "bearer token callers will use")
	cmd.Flags().StringVar(&prefix, "prefix", "TEST APP: ", "message prefix")

	return cmd
}

func testCredentials(token, prefix string) *config.Credentials {
	return &config.Credentials{
		AccessTokens: map[string]config.AccessToken{
			token: {
				ChannelAccessToken: "dummy",
				To:                 uuid.NewString(),
				MessagePrefix:      prefix,
			},
		},
	}
}

func newEncodeCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Validate a credentials file and print it for CONFIG_BASE64",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(file)
			if err != nil {
				return err
			}
			c, err := config.ParseCredentials(b)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			if _, _, err := credentials.New(c); err != nil {
				return err
			}
			s, err := config.EncodeCredentials(c)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "config.json", "credentials file to encode")

	return cmd
}
