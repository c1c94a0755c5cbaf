package cmd

import (
	"fmt"

	"github.com/jmehdipour/notify-relay/internal/credentials"
	"github.com/spf13/cobra"
)

var (
	tokenChannel string
	tokenTo      string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Print a zero-configuration bearer token (channel token and recipient joined by |)",
		Long: "Print a zero-configuration bearer token.\n\n" +
			"The printed token contains the channel access token itself; treat it as that secret.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := credentials.EncodeSelfToken(tokenChannel, tokenTo)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenChannel, "channel-token", "", "LINE channel access token")
	tokenCmd.Flags().StringVar(&tokenTo, "to", "", "recipient user, group or room id")
	_ = tokenCmd.MarkFlagRequired("channel-token")
	_ = tokenCmd.MarkFlagRequired("to")
}
