package commands

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/MehtiSini/HappyTools-sub000/pkg/httpx"
)

func heartbeatCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "heartbeat [path]",
		Short: "Probe the configured web API's heartbeat endpoint",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			client, err := httpx.NewClient(cfg)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			status, err := client.Heartbeat(cmd.Context(), path)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(status, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
