package commands

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MehtiSini/HappyTools-sub000/pkg/eventbus"
	"github.com/MehtiSini/HappyTools-sub000/pkg/httpx"
)

// requestCompleted is published on the command's event bus after every get.
type requestCompleted struct {
	Path    string
	Elapsed time.Duration
	Err     error
}

func getCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "get <path>",
		Short: "GET a path of the configured web API and print the JSON response",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			client, err := httpx.NewClient(cfg)
			if err != nil {
				return err
			}

			bus := eventbus.New(eventbus.WithTimeout(cfg.Timeouts.Publish))
			defer bus.Close()
			eventbus.Subscribe(bus, func(ctx context.Context, e requestCompleted) error {
				zap.L().Debug("get completed",
					zap.String("path", e.Path),
					zap.Duration("elapsed", e.Elapsed),
					zap.Error(e.Err))
				return nil
			})

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			start := time.Now()
			var raw json.RawMessage
			err = client.GetJSON(ctx, args[0], &raw)
			if perr := bus.Publish(ctx, requestCompleted{Path: args[0], Elapsed: time.Since(start), Err: err}); perr != nil {
				zap.L().Warn("publish request event", zap.Error(perr))
			}
			if err != nil {
				return err
			}

			var pretty bytes.Buffer
			if len(raw) == 0 {
				return nil
			}
			if err := json.Indent(&pretty, raw, "", "  "); err != nil {
				return fmt.Errorf("format response: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), pretty.String())
			return nil
		},
	}
}
