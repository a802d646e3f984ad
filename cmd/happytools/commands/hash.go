package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MehtiSini/HappyTools-sub000/pkg/strx"
)

func hashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <algo> <text>",
		Short: "Hash text with md5, sha1, sha256, sha512, keccak256 or bcrypt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, text := args[0], args[1]
			var (
				out string
				err error
			)
			if algo == "bcrypt" {
				out, err = strx.HashPassword(text)
			} else {
				out, err = strx.Hash(algo, text)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
