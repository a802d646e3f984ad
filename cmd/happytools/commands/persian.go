package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MehtiSini/HappyTools-sub000/pkg/persian"
)

const isoDate = "2006-01-02"

func jalaliCmd() *cobra.Command {
	var reverse bool
	cmd := &cobra.Command{
		Use:   "jalali [date]",
		Short: "Convert a Gregorian date (2006-01-02) to Jalali, or back with --reverse",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if reverse {
				if len(args) == 0 {
					return fmt.Errorf("--reverse needs a Jalali date such as 1402/10/11")
				}
				d, err := persian.Parse(args[0])
				if err != nil {
					return err
				}
				t, err := persian.ToGregorian(d.Year, d.Month, d.Day, time.UTC)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.Format(isoDate))
				return nil
			}

			t := time.Now()
			if len(args) == 1 {
				parsed, err := time.Parse(isoDate, args[0])
				if err != nil {
					return fmt.Errorf("parse %q: %w", args[0], err)
				}
				t = parsed
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", persian.ToJalali(t), persian.Format(t, "dddd d MMMM yyyy"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "convert Jalali to Gregorian")
	return cmd
}

func shetabCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shetab <card>",
		Short: "Validate a Shetab card number and name its bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			card := persian.NormalizeCard(args[0])
			if !persian.IsValidShetab(card) {
				return fmt.Errorf("invalid card number %q", args[0])
			}
			bank, ok := persian.BankName(card)
			if !ok {
				bank = "unknown bank"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %s\n", bank)
			return nil
		},
	}
}

func nationalCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nationalcode <code>",
		Short: "Validate an Iranian national code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !persian.IsValidNationalCode(args[0]) {
				return fmt.Errorf("invalid national code %q", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
}
