package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"expertbook/internal/booking"
	"expertbook/internal/i18n"
)

// now is swapped out in tests.
var now = time.Now

var checkDateCmd = &cobra.Command{
	Use:   "check-date YYYY-MM-DD",
	Short: "Check whether a date can be booked",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setup()

		d, err := booking.ValidateDate(args[0], now())
		if err != nil {
			if errors.Is(err, booking.ErrBlockedWeekend) {
				next := booking.NextBookable(d)
				return fmt.Errorf("%s (next bookable: %s)", i18n.T("alert.blocked_weekend"), next.Format(booking.DateLayout))
			}
			return dateError(err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is bookable\n", d.Format(booking.DateLayout))
		return nil
	},
}

func dateError(err error) error {
	switch {
	case errors.Is(err, booking.ErrBlockedWeekend):
		return errors.New(i18n.T("alert.blocked_weekend"))
	case errors.Is(err, booking.ErrPastDate):
		return errors.New(i18n.T("alert.past_date"))
	case errors.Is(err, booking.ErrInvalidDate):
		return errors.New(i18n.T("alert.invalid_date"))
	}
	return err
}
