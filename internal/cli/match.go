package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"expertbook/internal/booking"
	"expertbook/internal/client"
	"expertbook/internal/i18n"
)

var (
	matchDate    string
	matchTime    string
	matchVolume  string
	matchService string
	matchExclude string
	matchConfirm bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Request one expert match and print it as JSON",
	Example: `  expertbook match --date 2026-10-19 --time 11:00 --volume 5000 --service Ship
  expertbook match --date 2026-10-19 --time 11:00 --volume 5000 --service Ship --exclude "Alice,Bob" --confirm`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		defer logger.Sync()

		sel := booking.Selection{
			Date:     matchDate,
			TimeSlot: matchTime,
			Volume:   matchVolume,
			Service:  matchService,
		}
		if !sel.Complete() {
			return fmt.Errorf("%s (missing: %s)", i18n.T("alert.incomplete"), strings.Join(missingFlags(sel), ", "))
		}
		if _, err := booking.ValidateDate(matchDate, now()); err != nil {
			return dateError(err)
		}

		var excl booking.ExclusionSet
		for _, name := range strings.Split(matchExclude, ",") {
			excl.Add(name)
		}

		api, err := newClient(cfg, logger)
		if err != nil {
			return err
		}
		backend := api.WithSession(uuid.NewString())
		logger = logger.With(zap.String("session", backend.SessionID()))

		m, err := backend.FindMatch(cmd.Context(), sel.Request(excl))
		if err != nil {
			logger.Warn("match request failed", zap.Error(err))
			msg := client.UserMessage(err)
			if msg == client.DefaultErrorMessage {
				msg = i18n.T("error.network")
			}
			return errors.New(msg)
		}

		if err := writeJSON(cmd.OutOrStdout(), m); err != nil {
			return err
		}

		if matchConfirm {
			outcome := booking.ConfirmBooking(cmd.Context(), backend, logger, m)
			fmt.Fprintln(cmd.ErrOrStderr(), i18n.T(outcome.MessageID()))
		}
		return nil
	},
}

func init() {
	matchCmd.Flags().StringVar(&matchDate, "date", "", "meeting date (YYYY-MM-DD)")
	matchCmd.Flags().StringVar(&matchTime, "time", "", "time slot, e.g. 11:00")
	matchCmd.Flags().StringVar(&matchVolume, "volume", "", "monthly order volume")
	matchCmd.Flags().StringVar(&matchService, "service", "", "service: Fulfil, Ship, Both or \"Eshopbox Plus\"")
	matchCmd.Flags().StringVar(&matchExclude, "exclude", "", "comma-separated experts to skip")
	matchCmd.Flags().BoolVar(&matchConfirm, "confirm", false, "report the match as booked")
}

func missingFlags(sel booking.Selection) []string {
	flags := map[booking.Field]string{
		booking.FieldDate:     "--date",
		booking.FieldTimeSlot: "--time",
		booking.FieldVolume:   "--volume",
		booking.FieldService:  "--service",
	}
	var out []string
	for _, f := range sel.Missing() {
		out = append(out, flags[f])
	}
	return out
}

// writeJSON prints the match exactly as the backend sent it, indented when
// writing to a terminal.
func writeJSON(w io.Writer, m *client.Match) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if isTerminal(w) {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err == nil {
			data = buf.Bytes()
		}
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
