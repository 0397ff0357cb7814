package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expertbook/config"
	"expertbook/internal/client"
)

func setTempHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("USERPROFILE", dir)
	t.Setenv("EXPERTBOOK_LANGUAGE", "en")
}

func fixClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	matchDate, matchTime, matchVolume, matchService, matchExclude = "", "", "", "", ""
	matchConfirm = false
	configInitForce = false

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

type recordingBackend struct {
	mu       sync.Mutex
	bodies   map[string][]string
	sessions []string
	status   int
	reply    string
}

func newRecordingBackend(t *testing.T, status int, reply string) *recordingBackend {
	t.Helper()
	b := &recordingBackend{bodies: map[string][]string{}, status: status, reply: reply}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		b.mu.Lock()
		b.bodies[r.URL.Path] = append(b.bodies[r.URL.Path], string(data))
		b.sessions = append(b.sessions, r.Header.Get("X-Session-ID"))
		b.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/confirm_booking" {
			_, _ = w.Write([]byte(`{"status":"success"}`))
			return
		}
		w.WriteHeader(b.status)
		_, _ = w.Write([]byte(b.reply))
	}))
	t.Cleanup(srv.Close)
	t.Setenv("EXPERTBOOK_BASE_URL", srv.URL)
	return b
}

const aliceJSON = `{"name":"Alice","email":"alice@example.com","calendar_link":"https://cal.example/alice","team":"enterprise","date":"2026-10-19"}`

func TestCheckDate(t *testing.T) {
	setTempHome(t)
	fixClock(t)

	tests := []struct {
		name    string
		date    string
		wantOut string
		wantErr string
	}{
		{"weekday", "2026-10-19", "2026-10-19 is bookable\n", ""},
		{"third_saturday", "2026-10-17", "2026-10-17 is bookable\n", ""},
		{"fourth_saturday", "2026-10-24", "", "next bookable: 2026-10-26"},
		{"sunday", "2026-10-18", "", "next bookable: 2026-10-19"},
		{"past", "2026-10-01", "", "Please select today or a later date."},
		{"garbage", "19-10-2026", "", "YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "check-date", tt.date)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOut, out)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMatchPrintsBackendJSON(t *testing.T) {
	setTempHome(t)
	fixClock(t)
	backend := newRecordingBackend(t, http.StatusOK, aliceJSON)

	out, _, err := execute(t, "match",
		"--date", "2026-10-19", "--time", "11:00", "--volume", "5000", "--service", "Ship",
		"--exclude", " Bob, ,Carol,Bob")
	require.NoError(t, err)
	assert.JSONEq(t, aliceJSON, out)

	require.Len(t, backend.bodies["/eshopbox_create_event"], 1)
	assert.JSONEq(t,
		`{"date":"2026-10-19","time_slot":"11:00","volume":"5000","service":"Ship","exclude":"Bob,Carol"}`,
		backend.bodies["/eshopbox_create_event"][0])
	assert.Empty(t, backend.bodies["/confirm_booking"])
	assert.NotEmpty(t, backend.sessions[0])
}

func TestMatchConfirmEchoesMatch(t *testing.T) {
	setTempHome(t)
	fixClock(t)
	backend := newRecordingBackend(t, http.StatusOK, aliceJSON)

	_, stderr, err := execute(t, "match",
		"--date", "2026-10-19", "--time", "11:00", "--volume", "5000", "--service", "Ship", "--confirm")
	require.NoError(t, err)

	require.Len(t, backend.bodies["/confirm_booking"], 1)
	assert.JSONEq(t, aliceJSON, backend.bodies["/confirm_booking"][0])
	assert.Contains(t, stderr, "Booking confirmed!")
	assert.Equal(t, backend.sessions[0], backend.sessions[1], "both calls share one session")
}

func TestMatchReportsBackendError(t *testing.T) {
	setTempHome(t)
	fixClock(t)
	newRecordingBackend(t, http.StatusNotFound, `{"error":"No experts available for this slot"}`)

	_, _, err := execute(t, "match",
		"--date", "2026-10-19", "--time", "11:00", "--volume", "5000", "--service", "Ship")
	require.Error(t, err)
	assert.Equal(t, "No experts available for this slot", err.Error())
}

func TestMatchValidatesInput(t *testing.T) {
	setTempHome(t)
	fixClock(t)
	backend := newRecordingBackend(t, http.StatusOK, aliceJSON)

	_, _, err := execute(t, "match", "--date", "2026-10-19", "--time", "11:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--volume, --service")

	_, _, err = execute(t, "match",
		"--date", "2026-10-25", "--time", "11:00", "--volume", "5000", "--service", "Ship")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked weekend")

	assert.Empty(t, backend.bodies)
}

func TestConfigInitAndPath(t *testing.T) {
	setTempHome(t)

	path, _, err := execute(t, "config", "path")
	require.NoError(t, err)
	want, err := config.Path()
	require.NoError(t, err)
	assert.Equal(t, want+"\n", path)

	_, _, err = execute(t, "config", "init")
	require.NoError(t, err)
	_, err = os.Stat(want)
	require.NoError(t, err)

	_, _, err = execute(t, "config", "init")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShowAppliesEnv(t *testing.T) {
	setTempHome(t)
	t.Setenv("EXPERTBOOK_BASE_URL", "https://book.example.com")

	out, _, err := execute(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "https://book.example.com")
}

func TestWriteJSONKeepsUnknownFields(t *testing.T) {
	var m client.Match
	require.NoError(t, json.Unmarshal([]byte(aliceJSON), &m))

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, &m))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")), "compact output when not a terminal")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "enterprise", got["team"])
}
