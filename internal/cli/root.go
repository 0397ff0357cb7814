package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"expertbook/config"
	"expertbook/internal/booking"
	"expertbook/internal/client"
	"expertbook/internal/i18n"
	"expertbook/internal/logging"
	"expertbook/internal/ui"
	"expertbook/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "expertbook",
	Short: "Book a meeting with an available expert from your terminal",
	Long:  "expertbook - pick a date, time slot, volume and service, get matched with an expert and book a call",
	Run: func(cmd *cobra.Command, args []string) {
		runTUI()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SilenceUsage = true
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(checkDateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// setup loads config, messages and the logger shared by every command.
func setup() (config.Config, *zap.Logger) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if err := i18n.Init(cfg.Language); err != nil {
		// Non-fatal: messages fall back to their ids
		fmt.Printf("Warning: i18n initialization failed: %v\n", err)
	}

	logPath, err := cfg.LogPath()
	if err != nil {
		fmt.Printf("Warning: no log file: %v\n", err)
		return cfg, zap.NewNop()
	}
	logger := logging.NewOrNop(logging.Config{Level: cfg.LogLevel, Path: logPath})
	return cfg, logger
}

func newClient(cfg config.Config, logger *zap.Logger) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.RequestTimeout,
		Logger:    logger,
		UserAgent: "expertbook/" + version.Version,
	})
}

func runTUI() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println("expertbook needs an interactive terminal. Use 'expertbook match' for scripting.")
		os.Exit(1)
	}

	cfg, logger := setup()
	defer logger.Sync()

	api, err := newClient(cfg, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	app := ui.NewApp(&cfg, func(sessionID string) booking.Backend {
		return api.WithSession(sessionID)
	}, logger)

	p := tea.NewProgram(
		app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
