package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yml"
	envPrefix      = "EXPERTBOOK_"
)

const (
	DefaultBaseURL        = "http://127.0.0.1:5000"
	DefaultRequestTimeout = 30 * time.Second
	DefaultLogLevel       = "info"
	DefaultLogFileName    = "expertbook.log"
)

// Option is one selectable value of a form field.
// Label is what the user sees, Value is what goes on the wire.
type Option struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

type Config struct {
	BaseURL  string `yaml:"base_url" json:"base_url"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"` // empty means auto-detect

	// RequestTimeout bounds each backend call. Zero means the default;
	// a negative value disables the bound.
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`

	OpenBrowser bool `yaml:"open_browser" json:"open_browser"`
	Notify      bool `yaml:"notify" json:"notify"`

	LogLevel string `yaml:"log_level" json:"log_level"`
	LogFile  string `yaml:"log_file,omitempty" json:"log_file,omitempty"` // empty means <config dir>/expertbook.log

	TimeSlots []Option `yaml:"time_slots" json:"time_slots"`
	Volumes   []Option `yaml:"volumes" json:"volumes"`
	Services  []Option `yaml:"services" json:"services"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		OpenBrowser:    true,
		Notify:         true,
		LogLevel:       DefaultLogLevel,
		TimeSlots:      defaultTimeSlots(),
		Volumes:        defaultVolumes(),
		Services:       defaultServices(),
	}
}

func defaultTimeSlots() []Option {
	return []Option{
		{Label: "10:00 AM", Value: "10:00"},
		{Label: "11:00 AM", Value: "11:00"},
		{Label: "12:00 PM", Value: "12:00"},
		{Label: "2:00 PM", Value: "14:00"},
		{Label: "3:00 PM", Value: "15:00"},
		{Label: "4:00 PM", Value: "16:00"},
		{Label: "5:00 PM", Value: "17:00"},
	}
}

// Volume values are monthly order counts; the backend routes on 3000.
func defaultVolumes() []Option {
	return []Option{
		{Label: "Under 3,000 orders/month", Value: "1000"},
		{Label: "3,000 - 10,000 orders/month", Value: "5000"},
		{Label: "Over 10,000 orders/month", Value: "10000"},
	}
}

func defaultServices() []Option {
	return []Option{
		{Label: "Fulfil", Value: "Fulfil"},
		{Label: "Ship", Value: "Ship"},
		{Label: "Fulfil + Ship", Value: "Both"},
		{Label: "Eshopbox Plus", Value: "Eshopbox Plus"},
	}
}

// Load reads the config file, then applies .env and EXPERTBOOK_* overrides.
func Load() (Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return cfg, err
	}

	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

// LoadFile reads only the config file, without environment overrides. Use it
// when the result will be saved back.
func LoadFile() (Config, error) {
	return loadFile()
}

func loadFile() (Config, error) {
	configPath, err := Path()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills zero values. Booleans are left as written.
func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.TimeSlots) == 0 {
		c.TimeSlots = defaultTimeSlots()
	}
	if len(c.Volumes) == 0 {
		c.Volumes = defaultVolumes()
	}
	if len(c.Services) == 0 {
		c.Services = defaultServices()
	}
}

func (c *Config) applyEnv() {
	if v := getEnv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := getEnv("LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := getEnv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := getEnv("REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := getEnv("OPEN_BROWSER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.OpenBrowser = b
		}
	}
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + key))
}

// LogPath returns the diagnostic log location.
func (c Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultLogFileName), nil
}

func (c Config) Save() error {
	configDir, err := getConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(configDir, configFileName), data, 0600)
}

func getConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "expertbook"), nil
}

func GetConfigDir() (string, error) {
	return getConfigDir()
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
