package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Bind          string
	Port          int
	ClientURL     string
	ExportEnabled bool
	ExportFile    string
	EventRate     float64
	EventBurst    int
	Verbose       bool
}

func Defaults() Config {
	return Config{
		Bind:          "0.0.0.0",
		Port:          5000,
		ClientURL:     "*",
		ExportEnabled: false,
		ExportFile:    "./masquerade-results.txt",
		EventRate:     5,
		EventBurst:    10,
	}
}

// Flags registers every setting on fs. Each flag can also be set through
// the environment, e.g. --client-url as CLIENT_URL.
func Flags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringP("bind", "b", d.Bind, "address to bind to (env: BIND)")
	fs.IntP("port", "p", d.Port, "port to listen on (env: PORT)")
	fs.String("client-url", d.ClientURL, "origin allowed by CORS, * for any (env: CLIENT_URL)")
	fs.Bool("export-enabled", d.ExportEnabled, "append finished rounds to --export-file (env: EXPORT_ENABLED)")
	fs.String("export-file", d.ExportFile, "round results file (env: EXPORT_FILE)")
	fs.Float64("event-rate", d.EventRate, "inbound socket events per second per connection (env: EVENT_RATE)")
	fs.Int("event-burst", d.EventBurst, "inbound socket event burst per connection (env: EVENT_BURST)")
	fs.BoolP("verbose", "v", d.Verbose, "log debug output (env: VERBOSE)")
}

// NewViper returns a viper bound to fs and the environment.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}
	return v, nil
}

// Load reads the settings from v and validates them.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		Bind:          v.GetString("bind"),
		Port:          v.GetInt("port"),
		ClientURL:     strings.TrimRight(v.GetString("client-url"), "/"),
		ExportEnabled: v.GetBool("export-enabled"),
		ExportFile:    v.GetString("export-file"),
		EventRate:     v.GetFloat64("event-rate"),
		EventBurst:    v.GetInt("event-burst"),
		Verbose:       v.GetBool("verbose"),
	}
	if c.ClientURL == "" {
		c.ClientURL = "*"
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.EventRate <= 0 || c.EventBurst < 1 {
		return errors.New("--event-rate and --event-burst must be positive")
	}
	if c.ExportEnabled && c.ExportFile == "" {
		return errors.New("--export-file is required when --export-enabled is set")
	}
	return nil
}

func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}
