package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func load(t *testing.T, args ...string) (Config, error) {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	v, err := NewViper(fs)
	require.NoError(t, err)
	return Load(v)
}

func TestLoad_Defaults(t *testing.T) {
	c, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), c)
	assert.Equal(t, "0.0.0.0:5000", c.Addr())
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("CLIENT_URL", "https://play.example.org/")
	t.Setenv("EXPORT_ENABLED", "true")

	c, err := load(t, "--event-burst", "3", "--export_file", "/tmp/out.txt")
	require.NoError(t, err)
	assert.Equal(t, 8081, c.Port)
	assert.Equal(t, "https://play.example.org", c.ClientURL)
	assert.True(t, c.ExportEnabled)
	assert.Equal(t, "/tmp/out.txt", c.ExportFile)
	assert.Equal(t, 3, c.EventBurst)
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv("PORT", "8081")
	c, err := load(t, "--port", "9000")
	require.NoError(t, err)
	assert.Equal(t, 9000, c.Port)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Port = 70000 }, wantErr: true},
		{name: "no rate", mutate: func(c *Config) { c.EventRate = 0 }, wantErr: true},
		{name: "no burst", mutate: func(c *Config) { c.EventBurst = 0 }, wantErr: true},
		{name: "export without file", mutate: func(c *Config) { c.ExportEnabled = true; c.ExportFile = "" }, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := Defaults()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
