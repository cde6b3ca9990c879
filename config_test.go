package hoist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "hoist.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[dump]
sets = true

[libfuncs]
pure = ["my_hash"]
impure = ["sqrt"]
`)
	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "debug", config.Log.Level)
	require.True(t, config.Dump.Sets)
	require.Equal(t, []string{"my_hash"}, config.LibFuncs.Pure)
	require.Equal(t, []string{"sqrt"}, config.LibFuncs.Impure)

	purity := config.purity()
	require.True(t, purity.IsPure("my_hash"))
	require.False(t, purity.IsPure("sqrt"))
	require.True(t, purity.IsPure("sqrtf"))
}

func TestLoadConfig_defaults(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, "[dump]\nsets = false\n"))
	require.NoError(t, err)
	require.Equal(t, NewConfig(), config)
}

func TestLoadConfig_errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "[log\nlevel = "))
	require.ErrorContains(t, err, "failed to parse config file")

	_, err = LoadConfig(writeConfig(t, "[log]\nlevel = \"loud\"\n"))
	require.ErrorContains(t, err, "log.level")
}

func TestConfig_Validate(t *testing.T) {
	for _, tc := range []struct {
		name   string
		config Config
		expErr []string
	}{
		{name: "default", config: *NewConfig()},
		{
			name: "libfuncs",
			config: Config{
				Log:      LogConfig{Level: "warn"},
				LibFuncs: LibFuncsConfig{Pure: []string{"a", "b"}, Impure: []string{"c"}},
			},
		},
		{
			name: "every problem",
			config: Config{
				Log:      LogConfig{Level: "loud"},
				LibFuncs: LibFuncsConfig{Pure: []string{"a", ""}, Impure: []string{"a", ""}},
			},
			expErr: []string{
				`log.level: unrecognized level: "loud"`,
				"libfuncs.pure: empty routine name",
				`libfuncs: "a" is both pure and impure`,
				"libfuncs.impure: empty routine name",
			},
		},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if len(tc.expErr) == 0 {
				require.NoError(t, err)
				return
			}
			var msgs []string
			for _, e := range multierr.Errors(err) {
				msgs = append(msgs, e.Error())
			}
			require.Equal(t, tc.expErr, msgs)
		})
	}
}

func TestConfig_Save(t *testing.T) {
	config := NewConfig()
	config.Log.Level = "error"
	config.Dump.Sets = true
	config.LibFuncs.Pure = []string{"my_hash"}

	path := filepath.Join(t.TempDir(), "hoist.toml")
	require.NoError(t, config.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, config.Log, loaded.Log)
	require.Equal(t, config.Dump, loaded.Dump)
	require.Equal(t, config.LibFuncs.Pure, loaded.LibFuncs.Pure)
}
