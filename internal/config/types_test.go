// SPDX-License-Identifier: MPL-2.0

package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyralabs/anda/internal/rpm"
)

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.TargetDir = ""
	cfg.RPM.Builder = "koji"
	cfg.Log.Format = "xml"
	cfg.Log.Level = "trace"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	var ice *InvalidConfigError
	require.ErrorAs(t, err, &ice)
	assert.Len(t, ice.FieldErrors, 4)
	assert.ErrorIs(t, ice.FieldErrors[2], ErrInvalidLogFormat)
	assert.ErrorIs(t, ice.FieldErrors[3], ErrInvalidLogLevel)
}

func TestConfig_BuilderKind(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, rpm.Mock, cfg.BuilderKind())

	cfg.RPM.Builder = "rpmbuild"
	assert.Equal(t, rpm.RPMBuild, cfg.BuilderKind())

	cfg.RPM.Builder = "bogus"
	assert.Equal(t, rpm.Mock, cfg.BuilderKind())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"":      slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	assert.ErrorIs(t, err, ErrInvalidLogLevel)
}
