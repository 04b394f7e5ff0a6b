package runconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgareus/mtc-tools/pkg/timecode"
)

func TestParseReaderConfigPositionalPorts(t *testing.T) {
	cfg, err := ParseReaderConfig("mtcdump", []string{"-n", "mtc:in", "ltc:a", "ltc:b"})
	require.NoError(t, err)
	assert.True(t, cfg.Newline)
	assert.Equal(t, "mtc:in", cfg.MTCPort)
	assert.Equal(t, "ltc:a", cfg.LTCPort1)
	assert.Equal(t, "ltc:b", cfg.LTCPort2)
	assert.False(t, cfg.Help)
	assert.False(t, cfg.Version)
}

func TestParseReaderConfigHelpShortCircuits(t *testing.T) {
	cfg, err := ParseReaderConfig("mtcdump", []string{"-h"})
	require.NoError(t, err)
	assert.True(t, cfg.Help)
	assert.Empty(t, cfg.MTCPort)
}

func TestParseGeneratorConfigRateFlag(t *testing.T) {
	cfg, err := ParseGeneratorConfig("mtcgen", []string{"-f", "25"})
	require.NoError(t, err)
	assert.True(t, cfg.HasRate)
	assert.Equal(t, timecode.Rate25, cfg.Rate)
}

func TestParseGeneratorConfigDropFrameRateFlag(t *testing.T) {
	cfg, err := ParseGeneratorConfig("mtcgen", []string{"-f", "30000/1001"})
	require.NoError(t, err)
	assert.True(t, cfg.HasRate)
	assert.Equal(t, timecode.Rate2997, cfg.Rate)
}

func TestParseGeneratorConfigInvalidRateIsError(t *testing.T) {
	_, err := ParseGeneratorConfig("mtcgen", []string{"-f", "23"})
	assert.Error(t, err)
}

func TestParseGeneratorConfigJackVideoAndDebug(t *testing.T) {
	cfg, err := ParseGeneratorConfig("mtcgen", []string{"-F", "-d", "port1", "port2"})
	require.NoError(t, err)
	assert.True(t, cfg.FollowJackVideo)
	assert.True(t, cfg.Debug)
	assert.False(t, cfg.HasRate)
	assert.Equal(t, []string{"port1", "port2"}, cfg.AutoConnectPorts)
}

func TestParseGeneratorConfigVersionShortCircuits(t *testing.T) {
	cfg, err := ParseGeneratorConfig("mtcgen", []string{"-V"})
	require.NoError(t, err)
	assert.True(t, cfg.Version)
}
