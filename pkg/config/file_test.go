package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

func TestFileDefaults(t *testing.T) {
	f, err := NewFile(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, []thermistor.Observation{
		{Resistance: 25000, Temperature: 5},
		{Resistance: 10000, Temperature: 25},
		{Resistance: 4000, Temperature: 45},
	}, f.Observations())
	assert.Equal(t, calibration.ModelSteinhartHart, f.DefaultModel())
	assert.Equal(t, curve.DefaultRange, f.CurveRange())
	assert.Equal(t, thermistor.DefaultDivider, f.Divider())
	assert.False(t, f.AllowNonRootAccess())
}

func TestFileEmptyContent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, os.WriteFile(p, []byte("  \n"), 0644))

	f, err := NewFile(p)
	require.NoError(t, err)
	assert.Len(t, f.Observations(), 3)
}

func TestFileSaveLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "ntccal.json")
	f := NewFileFromConfig(nil, p)

	obs := []thermistor.Observation{
		{Resistance: 32000, Temperature: 0},
		{Resistance: 10000, Temperature: 25},
		{Resistance: 3600, Temperature: 50},
	}
	require.NoError(t, f.SetObservations(obs))
	f.SetDefaultModel(calibration.ModelBeta)
	f.SetCurveRange(curve.Range{MinC: -10, MaxC: 80, Points: 50})
	require.NoError(t, f.SetDivider(thermistor.Divider{SeriesResistance: 4700, Resolution: 4095}))
	f.SetAllowNonRootAccess(true)
	require.NoError(t, f.Save())

	g, err := NewFile(p)
	require.NoError(t, err)
	assert.Equal(t, obs, g.Observations())
	assert.Equal(t, calibration.ModelBeta, g.DefaultModel())
	assert.Equal(t, curve.Range{MinC: -10, MaxC: 80, Points: 50}, g.CurveRange())
	assert.Equal(t, thermistor.Divider{SeriesResistance: 4700, Resolution: 4095}, g.Divider())
	assert.True(t, g.AllowNonRootAccess())

	raw, err := NewRawFileConfigFromConfig(g)
	require.NoError(t, err)
	assert.Equal(t, "beta", *raw.DefaultModel)
}

func TestFileObservationsAreCopied(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	obs := f.Observations()
	obs[0].Resistance = 1

	assert.Equal(t, 25000.0, f.Observations()[0].Resistance)
}

func TestFileSetInvalid(t *testing.T) {
	f := NewFileFromConfig(nil, "")

	err := f.SetObservations(nil)
	assert.ErrorIs(t, err, thermistor.ErrInvalidInputCount)

	err = f.SetObservations([]thermistor.Observation{{Resistance: -1, Temperature: 25}})
	assert.ErrorIs(t, err, thermistor.ErrInvalidObservation)

	err = f.SetDivider(thermistor.Divider{SeriesResistance: 0, Resolution: 1023})
	assert.ErrorIs(t, err, thermistor.ErrInvalidObservation)

	// Nothing changed.
	assert.Len(t, f.Observations(), 3)
	assert.Equal(t, thermistor.DefaultDivider, f.Divider())
}

func TestFileLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed json", `{"observations": [`},
		{"unknown model", `{"defaultModel": "polynomial"}`},
		{"non-positive resistance", `{"observations": [{"resistance": 0, "temperature": 25}]}`},
		{"too few curve points", `{"curvePoints": 1}`},
		{"negative series resistor", `{"seriesResistance": -10}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), "ntccal.json")
			require.NoError(t, os.WriteFile(p, []byte(tt.content), 0644))

			_, err := NewFile(p)
			assert.Error(t, err)
		})
	}
}

func TestLogrusFields(t *testing.T) {
	f := NewFileFromConfig(nil, "")
	fields := f.LogrusFields()

	assert.Equal(t, 3, fields["observations"])
	assert.Equal(t, calibration.ModelSteinhartHart, fields["defaultModel"])
	assert.Equal(t, false, fields["allowNonRootAccess"])
}
