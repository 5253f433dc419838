package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/curve"
	"github.com/charlie0129/ntccal/pkg/thermistor"
	"github.com/charlie0129/ntccal/pkg/utils/ptr"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name    string
		update  RawFileConfig
		check   func(t *testing.T, f *File)
		wantErr bool
	}{
		{
			name:   "default model",
			update: RawFileConfig{DefaultModel: ptr.To("beta")},
			check: func(t *testing.T, f *File) {
				assert.Equal(t, calibration.ModelBeta, f.DefaultModel())
				assert.Equal(t, curve.DefaultRange, f.CurveRange())
			},
		},
		{
			name:   "curve max only keeps the rest",
			update: RawFileConfig{CurveMax: ptr.To(100.0)},
			check: func(t *testing.T, f *File) {
				assert.Equal(t, curve.Range{MinC: 0, MaxC: 100, Points: curve.DefaultPoints}, f.CurveRange())
			},
		},
		{
			name:   "series only keeps the resolution",
			update: RawFileConfig{SeriesResistance: ptr.To(4700.0)},
			check: func(t *testing.T, f *File) {
				assert.Equal(t, thermistor.Divider{SeriesResistance: 4700, Resolution: thermistor.DefaultDivider.Resolution}, f.Divider())
			},
		},
		{
			name: "observations and access",
			update: RawFileConfig{
				Observations:       []thermistor.Observation{{Resistance: 32000, Temperature: 0}, {Resistance: 10000, Temperature: 25}},
				AllowNonRootAccess: ptr.To(true),
			},
			check: func(t *testing.T, f *File) {
				assert.Len(t, f.Observations(), 2)
				assert.True(t, f.AllowNonRootAccess())
			},
		},
		{
			name:    "unknown model",
			update:  RawFileConfig{DefaultModel: ptr.To("poly"), CurveMax: ptr.To(100.0)},
			wantErr: true,
		},
		{
			name:    "bad resolution",
			update:  RawFileConfig{DefaultModel: ptr.To("beta"), ADCResolution: ptr.To(0.0)},
			wantErr: true,
		},
		{
			name:    "observation below absolute zero",
			update:  RawFileConfig{Observations: []thermistor.Observation{{Resistance: 1, Temperature: -300}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFileFromConfig(nil, filepath.Join(t.TempDir(), "ntccal.json"))
			err := Apply(f, &tt.update)
			if tt.wantErr {
				require.Error(t, err)
				// Nothing was applied.
				assert.Equal(t, calibration.ModelSteinhartHart, f.DefaultModel())
				assert.Equal(t, curve.DefaultRange, f.CurveRange())
				assert.Equal(t, thermistor.DefaultDivider, f.Divider())
				assert.Len(t, f.Observations(), 3)
				return
			}
			require.NoError(t, err)
			tt.check(t, f)
		})
	}
}

func TestApplyRestoresSnapshot(t *testing.T) {
	f := NewFileFromConfig(nil, filepath.Join(t.TempDir(), "ntccal.json"))
	prev, err := NewRawFileConfigFromConfig(f)
	require.NoError(t, err)

	require.NoError(t, Apply(f, &RawFileConfig{DefaultModel: ptr.To("beta"), CurvePoints: ptr.To(7)}))
	require.NoError(t, Apply(f, prev))

	assert.Equal(t, calibration.ModelSteinhartHart, f.DefaultModel())
	assert.Equal(t, curve.DefaultRange, f.CurveRange())
}
