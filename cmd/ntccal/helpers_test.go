package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/ntccal/pkg/calibration"
	"github.com/charlie0129/ntccal/pkg/events"
	"github.com/charlie0129/ntccal/pkg/thermistor"
)

func TestParsePairs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []thermistor.Observation
		wantErr bool
	}{
		{
			name: "plain",
			args: []string{"25000:5", "10000:25", "4000:45"},
			want: []thermistor.Observation{{Resistance: 25000, Temperature: 5}, {Resistance: 10000, Temperature: 25}, {Resistance: 4000, Temperature: 45}},
		},
		{
			name: "locale separators",
			args: []string{"1.234,5:-10,5", "1,234.5:20.25"},
			want: []thermistor.Observation{{Resistance: 1234.5, Temperature: -10.5}, {Resistance: 1234.5, Temperature: 20.25}},
		},
		{name: "none", args: nil, wantErr: true},
		{name: "missing colon", args: []string{"10000"}, wantErr: true},
		{name: "empty temperature", args: []string{"10000:"}, wantErr: true},
		{name: "bad resistance", args: []string{"ten:25"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePairs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLists(t *testing.T) {
	got, err := parseLists([]string{"25000", "10.000,5"}, []string{"5", "-3,5"})
	require.NoError(t, err)
	assert.Equal(t, []thermistor.Observation{{Resistance: 25000, Temperature: 5}, {Resistance: 10000.5, Temperature: -3.5}}, got)

	_, err = parseLists([]string{"25000"}, []string{"5", "25"})
	assert.ErrorIs(t, err, thermistor.ErrInvalidInputCount)

	_, err = parseLists([]string{"25000", ""}, []string{"5", "25"})
	assert.Error(t, err)
}

func TestParseFloatArg(t *testing.T) {
	v, err := parseFloatArg([]string{"3,5"}, "x")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = parseFloatArg(nil, "x")
	assert.Error(t, err)
	_, err = parseFloatArg([]string{"1", "2"}, "x")
	assert.Error(t, err)
}

func TestParseModelFlag(t *testing.T) {
	m, err := parseModelFlag("")
	require.NoError(t, err)
	assert.Equal(t, calibration.Model(""), m)

	m, err = parseModelFlag("SH")
	require.NoError(t, err)
	assert.Equal(t, calibration.ModelSteinhartHart, m)

	_, err = parseModelFlag("nope")
	assert.Error(t, err)
}

func TestFormatEvent(t *testing.T) {
	tests := []struct {
		name string
		ev   events.Event
		want string
	}{
		{"updated", events.Event{Name: events.CalibrationUpdated, Data: []byte(`{"id":"abc","steinhartHartOk":true,"betaOk":false,"betaError":"boom"}`)}, "calibration.updated abc steinhart-hart ✔ beta ✘\n  beta: boom"},
		{"invalidated", events.Event{Name: events.CalibrationInvalidated, Data: []byte(`{"reason":"reset"}`)}, "calibration.invalidated (reset)"},
		{"observations", events.Event{Name: events.ObservationsChanged, Data: []byte(`{"count":3}`)}, "observations.changed 3 observations"},
		{"unknown", events.Event{Name: "other", Data: []byte(`{"x":1}`)}, `other {"x":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, formatEvent(tt.ev), tt.want)
		})
	}
}
