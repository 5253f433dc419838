package thermistor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceObservations() []Observation {
	return []Observation{
		{Resistance: 25000, Temperature: 5},
		{Resistance: 10000, Temperature: 25},
		{Resistance: 4000, Temperature: 45},
	}
}

func TestFitSteinhartHart_Reference(t *testing.T) {
	sh, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)

	assert.InEpsilon(t, 2.1085081731127115e-3, sh.A, 1e-6)
	assert.InEpsilon(t, 7.979204726779864e-5, sh.B, 1e-6)
	assert.InEpsilon(t, 6.53507631464945e-7, sh.C, 1e-6)

	again, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)
	assert.Equal(t, sh, again, "fit must be deterministic")

	tc, err := sh.Temperature(10000)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, tc, 1e-6)
}

func TestSteinhartHart_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
	}{
		{name: "reference", obs: referenceObservations()},
		{
			name: "100k hotend",
			obs: []Observation{
				{Resistance: 100000, Temperature: 25},
				{Resistance: 1641.9, Temperature: 150},
				{Resistance: 226.15, Temperature: 250},
			},
		},
		{
			name: "10k datasheet",
			obs: []Observation{
				{Resistance: 32650, Temperature: 0},
				{Resistance: 10000, Temperature: 25},
				{Resistance: 3602, Temperature: 50},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh, err := FitSteinhartHart(tt.obs)
			require.NoError(t, err)
			for _, o := range tt.obs {
				tc, err := sh.Temperature(o.Resistance)
				require.NoError(t, err)
				assert.InDelta(t, o.Temperature, tc, 1e-6)

				r, err := sh.Resistance(tc)
				require.NoError(t, err)
				assert.InEpsilon(t, o.Resistance, r, 1e-6)
			}
		})
	}
}

func TestFitSteinhartHart_InputCount(t *testing.T) {
	obs := referenceObservations()
	tests := []struct {
		name string
		obs  []Observation
	}{
		{name: "none", obs: nil},
		{name: "two", obs: obs[:2]},
		{name: "four", obs: append(append([]Observation{}, obs...), Observation{Resistance: 2000, Temperature: 60})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitSteinhartHart(tt.obs)
			assert.ErrorIs(t, err, ErrInvalidInputCount)
		})
	}
}

func TestFitSteinhartHart_InvalidObservation(t *testing.T) {
	for _, r := range []float64{0, -10000, math.NaN(), math.Inf(1)} {
		obs := referenceObservations()
		obs[1].Resistance = r
		_, err := FitSteinhartHart(obs)
		assert.ErrorIs(t, err, ErrInvalidObservation, "resistance %v", r)
	}

	for _, tc := range []float64{math.NaN(), -273.15, -300} {
		obs := referenceObservations()
		obs[2].Temperature = tc
		_, err := FitSteinhartHart(obs)
		assert.ErrorIs(t, err, ErrInvalidObservation, "T=%v", tc)
	}
}

func TestFitSteinhartHart_SingularFallsBackToLeastSquares(t *testing.T) {
	// Identical resistances make every row of the system the same, so only
	// the least-squares fallback can answer. It reproduces the mean 1/T.
	obs := []Observation{
		{Resistance: 10000, Temperature: 5},
		{Resistance: 10000, Temperature: 25},
		{Resistance: 10000, Temperature: 45},
	}
	sh, err := FitSteinhartHart(obs)
	require.NoError(t, err)
	require.NoError(t, sh.Validate())

	tc, err := sh.Temperature(10000)
	require.NoError(t, err)
	assert.InDelta(t, 24.104252064039997, tc, 1e-6)
}

func TestSteinhartHart_Temperature_NonPhysical(t *testing.T) {
	sh, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)

	_, err = sh.Temperature(1e-30)
	assert.ErrorIs(t, err, ErrNonPhysicalResult)

	_, err = SteinhartHart{A: -1}.Temperature(10000)
	assert.ErrorIs(t, err, ErrNonPhysicalResult)

	_, err = SteinhartHart{A: 0}.Temperature(1)
	assert.ErrorIs(t, err, ErrNonPhysicalResult)
}

func TestSteinhartHart_Temperature_InvalidResistance(t *testing.T) {
	sh, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)
	for _, r := range []float64{0, -1, math.NaN()} {
		_, err := sh.Temperature(r)
		assert.ErrorIs(t, err, ErrInvalidObservation)
	}
}

func TestSteinhartHart_Resistance(t *testing.T) {
	sh, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)

	tests := []struct {
		tempC float64
		want  float64
	}{
		{tempC: -40, want: 209990.84709258442},
		{tempC: 0, want: 31482.146341069114},
		{tempC: 25, want: 10000},
		{tempC: 60, want: 1996.6334141410703},
		{tempC: 100, want: 289.69801286380505},
		{tempC: 150, want: 19.616136943431556},
	}
	for _, tt := range tests {
		r, err := sh.Resistance(tt.tempC)
		require.NoError(t, err)
		assert.InEpsilon(t, tt.want, r, 1e-6, "T=%g", tt.tempC)
	}
}

func TestSteinhartHart_Resistance_Floor(t *testing.T) {
	tests := []struct {
		name string
		sh   SteinhartHart
	}{
		{name: "zero slope", sh: SteinhartHart{A: 1}},
		{name: "negative slope", sh: SteinhartHart{A: 0.01, B: -1e-3}},
		{name: "diverging", sh: SteinhartHart{A: 1e3, B: 1e-12, C: -1e-12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := tt.sh.Resistance(25)
			require.NoError(t, err)
			assert.False(t, math.IsNaN(r))
			assert.GreaterOrEqual(t, r, MinResistance)
		})
	}
}

func TestSteinhartHart_Resistance_InvalidTemperature(t *testing.T) {
	sh, err := FitSteinhartHart(referenceObservations())
	require.NoError(t, err)
	for _, tc := range []float64{math.NaN(), math.Inf(-1), -273.15, -300} {
		_, err := sh.Resistance(tc)
		assert.ErrorIs(t, err, ErrInvalidObservation, "T=%v", tc)
	}
}
