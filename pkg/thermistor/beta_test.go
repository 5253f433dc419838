package thermistor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitBeta_Reference(t *testing.T) {
	b, err := FitBeta(referenceObservations())
	require.NoError(t, err)
	assert.InEpsilon(t, 3799.4188763578936, b.Beta, 1e-9)
	assert.InEpsilon(t, 9637.28596556779, b.R25, 1e-9)
}

func TestFitBeta_BetaOnlyFromFirstTwo(t *testing.T) {
	base, err := FitBeta(referenceObservations())
	require.NoError(t, err)

	obs := referenceObservations()
	obs[2].Resistance = 3000
	changed, err := FitBeta(obs)
	require.NoError(t, err)

	assert.Equal(t, base.Beta, changed.Beta)
	assert.NotEqual(t, base.R25, changed.R25)
	assert.InEpsilon(t, 8894.631140842508, changed.R25, 1e-9)

	// Extra observations move R25, never beta.
	obs = append(referenceObservations(), Observation{Resistance: 2000, Temperature: 60})
	extra, err := FitBeta(obs)
	require.NoError(t, err)
	assert.Equal(t, base.Beta, extra.Beta)
}

func TestFitBeta_TwoPoints(t *testing.T) {
	b, err := FitBeta(referenceObservations()[:2])
	require.NoError(t, err)
	// The second point sits at 25 °C, and the first is reproduced exactly by beta.
	assert.InEpsilon(t, 10000, b.R25, 1e-9)
}

func TestFitBeta_Errors(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
		want error
	}{
		{name: "empty", obs: nil, want: ErrInvalidInputCount},
		{name: "single", obs: referenceObservations()[:1], want: ErrInvalidInputCount},
		{
			name: "negative resistance",
			obs:  []Observation{{Resistance: 25000, Temperature: 5}, {Resistance: -1, Temperature: 25}},
			want: ErrInvalidObservation,
		},
		{
			name: "same temperature",
			obs:  []Observation{{Resistance: 25000, Temperature: 25}, {Resistance: 10000, Temperature: 25}},
			want: ErrSingularFit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FitBeta(tt.obs)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBeta_Evaluate(t *testing.T) {
	b, err := FitBeta(referenceObservations())
	require.NoError(t, err)

	r, err := b.Resistance(25)
	require.NoError(t, err)
	assert.InEpsilon(t, b.R25, r, 1e-12)

	r, err = b.Resistance(5)
	require.NoError(t, err)
	assert.InEpsilon(t, 24093.214913919473, r, 1e-9)

	tc, err := b.Temperature(10000)
	require.NoError(t, err)
	assert.InDelta(t, 24.138098872912792, tc, 1e-9)

	for _, want := range []float64{-20, 0, 37.5, 80} {
		r, err := b.Resistance(want)
		require.NoError(t, err)
		got, err := b.Temperature(r)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9)
	}
}

func TestBeta_Temperature_NonPhysical(t *testing.T) {
	b, err := FitBeta(referenceObservations())
	require.NoError(t, err)

	_, err = b.Temperature(0.01)
	assert.ErrorIs(t, err, ErrNonPhysicalResult)

	_, err = Beta{Beta: 0, R25: 10000}.Temperature(5000)
	assert.ErrorIs(t, err, ErrNonPhysicalResult)

	_, err = b.Temperature(0)
	assert.ErrorIs(t, err, ErrInvalidObservation)
}

func TestBeta_Resistance_InvalidTemperature(t *testing.T) {
	b := Beta{Beta: 3950, R25: 100000}
	_, err := b.Resistance(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidObservation)
	_, err = b.Resistance(-280)
	assert.ErrorIs(t, err, ErrInvalidObservation)
}
