package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnitSystem(t *testing.T) {
	tests := map[string]UnitSystem{
		"metric":    UnitsMetric,
		" Celsius ": UnitsMetric,
		"F":         UnitsImperial,
		"imperial":  UnitsImperial,
		"kelvin":    UnitsStandard,
		"standard":  UnitsStandard,
	}
	for in, want := range tests {
		got, err := ParseUnitSystem(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseUnitSystem("rankine")
	assert.Error(t, err)
}

func TestUnitSystem_FromCelsius(t *testing.T) {
	assert.InDelta(t, 20.0, UnitsMetric.FromCelsius(20), 1e-9)
	assert.InDelta(t, 68.0, UnitsImperial.FromCelsius(20), 1e-9)
	assert.InDelta(t, 293.15, UnitsStandard.FromCelsius(20), 1e-9)
	assert.Equal(t, "°F", UnitsImperial.Symbol())
	assert.Equal(t, "K", UnitsStandard.Symbol())
}

func TestSettings_Validate(t *testing.T) {
	s := Settings{Location: "  Lima ", Units: "c"}
	require.NoError(t, s.Validate())
	assert.Equal(t, Settings{Location: "Lima", Units: UnitsMetric}, s)

	s = Settings{Location: "Lima"}
	require.NoError(t, s.Validate())
	assert.Equal(t, UnitsMetric, s.Units, "empty units default to metric")

	for _, bad := range []Settings{
		{Location: " "},
		{Location: "Lima", Units: "rankine"},
		{Location: "Lima", TimeZone: "Not/AZone"},
	} {
		assert.ErrorIs(t, bad.Validate(), ErrInvalidSettings)
	}
}

func TestSettings_Zone(t *testing.T) {
	f := ForecastData{Location: "Lima", UTCOffset: -5 * 3600}

	assert.Equal(t, time.Local, Settings{}.Zone(f))
	assert.Equal(t, time.UTC.String(), Settings{TimeZone: "UTC"}.Zone(f).String())

	zone := Settings{TimeZone: TimeZoneLocation}.Zone(f)
	_, offset := time.Unix(0, 0).In(zone).Zone()
	assert.Equal(t, -5*3600, offset)
	assert.Equal(t, "Lima", zone.String())
}
