package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthState_SlotMapping(t *testing.T) {
	assert.Equal(t, 0, Susceptible.slot())
	assert.Equal(t, 1, Infected.slot())
	assert.Equal(t, 2, Recovered.slot())
	assert.Panics(t, func() { HealthState(99).slot() })
}

func TestHealthState_ParseRoundTrip(t *testing.T) {
	for _, state := range AllHealthStates {
		parsed, err := ParseHealthState(state.String())
		assert.NoError(t, err)
		assert.Equal(t, state, parsed)
	}

	_, err := ParseHealthState("zombie")
	assert.Error(t, err)
}

func TestCounts_Total(t *testing.T) {
	c := Counts{Susceptible: 3, Infected: 2, Recovered: 5}
	assert.Equal(t, 10, c.Total())
}
