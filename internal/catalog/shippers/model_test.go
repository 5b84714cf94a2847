package shippers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRateFor(t *testing.T) {
	s := Shipper{
		Name: "Speed Express",
		Rates: []Rate{
			{Governorate: "Giza", Price: 65, Discount: 15},
			{Governorate: "Cairo", Price: 50},
		},
	}

	rate, ok := s.RateFor("Giza")
	require.True(t, ok)
	require.Equal(t, 65.0, rate.Price)
	require.Equal(t, 15.0, rate.Discount)

	// Exact match only; spelling variants resolve at import time, not here.
	_, ok = s.RateFor("giza")
	require.False(t, ok)
	_, ok = s.RateFor("Alexandria")
	require.False(t, ok)
}
