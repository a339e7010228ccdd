package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/costeo/internal/pricing"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRanges(t *testing.T) {
	s := Default()
	s.GlovoCommission = 120
	require.ErrorIs(t, s.Validate(), ErrInvalid)

	s = Default()
	s.Decimals = -1
	require.ErrorIs(t, s.Validate(), ErrInvalid)

	s = Default()
	s.Currency = " "
	require.ErrorIs(t, s.Validate(), ErrInvalid)
}

func TestModeUsesCommission(t *testing.T) {
	s := Settings{Currency: "€", Decimals: 2, GlovoCommission: 35}

	assert.Equal(t, pricing.Marketplace(35), s.Mode(pricing.ChannelMarketplace))
	assert.Equal(t, pricing.Direct(), s.Mode(pricing.ChannelDirect))
}

func TestFormat(t *testing.T) {
	s := Settings{Currency: "€", Decimals: 2}
	assert.Equal(t, "3.46€", s.Format(3.456))
	assert.Equal(t, "-1.50€", s.Format(-1.5))

	s.Decimals = 0
	s.Currency = "$"
	assert.Equal(t, "12$", s.Format(12.4))
	assert.InDelta(t, 12, s.Round(12.4), 1e-9)
}
