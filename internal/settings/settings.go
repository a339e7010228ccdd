// Package settings carries the process-wide display and commission settings
// as an immutable value passed into each computation.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/costeo/internal/pricing"
)

const (
	DefaultCurrency        = "€"
	DefaultDecimals        = 2
	DefaultGlovoCommission = 30.0
	maxDecimals            = 4
)

// ErrInvalid is returned by Validate for out-of-range settings.
var ErrInvalid = errors.New("invalid settings")

// Settings is read-only from the engine's point of view.
type Settings struct {
	Currency        string  `json:"currency" validate:"required,max=8"`
	Decimals        int     `json:"decimals" validate:"gte=0,lte=4"`
	GlovoCommission float64 `json:"glovoCommission" validate:"gte=0,lte=100"`
}

// Default returns the settings a fresh installation starts with.
func Default() Settings {
	return Settings{
		Currency:        DefaultCurrency,
		Decimals:        DefaultDecimals,
		GlovoCommission: DefaultGlovoCommission,
	}
}

// Validate checks the ranges the rest of the system relies on.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Currency) == "" {
		return fmt.Errorf("currency is required: %w", ErrInvalid)
	}
	if s.Decimals < 0 || s.Decimals > maxDecimals {
		return fmt.Errorf("decimals must be between 0 and %d: %w", maxDecimals, ErrInvalid)
	}
	if s.GlovoCommission < 0 || s.GlovoCommission > 100 {
		return fmt.Errorf("glovoCommission must be between 0 and 100: %w", ErrInvalid)
	}
	return nil
}

// Mode resolves a channel into a pricing mode using the configured
// marketplace commission.
func (s Settings) Mode(channel pricing.Channel) pricing.Mode {
	if channel == pricing.ChannelMarketplace {
		return pricing.Marketplace(s.GlovoCommission)
	}
	return pricing.Direct()
}

// Round rounds v half away from zero to the configured decimals.
func (s Settings) Round(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(int32(s.Decimals)).Float64()
	return f
}

// Format renders an amount with the configured decimals and currency suffix.
func (s Settings) Format(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(int32(s.Decimals)) + s.Currency
}
