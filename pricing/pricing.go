package pricing

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "USD"

var ErrInvalidComponent = errors.New("invalid price component")

// zero-decimal currencies; everything else uses 2 minor digits
var minorUnits = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
}

// Breakdown is the price of an offer split into named components.
// Total is derived and never accepted from callers.
type Breakdown struct {
	Components map[string]float64 `json:"components"`
	Currency   string             `json:"currency"`
	Total      float64            `json:"total"`
}

// MinorUnits returns the number of decimals used by the currency.
func MinorUnits(currency string) int32 {
	if n, ok := minorUnits[strings.ToUpper(strings.TrimSpace(currency))]; ok {
		return n
	}
	return 2
}

// ComputeTotal sums the components and rounds to the currency's minor unit.
// Missing components simply do not contribute.
func ComputeTotal(components map[string]float64, currency string) (float64, error) {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	// fixed order so the decimal sum is independent of map iteration
	sort.Strings(names)

	sum := decimal.Zero
	for _, name := range names {
		v := components[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %s is not a number", ErrInvalidComponent, name)
		}
		if v < 0 {
			return 0, fmt.Errorf("%w: %s must not be negative", ErrInvalidComponent, name)
		}
		sum = sum.Add(decimal.NewFromFloat(v))
	}

	total, _ := sum.Round(MinorUnits(currency)).Float64()
	return total, nil
}

// Normalize returns a copy of b with every required component present,
// the currency upper-cased and Total recomputed.
func Normalize(b Breakdown, required ...string) (Breakdown, error) {
	out := Breakdown{
		Components: make(map[string]float64, len(b.Components)+len(required)),
		Currency:   strings.ToUpper(strings.TrimSpace(b.Currency)),
	}
	if out.Currency == "" {
		out.Currency = DefaultCurrency
	}
	for _, name := range required {
		out.Components[name] = 0
	}
	for name, v := range b.Components {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out.Components[name] = v
	}

	total, err := ComputeTotal(out.Components, out.Currency)
	if err != nil {
		return Breakdown{}, err
	}
	out.Total = total
	return out, nil
}

// Set updates one component and recomputes the total.
func (b *Breakdown) Set(name string, value float64) error {
	next := make(map[string]float64, len(b.Components)+1)
	for k, v := range b.Components {
		next[k] = v
	}
	next[name] = value

	total, err := ComputeTotal(next, b.Currency)
	if err != nil {
		return err
	}
	b.Components = next
	b.Total = total
	return nil
}
