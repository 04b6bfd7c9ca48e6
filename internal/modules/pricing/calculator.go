// Package pricing turns raw quote inputs into authoritative monetary totals.
// Pure arithmetic, no I/O: the quote service calls Compute once at publish
// time and persists the result as a frozen snapshot.
package pricing

import (
	"math"
	"strconv"
	"strings"

	"pipequote/internal/domain"
)

// GSTRate is fixed at the statutory 10%. Not configurable per request.
const GSTRate = 0.10

// MaxLineMeters caps a single relined run. Matches the builder UI slider.
const MaxLineMeters = 50

// SizeRate holds the ex-GST rates for one pipe diameter.
type SizeRate struct {
	PerMeter    float64
	PerJunction float64
}

// Table is the rate card a quote is priced against.
type Table struct {
	Rates          map[domain.PipeSize]SizeRate
	DiggingPerHour float64
	SetupCost      float64
}

// DefaultTable returns the production rate card. Figures are ex GST; the
// familiar round numbers appear once GST is added (409.09 → 450.00 inc).
func DefaultTable() Table {
	return Table{
		Rates: map[domain.PipeSize]SizeRate{
			domain.Pipe100: {PerMeter: 409.09, PerJunction: 681.82},
			domain.Pipe150: {PerMeter: 522.73, PerJunction: 818.18},
		},
		DiggingPerHour: 318.18,
		SetupCost:      2272.73,
	}
}

// Input is everything Compute needs. The caller is responsible for having
// validated identity fields; pricing only cares about the numbers.
type Input struct {
	Lines   []domain.PipeLine
	Digging domain.Digging
	Extras  []domain.ExtraItem
}

// epsilon is the machine epsilon for float64 (2^-52), the same nudge the
// historical snapshots were rounded with.
const epsilon = 2.220446049250313e-16

// Round2 rounds to cents with round-half-up semantics. The epsilon keeps
// values like 8649.985 (stored as 8649.98499999...) from rounding down.
func Round2(x float64) float64 {
	return math.Round((x+epsilon)*100) / 100
}

// ParseMoney converts a user-supplied amount like "$6,999.99" to a float.
// Anything unparsable resolves to 0 rather than an error; totals fields are
// forgiving by contract.
func ParseMoney(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}

// LineTotal prices one relined run. Setup cost is charged once per quote,
// never per line.
func (t Table) LineTotal(l domain.PipeLine) float64 {
	rate, ok := t.Rates[l.Size]
	if !ok {
		return 0
	}
	meters := clamp(l.Meters, 0, MaxLineMeters)
	junctions := l.Junctions
	if junctions < 0 {
		junctions = 0
	}
	return Round2(meters*rate.PerMeter + float64(junctions)*rate.PerJunction)
}

// Compute applies the pricing algorithm: per-line totals, digging, extras,
// setup, then GST on the subtotal. Every intermediate total is rounded to
// cents so stored snapshots match what the customer saw.
func (t Table) Compute(in Input) domain.Totals {
	var pipeWork float64
	for _, l := range in.Lines {
		pipeWork += t.LineTotal(l)
	}
	pipeWork = Round2(pipeWork)

	var digging float64
	if in.Digging.Enabled {
		hours := in.Digging.Hours
		if hours < 0 {
			hours = 0
		}
		digging = Round2(hours * t.DiggingPerHour)
	}

	var extras float64
	for _, e := range in.Extras {
		if e.Amount > 0 {
			extras += e.Amount
		}
	}
	extras = Round2(extras)

	setup := Round2(t.SetupCost)
	subtotal := Round2(setup + pipeWork + digging + extras)
	gst := Round2(subtotal * GSTRate)
	grand := Round2(subtotal + gst)

	return domain.Totals{
		SetupCost:     setup,
		PipeWorkTotal: pipeWork,
		DiggingTotal:  digging,
		ExtrasTotal:   extras,
		Subtotal:      subtotal,
		GST:           gst,
		GrandTotal:    grand,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
