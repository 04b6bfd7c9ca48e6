package quote

import (
	"encoding/json"
	"strconv"
	"strings"

	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
)

// The quote builder posts loosely-typed JSON: numbers arrive as numbers or
// as strings with currency noise ("$6,999.99"), ids sometimes as bare
// numbers. The flex types absorb that at the boundary so everything past
// the DTO layer is fully typed.

// FlexString accepts a JSON string or number and normalizes to a trimmed string.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(strings.TrimSpace(s))
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	// null / objects / arrays resolve to empty, per the forgiving contract
	*f = ""
	return nil
}

// FlexFloat accepts a JSON number or a money-ish string. Unparsable values
// resolve to 0, never an error.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexFloat(pricing.ParseMoney(s))
		return nil
	}
	*f = 0
	return nil
}

// FlexBool accepts true/false, "true"/"false", or 0/1.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexBool(strings.EqualFold(s, "true") || s == "1")
		return nil
	}
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = n != 0
		return nil
	}
	*f = false
	return nil
}

type PipeLineInput struct {
	Size      FlexString `json:"size"`
	Meters    FlexFloat  `json:"meters"`
	Junctions FlexFloat  `json:"junctions"`
}

type ExtraInput struct {
	Note   FlexString `json:"note"`
	Amount FlexFloat  `json:"amount"`
}

type DiggingInput struct {
	Enabled FlexBool  `json:"enabled"`
	Hours   FlexFloat `json:"hours"`
}

// QuotePayload is the normalized quote submission.
type QuotePayload struct {
	JobNumber       FlexString `json:"job_number"`
	CustomerName    FlexString `json:"customer_name"`
	CustomerEmail   FlexString `json:"customer_email"`
	CustomerPhone   FlexString `json:"customer_phone"`
	CustomerAddress FlexString `json:"customer_address"`
	JobAddress      FlexString `json:"job_address"`
	ScopeOfWorks    FlexString `json:"scope_of_works"`
	TechnicianName  FlexString `json:"technician_name"`

	Lines   []PipeLineInput `json:"lines"`
	Digging DiggingInput    `json:"digging"`
	Extras  []ExtraInput    `json:"extras"`
}

// requiredFields is what the validator checks after trimming. Only identity
// fields are strict; every numeric field defaults instead of failing.
type requiredFields struct {
	JobNumber    string `validate:"required"`
	CustomerName string `validate:"required"`
}

func (p *QuotePayload) pricingInput() pricing.Input {
	lines := make([]domain.PipeLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, domain.PipeLine{
			Size:      domain.PipeSize(l.Size),
			Meters:    float64(l.Meters),
			Junctions: int(l.Junctions),
		})
	}
	extras := make([]domain.ExtraItem, 0, len(p.Extras))
	for _, e := range p.Extras {
		extras = append(extras, domain.ExtraItem{Note: string(e.Note), Amount: float64(e.Amount)})
	}
	return pricing.Input{
		Lines:   lines,
		Digging: domain.Digging{Enabled: bool(p.Digging.Enabled), Hours: float64(p.Digging.Hours)},
		Extras:  extras,
	}
}

type GenerateResponse struct {
	PublicID  string `json:"public_id"`
	PublicURL string `json:"publicUrl"`
}
