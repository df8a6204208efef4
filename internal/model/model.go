// Package model defines the core data types for the one-dimensional
// cutting-stock optimizer: the required part list, the flattened demand,
// beam-level cutting patterns and the assembled cutting plan.
package model

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
)

// RequiredPart is one line of the cut list: a part length and how many
// pieces of that length are required.
type RequiredPart struct {
	Length   float64 `json:"length"`
	Quantity int     `json:"quantity"`
}

// LengthCount is one entry of the unique-length histogram.
type LengthCount struct {
	Length float64
	Count  int
}

// Histogram maps each distinct part length to its total required count.
// Entries keep the order in which lengths first appear in the cut list.
type Histogram []LengthCount

// Count returns the total count for the given length, or 0.
func (h Histogram) Count(length float64) int {
	for _, lc := range h {
		if lc.Length == length {
			return lc.Count
		}
	}
	return 0
}

// MarshalJSON renders the histogram as a JSON object keyed by length,
// preserving first-seen order. This is the shape the rendering layer
// consumes for its per-length demand table.
func (h Histogram) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lc := range h {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(FormatLength(lc.Length))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(lc.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatLength renders a length without trailing zeros (2000, not 2000.000000).
func FormatLength(l float64) string {
	return strconv.FormatFloat(l, 'f', -1, 64)
}

// Demand is the validated, normalized input to the optimizer: the raw stock
// length plus the flattened multiset of part-instance lengths.
type Demand struct {
	RawLength float64        `json:"raw_length"`
	Parts     []RequiredPart `json:"parts"`

	// Instances holds one entry per required piece, in cut-list order.
	Instances []float64 `json:"-"`
	// Lengths is the unique-length histogram in first-seen order.
	Lengths Histogram `json:"unique_element_lengths_and_count_dict"`
	// TotalLength is the sum of all part-instance lengths.
	TotalLength float64 `json:"all_elements_length"`
}

// NewDemand validates the raw input and builds the demand multiset.
// It fails fast, before any optimization work: non-positive lengths or
// quantities and an empty part list yield an *InvalidInputError; a part
// longer than the raw stock yields an *InfeasiblePartError naming the
// offending length.
func NewDemand(rawLength float64, parts []RequiredPart) (*Demand, error) {
	if rawLength <= 0 || math.IsNaN(rawLength) || math.IsInf(rawLength, 0) {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("raw stock length must be positive, got %v", rawLength)}
	}
	if len(parts) == 0 {
		return nil, &InvalidInputError{Reason: "part list is empty, nothing to optimize"}
	}

	d := &Demand{RawLength: rawLength, Parts: parts}
	for i, p := range parts {
		if p.Length <= 0 || math.IsNaN(p.Length) || math.IsInf(p.Length, 0) {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("part %d: length must be positive, got %v", i+1, p.Length)}
		}
		if p.Quantity < 1 {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("part %d: quantity must be at least 1, got %d", i+1, p.Quantity)}
		}
		if p.Length > rawLength {
			return nil, &InfeasiblePartError{Length: p.Length, RawLength: rawLength}
		}

		found := false
		for j := range d.Lengths {
			if d.Lengths[j].Length == p.Length {
				d.Lengths[j].Count += p.Quantity
				found = true
				break
			}
		}
		if !found {
			d.Lengths = append(d.Lengths, LengthCount{Length: p.Length, Count: p.Quantity})
		}

		for q := 0; q < p.Quantity; q++ {
			d.Instances = append(d.Instances, p.Length)
		}
		d.TotalLength += p.Length * float64(p.Quantity)
	}

	return d, nil
}

// InstanceCount returns the number of part instances (the genome length).
func (d *Demand) InstanceCount() int {
	return len(d.Instances)
}

// Pattern is one beam's contents: the ordered part lengths cut from it,
// the used length and the remaining waste.
type Pattern struct {
	ID      string    `json:"id"`
	Lengths []float64 `json:"lengths"`
	Used    float64   `json:"used"`
	Waste   float64   `json:"waste"`
}

// PatternID derives a stable identifier from the pattern contents. Two beams
// cut the same way share an ID, so identical patterns can be grouped for
// display, and repeated runs with the same seed produce identical reports.
func PatternID(lengths []float64) string {
	h := fnv.New64a()
	for _, l := range lengths {
		fmt.Fprintf(h, "%v;", l)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// CuttingPlan is the decoding of one genotype: an ordered sequence of
// patterns covering every part instance exactly once.
type CuttingPlan struct {
	RawLength float64   `json:"raw_length"`
	Patterns  []Pattern `json:"patterns"`
}

// BeamCount returns the number of beams the plan consumes.
func (p CuttingPlan) BeamCount() int {
	return len(p.Patterns)
}

// TotalWaste returns the summed waste across all beams.
func (p CuttingPlan) TotalWaste() float64 {
	var total float64
	for _, pat := range p.Patterns {
		total += pat.Waste
	}
	return total
}

// TotalPartsLength returns the summed length of all cut parts. For a valid
// plan this equals the demand's TotalLength.
func (p CuttingPlan) TotalPartsLength() float64 {
	var total float64
	for _, pat := range p.Patterns {
		total += pat.Used
	}
	return total
}

// Utilization returns the stock usage percentage:
// 100 * parts length / (beam count * raw length).
func (p CuttingPlan) Utilization() float64 {
	if len(p.Patterns) == 0 || p.RawLength == 0 {
		return 0
	}
	return 100 * p.TotalPartsLength() / (float64(p.BeamCount()) * p.RawLength)
}
