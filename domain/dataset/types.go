// Package dataset holds the transient synthetic datasets produced by the
// generators and consumed by the analyzers. A dataset lives for exactly
// one condition row.
package dataset

// Canonical measure names shared between generators and analyzers.
const (
	FieldScore = "score"
	FieldPre   = "pre"
	FieldPost  = "post"
	FieldX     = "x"
	FieldM     = "m"
	FieldY     = "y"
)

// Canonical group labels for two-group designs.
const (
	GroupControl   = "control"
	GroupTreatment = "treatment"
)

// Subpopulation tags for mixture generators.
const (
	TagCareful  = "careful"
	TagCareless = "careless"
)

// Observation is one simulated participant: a group/condition label, an
// optional subpopulation tag, and one or more named numeric measures.
type Observation struct {
	Group  string
	Tag    string
	Values map[string]float64
}

// Dataset is an ordered collection of observations generated under one
// condition row. It is never mutated after generation.
type Dataset struct {
	Rows []Observation
}

// Len returns the number of observations.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// Column extracts a named measure across all observations, preserving
// order. Observations missing the measure are skipped.
func (d Dataset) Column(name string) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if v, ok := row.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

// GroupColumn extracts a named measure for one group, preserving order.
func (d Dataset) GroupColumn(group, name string) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if row.Group != group {
			continue
		}
		if v, ok := row.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

// TagColumn extracts a named measure for one subpopulation tag.
func (d Dataset) TagColumn(tag, name string) []float64 {
	out := make([]float64, 0, len(d.Rows))
	for _, row := range d.Rows {
		if row.Tag != tag {
			continue
		}
		if v, ok := row.Values[name]; ok {
			out = append(out, v)
		}
	}
	return out
}

// Groups returns the distinct group labels in first-seen order.
func (d Dataset) Groups() []string {
	var groups []string
	seen := make(map[string]bool)
	for _, row := range d.Rows {
		if !seen[row.Group] {
			seen[row.Group] = true
			groups = append(groups, row.Group)
		}
	}
	return groups
}
