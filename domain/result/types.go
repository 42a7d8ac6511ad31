// Package result defines the fixed-shape record an analyzer produces for
// one condition row.
package result

// Canonical metric names used across analyzers so reductions can refer to
// them by name.
const (
	MetricEstimate = "estimate"    // raw point estimate (mean difference, correlation, slope)
	MetricEffect   = "effect_size" // standardized effect (Cohen's d, r)
	MetricPValue   = "p_value"
	MetricCILower  = "ci_lower"
	MetricCIUpper  = "ci_upper"
	MetricStat     = "statistic" // test statistic (t, W, D, U, z)
	MetricDF       = "df"
	MetricN        = "n"
)

// Path tags which branch a conditional analyzer took for a dataset. It is
// decided once per dataset and carried with the record, never recomputed
// downstream.
type Path string

const (
	PathNone          Path = ""
	PathParametric    Path = "parametric"
	PathNonparametric Path = "nonparametric"
)

// Record maps metric names to values for one analyzed dataset. Records
// are write-once: analyzers build them, everything downstream only reads.
type Record struct {
	Metrics map[string]float64
	Path    Path
}

// New creates an empty record.
func New() Record {
	return Record{Metrics: make(map[string]float64)}
}

// Set stores a metric and returns the record for chaining during
// construction.
func (r Record) Set(name string, value float64) Record {
	r.Metrics[name] = value
	return r
}

// Get fetches a metric by name.
func (r Record) Get(name string) (float64, bool) {
	v, ok := r.Metrics[name]
	return v, ok
}

// Names returns the metric names present in the record.
func (r Record) Names() []string {
	names := make([]string, 0, len(r.Metrics))
	for name := range r.Metrics {
		names = append(names, name)
	}
	return names
}
