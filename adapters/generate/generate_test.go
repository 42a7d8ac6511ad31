package generate

import (
	"context"
	"math"
	"math/rand/v2"
	"testing"

	"gomonte/domain/dataset"
	"gomonte/domain/grid"
	"gomonte/internal/errors"
)

func testRow(params map[string]any) grid.ConditionRow {
	return grid.ConditionRow{Index: 0, Params: params}
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sd(xs []float64) float64 {
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func corr(x, y []float64) float64 {
	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
		syy += (y[i] - my) * (y[i] - my)
	}
	return sxy / math.Sqrt(sxx*syy)
}

func TestRegistry(t *testing.T) {
	for _, name := range []string{
		"two-group", "truncated", "careless-mixture", "pre-post",
		"selected-two-group", "selected-bivariate", "path-model",
	} {
		gen, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if gen.Name() != name {
			t.Errorf("Lookup(%q).Name() = %q", name, gen.Name())
		}
	}

	if _, err := Lookup("no-such-generator"); !errors.HasCode(err, errors.CodeConfig) {
		t.Errorf("unknown generator should yield a config error, got %v", err)
	}
}

func TestTwoGroup_Shapes(t *testing.T) {
	ds, err := TwoGroup{}.Generate(context.Background(), testRow(map[string]any{
		"n": 5000, "mean1": 0.0, "mean2": 0.5, "sd1": 1.0, "sd2": 2.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 10000 {
		t.Fatalf("Len() = %d, want 10000", ds.Len())
	}

	ctrl := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	treat := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)
	if len(ctrl) != 5000 || len(treat) != 5000 {
		t.Fatalf("group sizes %d/%d, want 5000 each", len(ctrl), len(treat))
	}

	if m := mean(ctrl); math.Abs(m) > 0.1 {
		t.Errorf("control mean %v, want ~0", m)
	}
	if m := mean(treat); math.Abs(m-0.5) > 0.15 {
		t.Errorf("treatment mean %v, want ~0.5", m)
	}
	if s := sd(treat); math.Abs(s-2.0) > 0.15 {
		t.Errorf("treatment sd %v, want ~2", s)
	}
}

func TestTwoGroup_SkewDirection(t *testing.T) {
	ds, err := TwoGroup{}.Generate(context.Background(), testRow(map[string]any{
		"n": 5000, "skew1": 8.0, "skew2": 0.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}

	// With shape +8 nearly all mass sits above the location parameter,
	// so the sample median exceeds the declared mean of 0.
	xs := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	below := 0
	for _, x := range xs {
		if x < 0 {
			below++
		}
	}
	if frac := float64(below) / float64(len(xs)); frac > 0.2 {
		t.Errorf("%v of skew-8 draws below location, want well under half", frac)
	}
}

func TestTwoGroup_Validation(t *testing.T) {
	cases := []map[string]any{
		{"sd1": 1.0},                // n missing
		{"n": 100, "sd1": 0.0},      // non-positive scale
		{"n": 100, "sd2": -1.0},     // non-positive scale
		{"n": 100, "mean1": "zero"}, // wrong type
	}
	for i, params := range cases {
		if _, err := (TwoGroup{}).Generate(context.Background(), testRow(params), testRand()); err == nil {
			t.Errorf("case %d: expected error for params %v", i, params)
		}
	}
}

func TestTruncated_Bounds(t *testing.T) {
	ds, err := Truncated{}.Generate(context.Background(), testRow(map[string]any{
		"n": 2000, "mean": 0.0, "sd": 1.0, "lower": -1.0, "upper": 1.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range ds.Column(dataset.FieldScore) {
		if x < -1 || x > 1 {
			t.Fatalf("draw %v escaped [-1, 1]", x)
		}
	}
}

func TestTruncated_EmptyWindow(t *testing.T) {
	_, err := Truncated{}.Generate(context.Background(), testRow(map[string]any{
		"n": 10, "lower": 2.0, "upper": 1.0,
	}), testRand())
	if !errors.HasCode(err, errors.CodeGeneration) {
		t.Errorf("inverted window should fail generation, got %v", err)
	}
}

func TestCarelessMixture_TagsAndAttenuation(t *testing.T) {
	gen := CarelessMixture{}

	clean, err := gen.Generate(context.Background(), testRow(map[string]any{
		"n": 4000, "rho": 0.5, "prop_careless": 0.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	if got := len(clean.TagColumn(dataset.TagCareless, dataset.FieldX)); got != 0 {
		t.Fatalf("prop_careless=0 produced %d careless rows", got)
	}

	mixed, err := gen.Generate(context.Background(), testRow(map[string]any{
		"n": 4000, "rho": 0.5, "prop_careless": 0.25, "min": 1.0, "max": 5.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	careless := mixed.TagColumn(dataset.TagCareless, dataset.FieldX)
	if got := len(careless); got != 1000 {
		t.Fatalf("careless count %d, want 1000", got)
	}
	for _, x := range careless {
		if x < 1 || x > 5 {
			t.Fatalf("careless draw %v outside response bounds", x)
		}
	}

	// Contamination should attenuate the observed correlation.
	rClean := corr(clean.Column(dataset.FieldX), clean.Column(dataset.FieldY))
	rMixed := corr(mixed.Column(dataset.FieldX), mixed.Column(dataset.FieldY))
	if rMixed >= rClean {
		t.Errorf("contaminated r = %v not below clean r = %v", rMixed, rClean)
	}
}

func TestPrePost_DeterministicGain(t *testing.T) {
	ds, err := PrePost{}.Generate(context.Background(), testRow(map[string]any{
		"n": 200, "gain": 0.3, "sd_gain": 0.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	pre := ds.Column(dataset.FieldPre)
	post := ds.Column(dataset.FieldPost)
	for i := range pre {
		if d := post[i] - pre[i]; math.Abs(d-0.3) > 1e-12 {
			t.Fatalf("observation %d gain %v, want exactly 0.3", i, d)
		}
	}
}

func TestSelectedTwoGroup_RestrictsRange(t *testing.T) {
	ds, err := SelectedTwoGroup{}.Generate(context.Background(), testRow(map[string]any{
		"n": 100, "pop_n": 5000, "mean2": 0.5, "lower": 0.0, "upper": 10.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	ctrl := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	treat := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)
	if len(ctrl) != 100 || len(treat) != 100 {
		t.Fatalf("group sizes %d/%d, want 100 each", len(ctrl), len(treat))
	}
	// At validity 1 the score is the screener plus the group shift, so
	// every survivor sits above the cut.
	for _, x := range append(append([]float64(nil), ctrl...), treat...) {
		if x < 0 {
			t.Fatalf("selected draw %v below cut point", x)
		}
	}
	// Selection shrinks the within-group spread well below 1.
	if s := sd(ctrl); s >= 0.9 {
		t.Errorf("restricted control sd %v, want < 0.9", s)
	}
}

func TestSelectedTwoGroup_ShiftSurvivesSelection(t *testing.T) {
	ds, err := SelectedTwoGroup{}.Generate(context.Background(), testRow(map[string]any{
		"n": 2000, "pop_n": 10000, "mean2": 0.5, "lower": 0.0, "validity": 0.8,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	ctrl := ds.GroupColumn(dataset.GroupControl, dataset.FieldScore)
	treat := ds.GroupColumn(dataset.GroupTreatment, dataset.FieldScore)

	// Filtering the screener, not the outcome, keeps the raw group
	// difference at its population value while the spread contracts.
	if diff := mean(treat) - mean(ctrl); math.Abs(diff-0.5) > 0.1 {
		t.Errorf("raw difference %v drifted from 0.5 under selection", diff)
	}
	if s := sd(ctrl); s >= 0.9 {
		t.Errorf("restricted control sd %v, want < 0.9", s)
	}
}

func TestSelectedTwoGroup_ValidityBounds(t *testing.T) {
	for _, v := range []float64{0.0, -0.3, 1.2} {
		if _, err := (SelectedTwoGroup{}).Generate(context.Background(), testRow(map[string]any{
			"n": 10, "validity": v,
		}), testRand()); !errors.HasCode(err, errors.CodeGeneration) {
			t.Errorf("validity %v should fail generation, got %v", v, err)
		}
	}
}

func TestSelectedTwoGroup_TooFewSurvivors(t *testing.T) {
	_, err := SelectedTwoGroup{}.Generate(context.Background(), testRow(map[string]any{
		"n": 100, "pop_n": 200, "lower": 5.0,
	}), testRand())
	if !errors.HasCode(err, errors.CodeGeneration) {
		t.Errorf("expected generation failure when survivors < n, got %v", err)
	}
}

func TestSelectedBivariate_AttenuatesCorrelation(t *testing.T) {
	full, err := SelectedBivariate{}.Generate(context.Background(), testRow(map[string]any{
		"pop_n": 8000, "rho": 0.6, "select_q": 0.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	selected, err := SelectedBivariate{}.Generate(context.Background(), testRow(map[string]any{
		"pop_n": 8000, "rho": 0.6, "select_q": 0.75,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}

	if full.Len() != 8000 {
		t.Fatalf("unselected Len() = %d, want 8000", full.Len())
	}
	if kept := selected.Len(); kept < 1500 || kept > 2500 {
		t.Fatalf("75%% cut kept %d of 8000, want ~2000", kept)
	}

	rFull := corr(full.Column(dataset.FieldX), full.Column(dataset.FieldY))
	rSel := corr(selected.Column(dataset.FieldX), selected.Column(dataset.FieldY))
	if rSel >= rFull {
		t.Errorf("restricted r = %v not below full-range r = %v", rSel, rFull)
	}
}

func TestPathModel_Structures(t *testing.T) {
	ctx := context.Background()

	med, err := PathModel{}.Generate(ctx, testRow(map[string]any{
		"n": 5000, "structure": "mediation", "a": 0.8, "b": 0.8,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	if r := corr(med.Column(dataset.FieldX), med.Column(dataset.FieldM)); r < 0.4 {
		t.Errorf("mediation x-m correlation %v, want clearly positive", r)
	}
	// With c = 0 the x -> y association flows entirely through m.
	if r := corr(med.Column(dataset.FieldX), med.Column(dataset.FieldY)); r < 0.2 {
		t.Errorf("mediation x-y correlation %v, want positive via the indirect path", r)
	}

	col, err := PathModel{}.Generate(ctx, testRow(map[string]any{
		"n": 5000, "structure": "collider", "a": 0.8, "b": 0.8, "c": 0.0,
	}), testRand())
	if err != nil {
		t.Fatal(err)
	}
	// Collider with c = 0: x and y are marginally independent.
	if r := corr(col.Column(dataset.FieldX), col.Column(dataset.FieldY)); math.Abs(r) > 0.08 {
		t.Errorf("collider x-y correlation %v, want ~0", r)
	}

	if _, err := (PathModel{}).Generate(ctx, testRow(map[string]any{
		"n": 100, "structure": "chain",
	}), testRand()); !errors.HasCode(err, errors.CodeGeneration) {
		t.Errorf("unknown structure should fail generation, got %v", err)
	}
}
