package types

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMetricGroupOrder(t *testing.T) {
	var g Metric
	g.Set("zeta", Leaf(1))
	g.Set("alpha", Leaf(2))
	g.Set("zeta", Leaf(3))

	fields := g.Fields()
	if len(fields) != 2 {
		t.Fatalf("Expected 2 fields, got %d", len(fields))
	}
	if fields[0].Name != "zeta" || fields[1].Name != "alpha" {
		t.Errorf("Expected insertion order [zeta alpha], got [%s %s]", fields[0].Name, fields[1].Name)
	}
	if v, _ := fields[0].Value.Float(); v != 3 {
		t.Errorf("Expected replaced value 3, got %v", v)
	}
}

func TestMetricJSON(t *testing.T) {
	m := Group(
		F("1MB", Group(
			F("throughput_mbps_mean", Leaf(12.5)),
			F("bytes", Count(1048576)),
		)),
		F("unit", Text("seconds")),
	)

	b, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"1MB":{"throughput_mbps_mean":12.5,"bytes":1048576},"unit":"seconds"}`
	if got := string(b); got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}

	var back Metric
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	v, ok := back.Lookup("1MB", "bytes")
	if !ok || !v.Integral() {
		t.Fatalf("Expected integral 1MB/bytes, got %v (%v)", v, ok)
	}
	if unit, _ := back.Get("unit"); unit.Kind() != TextKind {
		t.Errorf("Expected unit to decode as text, got kind %v", unit.Kind())
	}
}

func TestMetricUnmarshalRejectsArrays(t *testing.T) {
	var m Metric
	if err := json.Unmarshal([]byte(`{"a":[1,2]}`), &m); err == nil {
		t.Error("Expected an error for array values")
	}
}

func TestMetricLeaves(t *testing.T) {
	m := Group(
		F("echo", Group(F("mean_ms", Leaf(1)), F("note", Text("x")))),
		F("runs", Count(3)),
	)
	var paths []string
	m.Leaves(func(path []string, v Metric) {
		paths = append(paths, strings.Join(path, "/"))
	})
	if got, want := strings.Join(paths, ","), "echo/mean_ms,runs"; got != want {
		t.Errorf("Expected leaves %s, got %s", want, got)
	}
}

func TestMetricString(t *testing.T) {
	if got, want := Leaf(1.23456).String(), "1.235"; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
	if got, want := Count(7).String(), "7"; got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestMetricJSONWholeFloat(t *testing.T) {
	b, err := json.Marshal(Group(F("mean", Leaf(3))))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"mean":3.0}`; got != want {
		t.Fatalf("Expected %s, got %s", want, got)
	}
	var m Metric
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if v, _ := m.Get("mean"); v.Integral() || v.String() != "3.000" {
		t.Errorf("Expected a float leaf, got %v", v)
	}
}
