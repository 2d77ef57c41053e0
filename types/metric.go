package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MetricKind tells which variant a Metric holds.
type MetricKind int

// Metric variants. The zero Metric is an empty group.
const (
	GroupKind MetricKind = iota
	LeafKind
	TextKind
)

// Metric is a metric value: a number (Leaf), a piece of text such as
// a unit or an unsupported-operation marker (Text), or an ordered
// mapping of names to further metrics (Group).
type Metric struct {
	kind     MetricKind
	num      float64
	integral bool
	text     string
	fields   []Field
}

// Field is one named entry of a group.
type Field struct {
	Name  string
	Value Metric
}

// F is shorthand for a Field literal.
func F(name string, value Metric) Field {
	return Field{Name: name, Value: value}
}

// Leaf returns a numeric metric.
func Leaf(v float64) Metric {
	return Metric{kind: LeafKind, num: v}
}

// Count returns a numeric metric that renders without decimals.
func Count(n int) Metric {
	return Metric{kind: LeafKind, num: float64(n), integral: true}
}

// Text returns a textual metric.
func Text(s string) Metric {
	return Metric{kind: TextKind, text: s}
}

// Group returns a group holding fields in the given order.
func Group(fields ...Field) Metric {
	g := Metric{kind: GroupKind}
	for _, f := range fields {
		g.Set(f.Name, f.Value)
	}
	return g
}

// Kind returns the variant held by m.
func (m Metric) Kind() MetricKind { return m.kind }

// Float returns the number held by a leaf.
func (m Metric) Float() (float64, bool) {
	return m.num, m.kind == LeafKind
}

// Integral reports whether a leaf holds a count.
func (m Metric) Integral() bool { return m.kind == LeafKind && m.integral }

// String returns the text of a Text metric or the formatted
// number of a leaf.
func (m Metric) String() string {
	switch m.kind {
	case TextKind:
		return m.text
	case LeafKind:
		if m.integral {
			return strconv.FormatInt(int64(m.num), 10)
		}
		return strconv.FormatFloat(m.num, 'f', 3, 64)
	}
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Fields returns the entries of a group in insertion order.
func (m Metric) Fields() []Field {
	if m.kind != GroupKind {
		return nil
	}
	return m.fields
}

// Len returns the number of entries in a group.
func (m Metric) Len() int { return len(m.Fields()) }

// Get returns the entry called name.
func (m Metric) Get(name string) (Metric, bool) {
	for _, f := range m.Fields() {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Metric{}, false
}

// Lookup follows a path of names through nested groups.
func (m Metric) Lookup(path ...string) (Metric, bool) {
	cur := m
	for _, name := range path {
		next, ok := cur.Get(name)
		if !ok {
			return Metric{}, false
		}
		cur = next
	}
	return cur, true
}

// Set stores value under name, replacing an existing entry in place
// or appending a new one. Calling Set on a non-group turns it into
// an empty group first.
func (m *Metric) Set(name string, value Metric) {
	if m.kind != GroupKind {
		*m = Metric{kind: GroupKind}
	}
	for i := range m.fields {
		if m.fields[i].Name == name {
			m.fields[i].Value = value
			return
		}
	}
	m.fields = append(m.fields, Field{Name: name, Value: value})
}

// Leaves calls fn for every numeric leaf reachable from m with the
// path of names leading to it.
func (m Metric) Leaves(fn func(path []string, v Metric)) {
	m.walk(nil, fn)
}

func (m Metric) walk(prefix []string, fn func([]string, Metric)) {
	switch m.kind {
	case LeafKind:
		fn(prefix, m)
	case GroupKind:
		for _, f := range m.fields {
			path := make([]string, len(prefix)+1)
			copy(path, prefix)
			path[len(prefix)] = f.Name
			f.Value.walk(path, fn)
		}
	}
}

// MarshalJSON encodes leaves as numbers, text as strings and groups as
// objects whose keys keep insertion order.
func (m Metric) MarshalJSON() ([]byte, error) {
	switch m.kind {
	case LeafKind:
		if math.IsNaN(m.num) || math.IsInf(m.num, 0) {
			return []byte("null"), nil
		}
		if m.integral {
			return []byte(strconv.FormatInt(int64(m.num), 10)), nil
		}
		b, err := json.Marshal(m.num)
		if err != nil {
			return nil, err
		}
		// keep whole floats distinguishable from counts
		if !bytes.ContainsAny(b, ".eE") {
			b = append(b, ".0"...)
		}
		return b, nil
	case TextKind:
		return json.Marshal(m.text)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := f.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes what MarshalJSON produces. Integer literals
// decode as counts.
func (m *Metric) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeMetric(dec)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

func decodeMetric(dec *json.Decoder) (Metric, error) {
	tok, err := dec.Token()
	if err != nil {
		return Metric{}, err
	}

	switch t := tok.(type) {
	case json.Delim:
		if t != '{' {
			return Metric{}, errors.Errorf("metric: unexpected %q", t.String())
		}
		g := Metric{kind: GroupKind}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return Metric{}, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return Metric{}, errors.Errorf("metric: expected key, got %v", keyTok)
			}
			val, err := decodeMetric(dec)
			if err != nil {
				return Metric{}, errors.Wrapf(err, "metric %q", key)
			}
			g.fields = append(g.fields, Field{Name: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return Metric{}, err
		}
		return g, nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return Count(int(n)), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Metric{}, err
		}
		return Leaf(f), nil
	case string:
		return Text(t), nil
	case bool:
		return Text(strconv.FormatBool(t)), nil
	case nil:
		return Leaf(math.NaN()), nil
	}
	return Metric{}, errors.Errorf("metric: unexpected token %v", tok)
}
