// internal/telemetry/layout.go
package telemetry

import (
	"github.com/pkg/errors"

	"github.com/tamzrod/motor-telemetry/internal/register"
)

// Encoding tells the decoder how to turn a raw value into a measurement.
type Encoding string

const (
	// Half is a binary16 pattern carried in an integer register.
	Half Encoding = "half"
	// Float is a Float32 register passed through unchanged.
	Float Encoding = "float"
	// Integer is a raw integer widened to float64.
	Integer Encoding = "int"
)

// MeasurementQuaternionMagnitude is the derived norm of the x/y/z components.
const MeasurementQuaternionMagnitude = "quaternion_magnitude"

// Binding names the measurement carried by one register.
type Binding struct {
	Name     string           `yaml:"name"`
	Address  register.Address `yaml:"address"`
	Encoding Encoding         `yaml:"encoding"`
}

// QuaternionChannels names the bindings holding the vector part.
type QuaternionChannels struct {
	X string `yaml:"x"`
	Y string `yaml:"y"`
	Z string `yaml:"z"`
}

// Names returns x, y, z.
func (q QuaternionChannels) Names() []string {
	return []string{q.X, q.Y, q.Z}
}

// Layout binds measurement names to registers.
// Base bindings are requested every cycle; the rest only when selected.
type Layout struct {
	Bindings   []Binding
	Quaternion *QuaternionChannels
	Base       []string

	byName map[string]Binding
}

// NewLayout checks the layout against the registry's wire types.
func NewLayout(reg *register.Registry, bindings []Binding, quat *QuaternionChannels, base []string) (*Layout, error) {
	l := &Layout{
		Bindings:   append([]Binding(nil), bindings...),
		Quaternion: quat,
		Base:       append([]string(nil), base...),
		byName:     make(map[string]Binding, len(bindings)),
	}

	for _, b := range bindings {
		if b.Name == "" {
			return nil, errors.Errorf("telemetry: binding for %s has no name", b.Address)
		}
		if b.Name == MeasurementQuaternionMagnitude {
			return nil, errors.Errorf("telemetry: binding name %q is reserved", b.Name)
		}
		if _, dup := l.byName[b.Name]; dup {
			return nil, errors.Errorf("telemetry: duplicate binding %q", b.Name)
		}

		t, ok := reg.Lookup(b.Address)
		if !ok {
			return nil, errors.Errorf("telemetry: binding %q: %s not in registry", b.Name, b.Address)
		}
		switch b.Encoding {
		case Half:
			if t != register.Int16 {
				return nil, errors.Errorf("telemetry: binding %q: half encoding needs int16, have %s", b.Name, t)
			}
		case Integer:
			if !t.IsInteger() {
				return nil, errors.Errorf("telemetry: binding %q: %s encoding needs an integer register, have %s", b.Name, b.Encoding, t)
			}
		case Float:
			if t != register.Float32 {
				return nil, errors.Errorf("telemetry: binding %q: float encoding needs f32, have %s", b.Name, t)
			}
		default:
			return nil, errors.Errorf("telemetry: binding %q: unknown encoding %q", b.Name, b.Encoding)
		}

		l.byName[b.Name] = b
	}

	if quat != nil {
		for _, n := range quat.Names() {
			b, ok := l.byName[n]
			if !ok {
				return nil, errors.Errorf("telemetry: quaternion channel %q not bound", n)
			}
			if b.Encoding != Half {
				return nil, errors.Errorf("telemetry: quaternion channel %q must use half encoding", n)
			}
		}
	}

	for _, n := range base {
		if _, ok := l.byName[n]; !ok {
			return nil, errors.Errorf("telemetry: base channel %q not bound", n)
		}
	}

	return l, nil
}

// Binding returns the named binding.
func (l *Layout) Binding(name string) (Binding, bool) {
	b, ok := l.byName[name]
	return b, ok
}

// Channels resolves measurement names to the channels that produce them,
// in first-seen order. quaternion_magnitude expands to the three quaternion channels.
func (l *Layout) Channels(measurements ...string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}

	for _, m := range measurements {
		if m == MeasurementQuaternionMagnitude {
			if l.Quaternion == nil {
				return nil, errors.Errorf("telemetry: %s needs quaternion channels", m)
			}
			for _, n := range l.Quaternion.Names() {
				add(n)
			}
			continue
		}
		if _, ok := l.byName[m]; !ok {
			return nil, errors.Errorf("telemetry: no channel produces %q", m)
		}
		add(m)
	}
	return out, nil
}

// Query builds base ∪ selected. No selection means every binding.
func (l *Layout) Query(reg *register.Registry, selected ...string) (register.Query, error) {
	names := selected
	if len(names) == 0 {
		names = make([]string, 0, len(l.Bindings))
		for _, b := range l.Bindings {
			names = append(names, b.Name)
		}
	}

	b := register.NewBuilder()
	for _, group := range [][]string{l.Base, names} {
		for _, n := range group {
			bind, ok := l.byName[n]
			if !ok {
				return register.Query{}, errors.Errorf("telemetry: unknown channel %q", n)
			}
			reqs, err := reg.Request(bind.Address)
			if err != nil {
				return register.Query{}, err
			}
			b.Add(reqs...)
		}
	}

	return b.Build()
}

// Component selects which quaternion axes to poll.
type Component string

const (
	ComponentAll Component = "all"
	ComponentX   Component = "x"
	ComponentY   Component = "y"
	ComponentZ   Component = "z"
)

// QuaternionSelection returns the channel names for one component choice.
func (l *Layout) QuaternionSelection(c Component) ([]string, error) {
	if l.Quaternion == nil {
		return nil, errors.New("telemetry: layout has no quaternion channels")
	}
	switch c {
	case ComponentAll, "":
		return l.Quaternion.Names(), nil
	case ComponentX:
		return []string{l.Quaternion.X}, nil
	case ComponentY:
		return []string{l.Quaternion.Y}, nil
	case ComponentZ:
		return []string{l.Quaternion.Z}, nil
	default:
		return nil, errors.Errorf("telemetry: unknown component %q", c)
	}
}
