// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Component is a component in a circuit that can Get and Set states.
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query the socket for
// assigned pin numbers and return closures around these pin numbers.
//
// For example, a Not gate can be defined like this:
//
//	not := &PartSpec{
//		Name:    "Not",
//		Inputs:  IO("in"),
//		Outputs: IO("out"),
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, !c.Get(in)) },
//			}
//		}}
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Use IO() to expand descriptions like "a, b, bus[2]".
	Inputs []string
	// Output pin names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn
}

// A Part wraps a part specification together with its connections to the
// wires of a circuit. Conns maps the part's pin names to wire names.
type Part struct {
	*PartSpec
	Conns map[string]string
}

// A NewPartFn is a function that takes a connection configuration and returns a
// new Part. See ParseConnections for the syntax of the connection
// configuration string.
type NewPartFn func(c string) Part

// Parts is a list of parts.
type Parts []Part

// NewPart is a NewPartFn that wraps p with the given connections into a Part.
// It panics if the connection string is invalid, refers to pins that p does
// not have or connects a whole output bus to a constant wire.
func (p *PartSpec) NewPart(connections string) Part {
	cs, err := ParseConnections(connections)
	if err != nil {
		panic(errors.Wrap(err, p.Name))
	}
	conns := make(map[string]string, len(cs))
	for k, v := range cs {
		switch {
		case p.has(k):
			conns[k] = v
		case p.hasBus(k):
			// whole bus mapping
			if (v == True || v == False) && !p.isInput(BusPinName(k, 0)) {
				panic(errors.Errorf("%s: output bus %q connected to constant wire %q", p.Name, k, v))
			}
			for i := 0; p.has(BusPinName(k, i)); i++ {
				conns[BusPinName(k, i)] = wireName(v, i)
			}
		default:
			panic(errors.Errorf("%s: no pin named %q", p.Name, k))
		}
	}
	return Part{p, conns}
}

// constant wires are not buses.
func wireName(v string, i int) string {
	if v == True || v == False {
		return v
	}
	return BusPinName(v, i)
}

func (p *PartSpec) has(pin string) bool {
	for _, n := range p.Inputs {
		if n == pin {
			return true
		}
	}
	for _, n := range p.Outputs {
		if n == pin {
			return true
		}
	}
	return false
}

func (p *PartSpec) hasBus(name string) bool {
	return p.has(BusPinName(name, 0))
}

func (p *PartSpec) isInput(pin string) bool {
	for _, n := range p.Inputs {
		if n == pin {
			return true
		}
	}
	return false
}

// BusPinName returns the name of the i-th pin of bus name.
func BusPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// IO expands a comma separated pin description into individual pin names. A
// bus of n pins is described as "name[n]". For example:
//
//	IO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
// IO panics if the description is malformed.
func IO(spec string) []string {
	var out []string
	for _, n := range strings.Split(spec, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		i := strings.IndexByte(n, '[')
		if i < 0 {
			if !validName(n) {
				panic(errors.Errorf("invalid pin name %q", n))
			}
			out = append(out, n)
			continue
		}
		name := n[:i]
		if !validName(name) || !strings.HasSuffix(n, "]") {
			panic(errors.Errorf("invalid bus specification %q", n))
		}
		size, err := strconv.Atoi(n[i+1 : len(n)-1])
		if err != nil || size < 1 {
			panic(errors.Errorf("invalid bus size in %q", n))
		}
		for b := 0; b < size; b++ {
			out = append(out, BusPinName(name, b))
		}
	}
	return out
}

func validName(n string) bool {
	if n == "" {
		return false
	}
	for i, r := range n {
		switch {
		case r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

// ParseConnections parses a connection configuration like "partPinX=wireY,
// ...", into a map of part pin names to wire names. Pin and wire names may
// be bus pins like "sx[3]".
//
// If a pin name refers to a whole bus (no index), each pin of that bus is
// connected to the same index of the wire bus: "out=sx" connects out[0] to
// sx[0], out[1] to sx[1] and so on.
func ParseConnections(c string) (map[string]string, error) {
	m := make(map[string]string)
	for _, conn := range strings.Split(c, ",") {
		conn = strings.TrimSpace(conn)
		if conn == "" {
			continue
		}
		kv := strings.Split(conn, "=")
		if len(kv) != 2 {
			return nil, errors.Errorf("invalid connection %q", conn)
		}
		k, v := strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])
		if !validPin(k) || !validPin(v) {
			return nil, errors.Errorf("invalid pin name in connection %q", conn)
		}
		if _, ok := m[k]; ok {
			return nil, errors.Errorf("pin %q connected more than once", k)
		}
		m[k] = v
	}
	return m, nil
}

func validPin(n string) bool {
	i := strings.IndexByte(n, '[')
	if i < 0 {
		return validName(n)
	}
	if !validName(n[:i]) || !strings.HasSuffix(n, "]") {
		return false
	}
	_, err := strconv.Atoi(n[i+1 : len(n)-1])
	return err == nil
}
