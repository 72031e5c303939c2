// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"runtime"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
)

// Constant wire names.
var (
	True  = "true"
	False = "false"
	Clk   = "clk"
)

const (
	cstFalse = iota
	cstTrue
	cstClk
	cstCount
)

// Circuit is a runnable circuit simulation. Its clock is driven from the
// outside with SetClock and the circuit state is brought up to date with Eval.
type Circuit struct {
	s0    []bool // wire states frame #0
	s1    []bool // wire states frame #1
	cs    []Component
	wires map[string]int

	clk     bool
	prevClk bool
	rise    bool
	steps   uint64
	evals   uint64
	max     int // max steps per Eval

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used. With a single worker, components are updated by the caller's
// goroutine.
//
// Every wire connected to a part input must be driven by exactly one part
// output, or be one of the constant wires True, False or Clk.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
func NewCircuit(workers int, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	c := &Circuit{
		wires: map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk},
	}
	drivers := make(map[string]string)
	used := make(map[string]string)
	var ups []Component

	for pnum, p := range parts {
		if p.PartSpec == nil || p.Mount == nil {
			return nil, errors.Errorf("part #%d: missing mount function", pnum)
		}
		s := newSocket(c)
		for _, in := range p.Inputs {
			w, ok := p.Conns[in]
			if !ok {
				w = False
			}
			s.m[in] = c.wire(w)
			if _, ok := used[w]; !ok {
				used[w] = p.Name + "." + in
			}
		}
		for _, out := range p.Outputs {
			w, ok := p.Conns[out]
			if !ok {
				// unconnected output, give it a private wire
				w = "__" + p.Name + "#" + strconv.Itoa(pnum) + "." + out
			}
			if w == True || w == False || w == Clk {
				return nil, errors.Errorf("%s.%s: output connected to constant wire %q", p.Name, out, w)
			}
			if d, ok := drivers[w]; ok {
				return nil, errors.Errorf("wire %q driven by both %s and %s.%s", w, d, p.Name, out)
			}
			drivers[w] = p.Name + "." + out
			s.m[out] = c.wire(w)
		}
		ups = append(ups, p.Mount(s)...)
	}

	var undriven []string
	for w, by := range used {
		if _, ok := drivers[w]; !ok && c.wires[w] >= cstCount {
			undriven = append(undriven, "wire "+w+" used by "+by+" is not driven")
		}
	}
	if len(undriven) > 0 {
		sort.Strings(undriven)
		return nil, errors.New(undriven[0])
	}

	c.cs = ups
	c.s0 = make([]bool, len(c.wires))
	c.s1 = make([]bool, len(c.wires))
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true
	c.max = len(ups) + 2

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	if workers == 1 {
		return c, nil
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, ups[:size], wc)
		ups = ups[size:]
	}

	return c, nil
}

func (c *Circuit) wire(name string) int {
	n, ok := c.wires[name]
	if !ok {
		n = len(c.wires)
		c.wires[name] = n
	}
	return n
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// Steps returns the value of the step counter.
func (c *Circuit) Steps() uint64 {
	return c.steps
}

// Evals returns the number of calls to Eval.
func (c *Circuit) Evals() uint64 {
	return c.evals
}

// Size returns the component count in the circuit.
func (c *Circuit) Size() int { return len(c.cs) }

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Wire returns the pin number of the named wire.
func (c *Circuit) Wire(name string) (int, bool) {
	n, ok := c.wires[name]
	return n, ok
}

// Bus returns the pin numbers of the named bus, least significant bit first.
func (c *Circuit) Bus(name string) []int {
	var out []int
	for i := 0; ; i++ {
		n, ok := c.wires[BusPinName(name, i)]
		if !ok {
			return out
		}
		out = append(out, n)
	}
}

// Clock returns the current clock level.
func (c *Circuit) Clock() bool { return c.clk }

// SetClock sets the clock level. It takes effect on the next call to Eval.
func (c *Circuit) SetClock(high bool) { c.clk = high }

// Rising returns true if the clock went from low to high since the previous
// Eval. It is only set during the first step of an Eval, which is when
// clocked components must latch their inputs.
func (c *Circuit) Rising() bool { return c.rise }

// Step advances the simulation by one step.
func (c *Circuit) Step() {
	if len(c.wc) == 0 {
		for _, f := range c.cs {
			f(c)
		}
	} else {
		c.wg.Add(len(c.wc))
		for _, wc := range c.wc {
			wc <- struct{}{}
		}
		c.wg.Wait()
	}
	c.steps++
	c.s0, c.s1 = c.s1, c.s0
}

// Eval propagates the current inputs and clock level through the circuit. It
// runs simulation steps until wire states settle or the step count exceeds
// the component count, whichever comes first.
func (c *Circuit) Eval() {
	c.rise = c.clk && !c.prevClk
	c.prevClk = c.clk
	c.s0[cstClk] = c.clk
	c.s1[cstClk] = c.clk
	for i := 0; i < c.max; i++ {
		c.Step()
		c.rise = false
		if c.settled() {
			break
		}
	}
	c.evals++
}

func (c *Circuit) settled() bool {
	for i := range c.s0 {
		if c.s0[i] != c.s1[i] {
			return false
		}
	}
	return true
}
