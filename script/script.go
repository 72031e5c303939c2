// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package script builds controller input timelines from Lua scripts, for
// unattended runs of the bridge.
//
// Scripts drive a cursor counted in bridge loops (calls to Bridge.Step) and
// have access to the following functions:
//
//	press(player, button)    -- player is 1 or 2
//	release(player, button)  -- button is up, down, left, right or action
//	wait(loops)              -- move the cursor forward
//	snapshot(path)           -- save the frame at the cursor to a PNG file
//	loop()                   -- returns the cursor
//
// For example:
//
//	wait(50)
//	for i = 1, 4 do
//		press(1, "right")
//		wait(10)
//		release(1, "right")
//		snapshot("right" .. i .. ".png")
//	end
package script

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/db47h/hwbridge/input"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
)

// Event is a scheduled action. Either Snapshot is set, or Player and Buttons
// are.
type Event struct {
	Loop     int
	Player   int           // 1 or 2
	Buttons  input.Buttons // player state from this loop on
	Snapshot string        // file name
}

// A Timeline is a list of events sorted by loop.
type Timeline struct {
	Name   string
	events []Event
	end    int
}

// Events returns all the events in the timeline.
func (t *Timeline) Events() []Event { return t.events }

// End returns the loop reached by the script cursor when it ended.
func (t *Timeline) End() int { return t.end }

// At returns the events for the given loop, in script order.
func (t *Timeline) At(loop int) []Event {
	i := sort.Search(len(t.events), func(i int) bool { return t.events[i].Loop >= loop })
	j := i
	for j < len(t.events) && t.events[j].Loop == loop {
		j++
	}
	return t.events[i:j]
}

// Load runs the script in the named file.
func Load(name string) (*Timeline, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "load script")
	}
	defer f.Close()
	return run(name, f)
}

// Parse runs the Lua source src. name is used in error messages.
func Parse(name, src string) (*Timeline, error) {
	return run(name, strings.NewReader(src))
}

type builder struct {
	t       *Timeline
	loop    int
	players [2]input.Buttons
}

func run(name string, r io.Reader) (*Timeline, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	for _, lib := range []struct {
		n string
		f lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.f), NRet: 0, Protect: true}, lua.LString(lib.n)); err != nil {
			return nil, errors.Wrap(err, "open lua library")
		}
	}

	b := &builder{t: &Timeline{Name: name}}
	for n, f := range map[string]lua.LGFunction{
		"press":    b.button(true),
		"release":  b.button(false),
		"wait":     b.wait,
		"snapshot": b.snapshot,
		"loop":     b.cursor,
	} {
		L.SetGlobal(n, L.NewFunction(f))
	}

	fn, err := L.Load(r, name)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	L.Push(fn)
	if err = L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, errors.Wrap(err, name)
	}
	b.t.end = b.loop
	return b.t, nil
}

func (b *builder) button(pressed bool) lua.LGFunction {
	return func(L *lua.LState) int {
		p := L.CheckInt(1)
		if p != 1 && p != 2 {
			L.ArgError(1, "player must be 1 or 2")
			return 0
		}
		f, err := input.Parse(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		st := &b.players[p-1]
		*st = st.With(f, pressed)
		b.t.events = append(b.t.events, Event{Loop: b.loop, Player: p, Buttons: *st})
		return 0
	}
}

func (b *builder) wait(L *lua.LState) int {
	n := L.OptInt(1, 1)
	if n < 0 {
		L.ArgError(1, "negative wait")
		return 0
	}
	b.loop += n
	return 0
}

func (b *builder) snapshot(L *lua.LState) int {
	p := L.CheckString(1)
	if p == "" {
		L.ArgError(1, "empty file name")
		return 0
	}
	b.t.events = append(b.t.events, Event{Loop: b.loop, Snapshot: p})
	return 0
}

func (b *builder) cursor(L *lua.LState) int {
	L.Push(lua.LNumber(b.loop))
	return 1
}
