package script_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/db47h/hwbridge/input"
	"github.com/db47h/hwbridge/script"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tl, err := script.Parse("test", `
		press(1, "right")
		press(2, "Bomb")
		wait(10)
		press(1, "up")
		snapshot("a.png")
		release(1, "right")
		wait()
		release(2, "action")
		for i = 1, 3 do
			wait(5)
			snapshot("s" .. i .. ".png")
		end
	`)
	require.NoError(t, err)
	require.Equal(t, 26, tl.End())
	require.Len(t, tl.Events(), 9)

	require.Equal(t, []script.Event{
		{Loop: 0, Player: 1, Buttons: input.Right},
		{Loop: 0, Player: 2, Buttons: input.Action},
	}, tl.At(0))
	require.Equal(t, []script.Event{
		{Loop: 10, Player: 1, Buttons: input.Right | input.Up},
		{Loop: 10, Snapshot: "a.png"},
		{Loop: 10, Player: 1, Buttons: input.Up},
	}, tl.At(10))
	require.Equal(t, []script.Event{{Loop: 11, Player: 2}}, tl.At(11))
	require.Equal(t, []script.Event{{Loop: 26, Snapshot: "s3.png"}}, tl.At(26))
	require.Empty(t, tl.At(5))
	require.Empty(t, tl.At(100))
}

func TestParse_loop(t *testing.T) {
	tl, err := script.Parse("loop", `
		wait(7)
		snapshot(string.format("%04d.png", loop()))
	`)
	require.NoError(t, err)
	require.Equal(t, []script.Event{{Loop: 7, Snapshot: "0007.png"}}, tl.At(7))
}

func TestParse_errors(t *testing.T) {
	for name, src := range map[string]string{
		"syntax":    `press(1, "up"`,
		"player":    `press(3, "up")`,
		"button":    `release(1, "jump")`,
		"wait":      `wait(-1)`,
		"snapshot":  `snapshot("")`,
		"lua error": `error("boom")`,
		"no os":     `os.exit(1)`,
		"bad arg":   `press("one", "up")`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := script.Parse(name, src)
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "input.lua")
	require.NoError(t, os.WriteFile(name, []byte(`press(2, "left") wait(3) release(2, "left")`), 0o644))
	tl, err := script.Load(name)
	require.NoError(t, err)
	require.Equal(t, 3, tl.End())
	require.Equal(t, []script.Event{{Loop: 3, Player: 2}}, tl.At(3))

	_, err = script.Load(filepath.Join(t.TempDir(), "missing.lua"))
	require.Error(t, err)
}
