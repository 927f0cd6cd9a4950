package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseSensorUpdate(t *testing.T) {
	testCases := []struct {
		line   string
		expect SensorUpdate
	}{
		{
			line:   "L30F15R9999t5",
			expect: SensorUpdate{Left: 30, Front: 15, Right: OutOfRange, Interval: 5 * time.Millisecond},
		},
		{
			line:   "L0F0R0t0",
			expect: SensorUpdate{},
		},
		{
			line:   "L9999F9999R9999t120",
			expect: SensorUpdate{Left: OutOfRange, Front: OutOfRange, Right: OutOfRange, Interval: 120 * time.Millisecond},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			u, err := Parse(tc.line)
			require.NoError(t, err)
			su, ok := u.(*SensorUpdate)
			require.True(t, ok)
			require.Equal(t, tc.expect, *su)
			require.Equal(t, tc.line, su.Line())
		})
	}
}

func TestParseMotionUpdate(t *testing.T) {
	u, err := Parse("el300er-300cor50t500")
	require.NoError(t, err)
	mu, ok := u.(*MotionUpdate)
	require.True(t, ok)
	// the firmware swaps el/er, Parse undoes it
	require.Equal(t, MotionUpdate{
		Left:       -300,
		Right:      300,
		Correction: 50,
		Interval:   500 * time.Millisecond,
	}, *mu)
	require.Equal(t, "el300er-300cor50t500", mu.Line())
}

func TestParseSkipsCommentsAndBlanks(t *testing.T) {
	for _, line := range []string{"", "   ", "# booting", "#L1F2R3t4", "\t\n"} {
		u, err := Parse(line)
		require.NoError(t, err, "line=%q", line)
		require.Nil(t, u, "line=%q", line)
	}
}

func TestParseErrors(t *testing.T) {
	for _, line := range []string{
		"hello",
		"L1F2R3",
		"L1F2R3t",
		"L-1F2R3t4",
		"LxFyRzt0",
		"el1er2cor3",
		"el1er2cor3t-4",
		"elephant",
		"L1F2R3t4 extra",
	} {
		u, err := Parse(line)
		require.Error(t, err, "line=%q", line)
		require.Nil(t, u, "line=%q", line)
	}
}

func TestUpdateStrings(t *testing.T) {
	su := &SensorUpdate{Left: 30, Front: 15, Right: OutOfRange, Interval: 5 * time.Millisecond}
	require.Equal(t, "SensorUpdate(left=30cm front=15cm right=out-of-range dt=5ms)", su.String())
	mu := &MotionUpdate{Left: 1, Right: -2, Correction: 3, Interval: time.Second}
	require.Equal(t, "MotionUpdate(left=1 right=-2 cor=3 dt=1s)", mu.String())
}

func TestInRange(t *testing.T) {
	require.True(t, InRange(0))
	require.True(t, InRange(130))
	require.False(t, InRange(OutOfRange))
}

func TestCommandForKey(t *testing.T) {
	testCases := []struct {
		key string
		cmd Command
		ok  bool
	}{
		{"z", CmdForward, true},
		{"s", CmdBack, true},
		{"q", CmdLeft, true},
		{"d", CmdRight, true},
		{"x", CmdStop, true},
		{"\x1b[A", CmdForward, true},
		{"\x1b[B", CmdBack, true},
		{"\x1b[D", CmdLeft, true},
		{"\x1b[C", CmdRight, true},
		{"a", 0, false},
		{"zz", 0, false},
		{"", 0, false},
	}
	for _, tc := range testCases {
		cmd, ok := CommandForKey(tc.key)
		require.Equal(t, tc.ok, ok, "key=%q", tc.key)
		require.Equal(t, tc.cmd, cmd, "key=%q", tc.key)
	}
}

func TestCommandString(t *testing.T) {
	require.Equal(t, "forward", CmdForward.String())
	require.Equal(t, "stop", CmdStop.String())
	require.Equal(t, "invalid", Command('!').String())
	require.False(t, Command('!').IsValid())
}
