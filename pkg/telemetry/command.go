package telemetry

// Command is a single-character drive command understood by the
// firmware. The letters match an AZERTY layout.
type Command byte

// Drive commands.
const (
	CmdForward Command = 'z'
	CmdBack    Command = 's'
	CmdLeft    Command = 'q'
	CmdRight   Command = 'd'
	CmdStop    Command = 'x'
)

// IsValid reports whether c is a known drive command.
func (c Command) IsValid() bool {
	switch c {
	case CmdForward, CmdBack, CmdLeft, CmdRight, CmdStop:
		return true
	}
	return false
}

// String names the command for logs.
func (c Command) String() string {
	switch c {
	case CmdForward:
		return "forward"
	case CmdBack:
		return "back"
	case CmdLeft:
		return "left"
	case CmdRight:
		return "right"
	case CmdStop:
		return "stop"
	}
	return "invalid"
}

// arrowKeys maps terminal escape sequences to drive commands, so a
// teleop session can use the arrow keys directly.
var arrowKeys = map[string]Command{
	"\x1b[A": CmdForward,
	"\x1b[B": CmdBack,
	"\x1b[D": CmdLeft,
	"\x1b[C": CmdRight,
}

// CommandForKey converts a key press (a plain character or an arrow
// escape sequence) to a drive command.
func CommandForKey(key string) (Command, bool) {
	if cmd, ok := arrowKeys[key]; ok {
		return cmd, true
	}
	if len(key) == 1 {
		if cmd := Command(key[0]); cmd.IsValid() {
			return cmd, true
		}
	}
	return 0, false
}
