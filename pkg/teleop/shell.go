// Package teleop provides an ishell backed interactive shell for
// driving the robot by hand.
package teleop

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotmaps/slam.go/pkg/link"
	"github.com/robotmaps/slam.go/pkg/telemetry"
)

// Shell wraps ishell with a Commander on the robot link.
type Shell struct {
	Interactive bool

	Shell     *ishell.Shell
	Commander *link.Commander
}

const shellKey = "$shell"

var (
	// flags

	evalOnly bool

	// commands
	commands = []*ishell.Cmd{
		&ForwardCmd,
		&BackCmd,
		&LeftCmd,
		&RightCmd,
		&StopCmd,
		&SendCmd,
		&KeysCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other command providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell driving through cmdr.
func New(cmdr *link.Commander) *Shell {
	s := &Shell{
		Interactive: !evalOnly,

		Shell:     ishell.New(),
		Commander: cmdr,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt("slam > ")
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// Drive sends a drive command and reports the outcome.
func Drive(c *ishell.Context, cmd telemetry.Command) {
	if err := ShellFrom(c).Commander.Send(cmd); err != nil {
		c.Err(err)
		return
	}
	c.Println(cmd.String())
}

// DriveCmd builds an ishell command sending one drive command.
func DriveCmd(name, alias string, cmd telemetry.Command) ishell.Cmd {
	return ishell.Cmd{
		Name:    name,
		Aliases: []string{alias},
		Help:    "",
		Func: func(c *ishell.Context) {
			Drive(c, cmd)
		},
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Println("drive with forward/back/left/right/stop, or `keys` for key mode")
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ForwardCmd drives forward.
	ForwardCmd = DriveCmd("forward", "z", telemetry.CmdForward)
	// BackCmd drives backward.
	BackCmd = DriveCmd("back", "s", telemetry.CmdBack)
	// LeftCmd turns left.
	LeftCmd = DriveCmd("left", "q", telemetry.CmdLeft)
	// RightCmd turns right.
	RightCmd = DriveCmd("right", "d", telemetry.CmdRight)
	// StopCmd stops the motors.
	StopCmd = DriveCmd("stop", "x", telemetry.CmdStop)

	// SendCmd sends a raw line to the firmware.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "LINE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("LINE required"))
				return
			}
			if err := ShellFrom(c).Commander.SendLine(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		},
	}

	// KeysCmd reads keys line by line and maps them to drive
	// commands, arrow escape sequences included. An empty line
	// stops the robot and exits key mode.
	KeysCmd = ishell.Cmd{
		Name:    "keys",
		Aliases: []string{"k"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			c.Println("key mode: z/s/q/d/x or arrow keys, empty line to leave")
			for {
				key := c.ReadLine()
				if key == "" {
					Drive(c, telemetry.CmdStop)
					return
				}
				cmd, ok := telemetry.CommandForKey(key)
				if !ok {
					c.Err(fmt.Errorf("unknown key %q", key))
					continue
				}
				if err := s.Commander.Send(cmd); err != nil {
					c.Err(err)
					return
				}
			}
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	conf := link.NewConfig()
	conn, err := conf.Open()
	if err != nil {
		log.Fatalln(err)
	}
	defer conn.Close()
	New(link.NewCommander(conn)).Run(flag.Args()...)
}
