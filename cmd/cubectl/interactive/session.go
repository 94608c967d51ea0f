// Package interactive provides the cubectl command prompt.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chzyer/readline"

	"github.com/cubelink/cubelink-go/pkg/action"
	"github.com/cubelink/cubelink-go/pkg/cube"
)

// Session runs commands against one controller.
type Session struct {
	ctrl *cube.Controller
	out  io.Writer
	rl   *readline.Instance

	// connectMu guards connecting, set while a background Connect runs.
	connectMu  sync.Mutex
	connecting bool
	connectWG  sync.WaitGroup
}

// New creates a session that reads from a readline prompt.
func New(ctrl *cube.Controller) (*Session, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ctrl.Model().Name + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(ctrl.Model()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Session{ctrl: ctrl, out: rl.Stdout(), rl: rl}, nil
}

// NewWithWriter creates a session without a prompt. Commands are fed
// through Execute.
func NewWithWriter(ctrl *cube.Controller, out io.Writer) *Session {
	return &Session{ctrl: ctrl, out: out}
}

// Stdout returns a writer that does not corrupt the prompt.
func (s *Session) Stdout() io.Writer {
	return s.out
}

// Stderr returns the prompt's error writer.
func (s *Session) Stderr() io.Writer {
	if s.rl != nil {
		return s.rl.Stderr()
	}
	return s.out
}

// Run reads commands until quit, EOF or ctx ends.
func (s *Session) Run(ctx context.Context) error {
	if s.rl == nil {
		return errors.New("session has no prompt")
	}
	defer s.rl.Close()

	go func() {
		<-ctx.Done()
		s.rl.Close()
	}()

	s.printHelp()
	for {
		line, err := s.rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		}
		if s.Execute(ctx, line) {
			return nil
		}
	}
}

// Wait blocks until a background connect finishes.
func (s *Session) Wait() {
	s.connectWG.Wait()
}

// Execute runs one command line. It reports whether the user asked to quit.
func (s *Session) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()
	case "connect", "c":
		s.cmdConnect(ctx)
	case "cancel":
		s.cmdCancel()
	case "disconnect", "d":
		s.cmdDisconnect(ctx)
	case "status", "s":
		s.cmdStatus()
	case "led":
		s.cmdLED(ctx, args)
	case "spin":
		s.cmdSpin(ctx, args)
	case "step":
		s.cmdStep(ctx, args)
	case "pixel":
		s.cmdPixel(ctx, args)
	case "picture":
		s.cmdPicture(ctx, args)
	case "drive":
		s.cmdDrive(ctx, args)
	case "move":
		s.cmdMove(ctx, args)
	case "turn":
		s.cmdTurn(ctx, args)
	case "tool":
		s.cmdTool(ctx, args)
	case "motion", "m":
		s.cmdMotion(ctx, args)
	case "motions":
		s.cmdMotions()
	case "quit", "exit", "q":
		fmt.Fprintln(s.out, "Exiting...")
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return false
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `
Group:
  connect                      - Scan, link and form the group
  cancel                       - Abandon a connect in progress
  disconnect                   - Dissolve the group and drop the link
  status                       - Show group and action state

Units (unit is an index or "all"):
  led <unit> <r> <g> <b>       - Set LED color (0-255)
  spin <unit> <speed>          - Rotate continuously (deg/s, 0 stops)
  step <unit> <speed> <deg>    - Rotate by an angle
  pixel <unit> <x> <y> <on|off> - Switch one matrix LED
  picture <unit> <64 bits>     - Draw the 8x8 matrix

Vehicle (g3 kits: antbot, battlebot, drawingbot):
  drive <speed>                - Drive continuously
  move <kit> <speed> <cm>      - Drive a distance
  turn <kit> <deg>             - Turn in place
  tool <kit> [angle]           - Toggle the tool

Motions:
  motions                      - List the model's motions
  motion <name>                - Play a motion

  quit                         - Exit`)
}

func (s *Session) cmdConnect(ctx context.Context) {
	s.connectMu.Lock()
	if s.connecting {
		s.connectMu.Unlock()
		fmt.Fprintln(s.out, "Connect already in progress (use 'cancel')")
		return
	}
	s.connecting = true
	s.connectMu.Unlock()

	fmt.Fprintf(s.out, "Connecting to %s group %s...\n", s.ctrl.Model().Name, s.ctrl.Status().Group)
	s.connectWG.Add(1)
	go func() {
		defer s.connectWG.Done()
		start := time.Now()
		err := s.ctrl.Connect(ctx)

		s.connectMu.Lock()
		s.connecting = false
		s.connectMu.Unlock()

		if err != nil {
			fmt.Fprintf(s.out, "Connect failed: %v\n", err)
			return
		}
		fmt.Fprintf(s.out, "Group ready (%d units, %s)\n", s.ctrl.Model().UnitCount, time.Since(start).Round(time.Millisecond))
	}()
}

func (s *Session) cmdCancel() {
	if s.ctrl.Cancel() {
		fmt.Fprintln(s.out, "Connect cancelled")
		return
	}
	fmt.Fprintln(s.out, "Nothing to cancel")
}

func (s *Session) cmdDisconnect(ctx context.Context) {
	if err := s.ctrl.Disconnect(ctx); err != nil {
		fmt.Fprintf(s.out, "Disconnect failed: %v\n", err)
		return
	}
	fmt.Fprintln(s.out, "Disconnected")
}

func (s *Session) cmdStatus() {
	st := s.ctrl.Status()
	fmt.Fprintf(s.out, "Model:   %s (%d units)\n", st.Model, st.UnitCount)
	fmt.Fprintf(s.out, "Group:   %s\n", st.Group)
	fmt.Fprintf(s.out, "State:   %s\n", st.State)
	if st.SessionID != "" {
		fmt.Fprintf(s.out, "Session: %s\n", st.SessionID)
	}
	fmt.Fprintf(s.out, "Ready:   %v\n", st.ReadyUnits)
	fmt.Fprintf(s.out, "Action:  %s\n", st.Action)
	fmt.Fprintf(s.out, "Frames:  %d submitted, %d written, %d failed\n", st.Queue.Submitted, st.Queue.Written, st.Queue.Failed)
}

// finish reports an operation's outcome and waits for it to complete.
func (s *Session) finish(ctx context.Context, p *action.Pending, err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := p.Wait(ctx); err != nil {
		fmt.Fprintf(s.out, "%s still running: %v\n", p.Name(), err)
		return
	}
	fmt.Fprintf(s.out, "OK %s (%s)\n", p.Name(), p.Nominal())
}

func (s *Session) usage(text string) {
	fmt.Fprintf(s.out, "Usage: %s\n", text)
}

func (s *Session) cmdLED(ctx context.Context, args []string) {
	if len(args) != 4 {
		s.usage("led <unit> <r> <g> <b>")
		return
	}
	u, err := parseUnit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	var rgb [3]uint8
	for i, a := range args[1:] {
		v, err := strconv.ParseUint(a, 10, 8)
		if err != nil {
			fmt.Fprintf(s.out, "Error: color %q must be 0-255\n", a)
			return
		}
		rgb[i] = uint8(v)
	}
	p, err := s.ctrl.ChangeLED(u, rgb[0], rgb[1], rgb[2])
	s.finish(ctx, p, err)
}

func (s *Session) cmdSpin(ctx context.Context, args []string) {
	if len(args) != 2 {
		s.usage("spin <unit> <speed>")
		return
	}
	u, speed, err := unitAndFloat(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	p, err := s.ctrl.SetContinuous(u, speed)
	s.finish(ctx, p, err)
}

func (s *Session) cmdStep(ctx context.Context, args []string) {
	if len(args) != 3 {
		s.usage("step <unit> <speed> <deg>")
		return
	}
	u, speed, err := unitAndFloat(args[0], args[1])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	deg, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Fprintf(s.out, "Error: bad angle %q\n", args[2])
		return
	}
	p, err := s.ctrl.SetStep(u, speed, deg)
	s.finish(ctx, p, err)
}

func (s *Session) cmdPixel(ctx context.Context, args []string) {
	if len(args) != 4 {
		s.usage("pixel <unit> <x> <y> <on|off>")
		return
	}
	u, err := parseUnit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	x, errX := strconv.Atoi(args[1])
	y, errY := strconv.Atoi(args[2])
	if errX != nil || errY != nil {
		fmt.Fprintln(s.out, "Error: x and y must be integers")
		return
	}
	var on bool
	switch strings.ToLower(args[3]) {
	case "on", "1", "true":
		on = true
	case "off", "0", "false":
	default:
		fmt.Fprintf(s.out, "Error: %q is not on or off\n", args[3])
		return
	}
	p, err := s.ctrl.SetMatrixXY(u, x, y, on)
	s.finish(ctx, p, err)
}

func (s *Session) cmdPicture(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.usage("picture <unit> <64 bits>")
		return
	}
	u, err := parseUnit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	p, err := s.ctrl.SetMatrix8(u, strings.Join(args[1:], ""))
	s.finish(ctx, p, err)
}

func (s *Session) cmdDrive(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("drive <speed>")
		return
	}
	speed, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		fmt.Fprintf(s.out, "Error: bad speed %q\n", args[0])
		return
	}
	p, err := s.ctrl.CarContinuous(speed)
	s.finish(ctx, p, err)
}

func (s *Session) cmdMove(ctx context.Context, args []string) {
	if len(args) != 3 {
		s.usage("move <kit> <speed> <cm>")
		return
	}
	kit, err := cube.ParseKit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	speed, errS := strconv.ParseFloat(args[1], 64)
	cm, errC := strconv.ParseFloat(args[2], 64)
	if errS != nil || errC != nil {
		fmt.Fprintln(s.out, "Error: speed and distance must be numbers")
		return
	}
	p, err := s.ctrl.CarStep(kit, speed, cm)
	s.finish(ctx, p, err)
}

func (s *Session) cmdTurn(ctx context.Context, args []string) {
	if len(args) != 2 {
		s.usage("turn <kit> <deg>")
		return
	}
	kit, err := cube.ParseKit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	deg, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(s.out, "Error: bad angle %q\n", args[1])
		return
	}
	p, err := s.ctrl.CarDegree(kit, deg)
	s.finish(ctx, p, err)
}

func (s *Session) cmdTool(ctx context.Context, args []string) {
	if len(args) < 1 || len(args) > 2 {
		s.usage("tool <kit> [angle]")
		return
	}
	kit, err := cube.ParseKit(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	angle := float64(cube.DefaultAntbotAngle)
	if len(args) == 2 {
		if angle, err = strconv.ParseFloat(args[1], 64); err != nil {
			fmt.Fprintf(s.out, "Error: bad angle %q\n", args[1])
			return
		}
	}
	p, err := s.ctrl.ToolToggle(kit, angle)
	s.finish(ctx, p, err)
}

func (s *Session) cmdMotion(ctx context.Context, args []string) {
	if len(args) != 1 {
		s.usage("motion <name>")
		return
	}
	p, err := s.ctrl.PlayMotion(strings.ToLower(args[0]))
	s.finish(ctx, p, err)
}

func (s *Session) cmdMotions() {
	names := s.ctrl.Model().MotionNames()
	if len(names) == 0 {
		fmt.Fprintf(s.out, "%s has no scheduled motions\n", s.ctrl.Model().Name)
		return
	}
	for _, name := range names {
		m := s.ctrl.Model().Motions[name]
		fmt.Fprintf(s.out, "  %-16s points %#02x-%#02x  %s\n", name, m.Start, m.End, m.Duration)
	}
}

func parseUnit(s string) (cube.Unit, error) {
	if strings.EqualFold(s, "all") {
		return cube.AllUnits, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("unit %q is not an index or \"all\"", s)
	}
	return cube.Unit(n), nil
}

func unitAndFloat(unit, value string) (cube.Unit, float64, error) {
	u, err := parseUnit(unit)
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number", value)
	}
	return u, v, nil
}

func completer(m cube.Model) *readline.PrefixCompleter {
	kits := make([]readline.PrefixCompleterInterface, 0, len(m.Kits))
	for _, k := range m.Kits {
		kits = append(kits, readline.PcItem(string(k)))
	}
	motions := make([]readline.PrefixCompleterInterface, 0, len(m.Motions))
	for _, name := range m.MotionNames() {
		motions = append(motions, readline.PcItem(name))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("connect"),
		readline.PcItem("cancel"),
		readline.PcItem("disconnect"),
		readline.PcItem("status"),
		readline.PcItem("led"),
		readline.PcItem("spin"),
		readline.PcItem("step"),
		readline.PcItem("pixel"),
		readline.PcItem("picture"),
		readline.PcItem("drive"),
		readline.PcItem("move", kits...),
		readline.PcItem("turn", kits...),
		readline.PcItem("tool", kits...),
		readline.PcItem("motion", motions...),
		readline.PcItem("motions"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
