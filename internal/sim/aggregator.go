// Package sim provides an in-memory BLE aggregator and its group of units.
//
// An Aggregator satisfies transport.Scanner, so it can stand in for the
// radio in tests and in the command-line tool's -simulate mode. It
// reassembles written frames into packets, records every command, and
// answers a group-join with one ready notification per unit.
package sim

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cubelink/cubelink-go/pkg/transport"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// Command is a packet received by the simulated aggregator.
type Command struct {
	// Header is the decoded packet header.
	Header wire.Header

	// Packet is the complete packet.
	Packet []byte

	// At is when the last frame of the packet arrived.
	At time.Time
}

// Handlers holds optional callbacks for simulator events.
type Handlers struct {
	// OnCommand is called for every reassembled packet.
	OnCommand func(cmd Command)

	// OnConnect is called when a controller connects.
	OnConnect func()
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSilentUnits makes the given units never report ready.
func WithSilentUnits(units ...int) Option {
	return func(a *Aggregator) {
		for _, u := range units {
			a.silent[u] = true
		}
	}
}

// WithScanMisses makes the first n scans fail with ErrNotFound.
func WithScanMisses(n int) Option {
	return func(a *Aggregator) { a.scanMisses = n }
}

// WithReadyDelay spaces out ready notifications.
func WithReadyDelay(d time.Duration) Option {
	return func(a *Aggregator) { a.readyDelay = d }
}

// WithLogger sets the operational logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// WithHandlers installs event callbacks.
func WithHandlers(h Handlers) Option {
	return func(a *Aggregator) { a.handlers = h }
}

// Aggregator simulates one advertised aggregator.
type Aggregator struct {
	name       string
	silent     map[int]bool
	scanMisses int
	readyDelay time.Duration
	logger     *slog.Logger
	handlers   Handlers

	mu       sync.Mutex
	link     *Link
	commands []Command
	scans    int
	connects int
}

var _ transport.Scanner = (*Aggregator)(nil)

// NewAggregator creates an aggregator advertising name, for example
// "PINGPONG" or "PINGPONG.12".
func NewAggregator(name string, opts ...Option) *Aggregator {
	a := &Aggregator{
		name:   name,
		silent: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns the advertised name.
func (a *Aggregator) Name() string {
	return a.name
}

// Scan implements transport.Scanner.
func (a *Aggregator) Scan(ctx context.Context, namePrefix string) (transport.Device, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.scans++
	if a.scanMisses > 0 {
		a.scanMisses--
		return nil, ErrNotFound
	}
	if namePrefix != a.name {
		return nil, ErrNotFound
	}
	return device{a}, nil
}

// Scans returns how many times Scan was called.
func (a *Aggregator) Scans() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scans
}

// Connects returns how many links were opened.
func (a *Aggregator) Connects() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connects
}

// Commands returns a copy of every packet received so far.
func (a *Aggregator) Commands() []Command {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Command, len(a.commands))
	copy(out, a.commands)
	return out
}

// Opcodes returns the opcode of every packet received so far.
func (a *Aggregator) Opcodes() []wire.Opcode {
	cmds := a.Commands()
	ops := make([]wire.Opcode, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Header.Opcode
	}
	return ops
}

// ClearCommands forgets the recorded packets.
func (a *Aggregator) ClearCommands() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.commands = nil
}

// Link returns the open link, or nil.
func (a *Aggregator) Link() *Link {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.link
}

// DropLink simulates the aggregator going out of range.
func (a *Aggregator) DropLink() {
	if l := a.Link(); l != nil {
		l.drop(true)
	}
}

// SendReady injects a ready notification for unit, as a unit that
// rebooted and rejoined would.
func (a *Aggregator) SendReady(unit, unitCount int) {
	if l := a.Link(); l != nil {
		l.notify(wire.EncodeReadyNotification(unit, unitCount))
	}
}

func (a *Aggregator) record(l *Link, packet []byte) {
	h, err := wire.ParseHeader(packet)
	if err != nil {
		return
	}
	cmd := Command{Header: h, Packet: packet, At: time.Now()}

	a.mu.Lock()
	a.commands = append(a.commands, cmd)
	onCommand := a.handlers.OnCommand
	a.mu.Unlock()

	if a.logger != nil {
		a.logger.Debug("sim: command", "opcode", h.Opcode, "target", h.Target, "size", h.Size)
	}
	if onCommand != nil {
		onCommand(cmd)
	}

	if h.Opcode == wire.OpGroupJoin && h.Target == wire.TargetAggregator {
		go a.answerJoin(l, h.UnitCount)
	}
}

func (a *Aggregator) answerJoin(l *Link, unitCount int) {
	for unit := 0; unit < unitCount; unit++ {
		if a.readyDelay > 0 {
			time.Sleep(a.readyDelay)
		}
		a.mu.Lock()
		silent := a.silent[unit]
		a.mu.Unlock()
		if silent {
			continue
		}
		l.notify(wire.EncodeReadyNotification(unit, unitCount))
	}
}

type device struct {
	a *Aggregator
}

func (d device) Name() string { return d.a.name }

func (d device) Connect(ctx context.Context) (transport.Link, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := &Link{agg: d.a}
	d.a.mu.Lock()
	if old := d.a.link; old != nil {
		d.a.mu.Unlock()
		old.drop(false)
		d.a.mu.Lock()
	}
	d.a.link = l
	d.a.connects++
	onConnect := d.a.handlers.OnConnect
	d.a.mu.Unlock()

	if onConnect != nil {
		onConnect()
	}
	return l, nil
}
