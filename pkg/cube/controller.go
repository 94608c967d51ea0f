package cube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/cubelink/cubelink-go/pkg/action"
	"github.com/cubelink/cubelink-go/pkg/connection"
	"github.com/cubelink/cubelink-go/pkg/group"
	"github.com/cubelink/cubelink-go/pkg/log"
	"github.com/cubelink/cubelink-go/pkg/transport"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// AllUnits addresses every unit of the group.
const AllUnits Unit = Unit(wire.TargetAll)

// Unit is a zero-based unit index, or AllUnits.
type Unit byte

// String returns the index, or "all".
func (u Unit) String() string {
	if u == AllUnits {
		return "all"
	}
	return fmt.Sprintf("%d", u)
}

// Config configures a Controller.
type Config struct {
	// Model is the hardware model. Required.
	Model Model

	// Token selects the aggregator.
	Token group.Token

	// Policy decides when the group counts as ready.
	Policy group.Policy

	// Scanner finds the aggregator. Required.
	Scanner transport.Scanner

	// MaxFrameSize is the link's frame size. Defaults to 20.
	MaxFrameSize int

	// ScanBackoff paces scan retries.
	ScanBackoff connection.BackoffConfig

	// HandshakeTimeout bounds Connect. Zero waits until cancelled.
	HandshakeTimeout time.Duration

	// TeardownGrace bounds the queue drain on disconnect.
	TeardownGrace time.Duration

	// Clock drives every timer. Defaults to the wall clock.
	Clock clock.Clock

	// Logger receives operational logs. Optional.
	Logger *slog.Logger

	// ProtocolLogger receives capture events. Optional.
	ProtocolLogger log.Logger
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Model.Name == "" {
		return errors.New("model is required")
	}
	if c.Model.UnitCount < 1 || c.Model.UnitCount > wire.MaxUnits {
		return fmt.Errorf("model %s: unit count %d outside 1..%d", c.Model.Name, c.Model.UnitCount, wire.MaxUnits)
	}
	if c.Scanner == nil {
		return errors.New("scanner is required")
	}
	if c.HandshakeTimeout < 0 {
		return errors.New("handshake timeout must not be negative")
	}
	return nil
}

// Status is a snapshot of a Controller.
type Status struct {
	Model      string
	Group      group.Token
	State      group.State
	SessionID  string
	UnitCount  int
	ReadyUnits []int
	Action     action.State
	Queue      transport.QueueStats
}

// Controller runs one aggregator and its group as the configured model.
type Controller struct {
	cfg      Config
	model    Model
	encoder  wire.Encoder
	schedule *wire.Schedule

	queue *transport.Queue
	hs    *group.Handshake
	sched *action.Scheduler

	// toolMu guards toolForward, the direction of the next tool toggle.
	toolMu      sync.Mutex
	toolForward bool
}

// NewController creates a Controller. Call Close when done.
func NewController(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}

	enc, err := wire.LookupEncoder(cfg.Model.Encoder)
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", cfg.Model.Name, err)
	}

	c := &Controller{
		cfg:     cfg,
		model:   cfg.Model,
		encoder: enc,
	}

	if cfg.Model.Schedule != "" {
		s, err := wire.LookupSchedule(cfg.Model.Schedule)
		if err != nil {
			return nil, fmt.Errorf("model %s: %w", cfg.Model.Name, err)
		}
		units, err := s.Validate()
		if err != nil {
			return nil, fmt.Errorf("model %s: schedule: %w", cfg.Model.Name, err)
		}
		if units != cfg.Model.UnitCount {
			return nil, fmt.Errorf("model %s: schedule covers %d units, model has %d", cfg.Model.Name, units, cfg.Model.UnitCount)
		}
		c.schedule = &s
	}

	c.queue = transport.NewQueue(transport.QueueConfig{
		MaxFrameSize: cfg.MaxFrameSize,
		Logger:       cfg.Logger,
	})

	c.hs, err = group.NewHandshake(group.Config{
		UnitCount:      cfg.Model.UnitCount,
		Token:          cfg.Token,
		Policy:         cfg.Policy,
		Scanner:        cfg.Scanner,
		Queue:          c.queue,
		Encoder:        enc,
		ScanBackoff:    cfg.ScanBackoff,
		TeardownGrace:  cfg.TeardownGrace,
		Clock:          cfg.Clock,
		Logger:         cfg.Logger,
		ProtocolLogger: cfg.ProtocolLogger,
		Model:          cfg.Model.Name,
	})
	if err != nil {
		c.queue.Close()
		return nil, err
	}

	c.sched, err = action.NewScheduler(action.Config{
		Queue:          c.queue,
		Clock:          cfg.Clock,
		SessionID:      c.hs.SessionID,
		Logger:         cfg.Logger,
		ProtocolLogger: cfg.ProtocolLogger,
	})
	if err != nil {
		c.queue.Close()
		return nil, err
	}
	return c, nil
}

// Model returns the configured hardware model.
func (c *Controller) Model() Model {
	return c.model
}

// Connect forms the group. Models with a motion table upload it once the
// group is ready and Connect returns after the upload's action completes.
func (c *Controller) Connect(ctx context.Context) error {
	if c.cfg.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = c.cfg.Clock.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancel()
	}

	if err := c.hs.Connect(ctx); err != nil {
		return err
	}
	if c.cfg.Logger != nil {
		c.cfg.Logger.Info("group ready", "model", c.model.Name, "group", c.hs.Token(), "units", c.model.UnitCount)
	}

	if c.schedule == nil {
		return nil
	}
	data := c.schedule.Data
	p, err := c.sched.Perform("upload_schedule", func() []byte { return data }, wire.MinActionDuration)
	if err != nil {
		return fmt.Errorf("upload %s schedule: %w", c.schedule.Name, err)
	}
	return p.Wait(context.WithoutCancel(ctx))
}

// Cancel abandons an in-flight Connect. It reports whether one was running.
func (c *Controller) Cancel() bool {
	return c.hs.Cancel()
}

// Disconnect dissolves the group and drops the link.
func (c *Controller) Disconnect(ctx context.Context) error {
	return c.hs.Disconnect(ctx)
}

// Close disconnects and stops the command queue.
func (c *Controller) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), c.teardownGrace()+time.Second)
	defer cancel()
	err := c.hs.Disconnect(ctx)
	return errors.Join(err, c.queue.Close())
}

func (c *Controller) teardownGrace() time.Duration {
	if c.cfg.TeardownGrace > 0 {
		return c.cfg.TeardownGrace
	}
	return group.DefaultTeardownGrace
}

// Status returns a snapshot of the controller.
func (c *Controller) Status() Status {
	return Status{
		Model:      c.model.Name,
		Group:      c.hs.Token(),
		State:      c.hs.State(),
		SessionID:  c.hs.SessionID(),
		UnitCount:  c.model.UnitCount,
		ReadyUnits: c.hs.ReadyUnits(),
		Action:     c.sched.State(),
		Queue:      c.queue.Stats(),
	}
}

// perform runs one action after checking readiness and capability.
func (c *Controller) perform(name string, need Capability, encode func() []byte, nominal time.Duration) (*action.Pending, error) {
	if !c.model.Capabilities.Has(need) {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnsupported, name, c.model.Name)
	}
	if state := c.hs.State(); state != group.StateReady {
		return nil, fmt.Errorf("%w: %s in state %s", ErrNotReady, name, state)
	}
	return c.sched.Perform(name, encode, nominal)
}

func (c *Controller) checkUnit(u Unit) error {
	if u == AllUnits || int(u) < c.model.UnitCount {
		return nil
	}
	return fmt.Errorf("%w: %d of %d", ErrBadUnit, u, c.model.UnitCount)
}
