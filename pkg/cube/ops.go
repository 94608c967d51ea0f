package cube

import (
	"fmt"
	"math"

	"github.com/cubelink/cubelink-go/pkg/action"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// ChangeLED sets a unit's color.
func (c *Controller) ChangeLED(u Unit, r, g, b uint8) (*action.Pending, error) {
	if err := c.checkUnit(u); err != nil {
		return nil, err
	}
	return c.perform("change_led", CapUnits, func() []byte {
		return c.encoder.ColorLED(byte(u), c.model.UnitCount, r, g, b)
	}, wire.MinActionDuration)
}

// SetContinuous spins a unit's motor at speed degrees per second until
// told otherwise. Zero stops it.
func (c *Controller) SetContinuous(u Unit, speed float64) (*action.Pending, error) {
	if err := c.checkUnit(u); err != nil {
		return nil, err
	}
	sps := wire.SpeedToSps(speed)
	return c.perform("set_continuous", CapUnits, func() []byte {
		return c.encoder.Continuous(byte(u), c.model.UnitCount, sps)
	}, wire.MinActionDuration)
}

// SetStep turns a unit's motor by degrees at speed. The sign of speed sets
// the direction. The action lasts as long as the move.
func (c *Controller) SetStep(u Unit, speed, degrees float64) (*action.Pending, error) {
	if err := c.checkUnit(u); err != nil {
		return nil, err
	}
	sps := wire.SpeedToSps(speed)
	steps := wire.DegreeToStep(degrees)
	return c.perform("set_step", CapUnits, func() []byte {
		return c.encoder.SingleStep(byte(u), c.model.UnitCount, sps, steps)
	}, wire.MoveDuration(sps, steps))
}

// SetMatrixXY switches one LED of a unit's matrix. (0, 0) is the top-left
// pixel.
func (c *Controller) SetMatrixXY(u Unit, x, y int, on bool) (*action.Pending, error) {
	if err := c.checkUnit(u); err != nil {
		return nil, err
	}
	if x < 0 || x > 7 || y < 0 || y > 7 {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrOutOfRange, x, y)
	}
	return c.perform("set_matrix_xy", CapUnits, func() []byte {
		return c.encoder.MatrixPixel(byte(u), c.model.UnitCount, x, wire.FlipY(y), on)
	}, wire.MinActionDuration)
}

// SetMatrix8 draws a whole picture given as 64 characters of '0' and '1',
// rows top to bottom.
func (c *Controller) SetMatrix8(u Unit, bits string) (*action.Pending, error) {
	if err := c.checkUnit(u); err != nil {
		return nil, err
	}
	rows, err := wire.ParseMatrix8(bits)
	if err != nil {
		return nil, err
	}
	return c.perform("set_matrix8", CapUnits, func() []byte {
		return c.encoder.MatrixPicture(byte(u), c.model.UnitCount, rows)
	}, wire.MinActionDuration)
}

// PlayMotion plays one of the model's scheduled motions.
func (c *Controller) PlayMotion(name string) (*action.Pending, error) {
	m, ok := c.model.Motions[name]
	if !ok {
		if !c.model.Capabilities.Has(CapMotions) {
			return nil, fmt.Errorf("%w: motions on %s", ErrUnsupported, c.model.Name)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownMotion, name)
	}
	return c.perform("motion_"+name, CapMotions, func() []byte {
		return c.encoder.PointPlayback(c.model.UnitCount, m.Start, m.End)
	}, m.Duration)
}

func clampSteps(v float64) int {
	return min(int(math.Round(math.Abs(v))), wire.MaxSteps)
}
