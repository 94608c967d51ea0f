package cube

import (
	"fmt"

	"github.com/cubelink/cubelink-go/pkg/action"
	"github.com/cubelink/cubelink-go/pkg/wire"
)

// Vehicle geometry. Units 0 and 1 drive the wheels and face opposite ways,
// unit 2 drives the tool.
const (
	leftWheel  byte = 0
	rightWheel byte = 1
	toolUnit   byte = 2

	// Steps per centimetre of travel.
	drawingbotStepsPerCm = 99
	smallWheelStepsPerCm = 24.44444

	// Steps per degree of rotation in place, and the wheel speed used.
	drawingbotStepsPerDegree = 6.54
	drawingbotTurnSpeed      = 90
	smallWheelStepsPerDegree = 2.25
	smallWheelTurnSpeed      = 900

	toolSpeed        = 100
	toolDefaultAngle = 90

	// DefaultAntbotAngle is the antbot gripper travel used by the CLI.
	DefaultAntbotAngle = 860
)

func (c *Controller) checkKit(k Kit) error {
	if !c.model.SupportsKit(k) {
		return fmt.Errorf("%w: kit %s on %s", ErrUnsupported, k, c.model.Name)
	}
	return nil
}

// CarContinuous drives forward at speed (backward when negative) until
// told otherwise.
func (c *Controller) CarContinuous(speed float64) (*action.Pending, error) {
	left := wire.SpeedToSps(speed)
	right := wire.SpeedToSps(-speed)
	n := c.model.UnitCount
	return c.perform("car_continuous", CapVehicle, func() []byte {
		return c.encoder.Aggregate(n, wire.AggregateContinuous,
			c.encoder.Continuous(leftWheel, n, left),
			c.encoder.Continuous(rightWheel, n, right))
	}, wire.MinActionDuration)
}

// CarStep drives cm centimetres at speed. Negative cm drives backward.
func (c *Controller) CarStep(k Kit, speed, cm float64) (*action.Pending, error) {
	if err := c.checkKit(k); err != nil {
		return nil, err
	}

	perCm := smallWheelStepsPerCm
	if k == KitDrawingbot {
		perCm = drawingbotStepsPerCm
	}
	sps := wire.SpeedToSps(speed)
	steps := clampSteps(cm * perCm)
	if cm <= 0 {
		sps = -sps
	}

	n := c.model.UnitCount
	return c.perform("car_step", CapVehicle, func() []byte {
		return c.encoder.Aggregate(n, wire.AggregateStep,
			c.encoder.SingleStep(leftWheel, n, sps, steps),
			c.encoder.SingleStep(rightWheel, n, -sps, steps))
	}, wire.MoveDuration(sps, steps))
}

// CarDegree turns in place by degrees. Positive turns clockwise.
func (c *Controller) CarDegree(k Kit, degrees float64) (*action.Pending, error) {
	if err := c.checkKit(k); err != nil {
		return nil, err
	}

	speed, perDegree := float64(smallWheelTurnSpeed), smallWheelStepsPerDegree
	if k == KitDrawingbot {
		speed, perDegree = drawingbotTurnSpeed, drawingbotStepsPerDegree
	}
	sps := wire.SpeedToSps(speed)
	steps := clampSteps(degrees * perDegree)
	if degrees >= 0 {
		sps = -sps
	}

	n := c.model.UnitCount
	return c.perform("car_degree", CapVehicle, func() []byte {
		return c.encoder.Aggregate(n, wire.AggregateStep,
			c.encoder.SingleStep(leftWheel, n, sps, steps),
			c.encoder.SingleStep(rightWheel, n, sps, steps))
	}, wire.MoveDuration(sps, steps))
}

// ToolToggle opens or closes the kit's tool, alternating on every accepted
// call. The first call closes it. angle sets the antbot gripper travel in
// degrees; the other kits ignore it.
func (c *Controller) ToolToggle(k Kit, angle float64) (*action.Pending, error) {
	if err := c.checkKit(k); err != nil {
		return nil, err
	}

	steps := wire.DegreeToStep(toolDefaultAngle)
	if k == KitAntbot {
		steps = wire.DegreeToStep(angle)
	}
	sps := wire.SpeedToSps(toolSpeed)

	c.toolMu.Lock()
	defer c.toolMu.Unlock()

	if !c.toolForward {
		sps = -sps
	}
	p, err := c.perform("tool_toggle", CapVehicle, func() []byte {
		return c.encoder.SingleStep(toolUnit, c.model.UnitCount, sps, steps)
	}, wire.MoveDuration(sps, steps))
	if err != nil {
		return nil, err
	}
	c.toolForward = !c.toolForward
	return p, nil
}
