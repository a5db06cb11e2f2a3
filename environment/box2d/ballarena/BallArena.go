// Package ballarena provides a planar environment in which a ball is
// pushed around a walled square arena by 2-D forces. The arena has a
// synthetic overhead camera, so it exercises the full adapter stack:
// structured observations with a scalar component, depth renders for
// point-cloud observations, and color renders for pixel observations.
package ballarena

import (
	"fmt"
	"math"

	"github.com/ByteArena/box2d"
	"gonum.org/v1/gonum/mat"

	"github.com/pointrl/pcgym/environment"
	ts "github.com/pointrl/pcgym/timestep"
	"github.com/pointrl/pcgym/utils/floatutils"
)

const (
	// FPS is the physics stepping rate
	FPS      float64 = 50
	Timestep float64 = 1.0 / FPS

	// ArenaHalfWidth is the half side length of the square arena. The
	// ball's position is confined to [-ArenaHalfWidth, ArenaHalfWidth]
	// on both axes.
	ArenaHalfWidth float64 = 5.0

	BallRadius  float64 = 0.5
	ballDensity float64 = 1.0
	ballDamping float64 = 0.5

	// Action bounds: planar force applied to the ball's center
	MaxForce float64 = 10.0
	MinForce float64 = -MaxForce

	// MaxSpeed bounds the reported velocity observation
	MaxSpeed float64 = 20.0

	velocityIterations int = 6
	positionIterations int = 2
)

// BallArena implements a top-down Box2D world holding one dynamic ball
// inside four static walls. Gravity is zero; the only forces are the
// agent's actions and the ball's linear damping.
type BallArena struct {
	environment.Task
	environment.Starter

	world *box2d.B2World
	ball  *box2d.B2Body

	ender    environment.Ender
	discount float64
	camera   *Camera

	currentTimeStep ts.TimeStep
}

// New returns a new BallArena with the given task and starting-state
// distribution, ready to use. Episodes are cut off after cutoff steps.
func New(task environment.Task, starter environment.Starter, cutoff int,
	discount float64) (*BallArena, ts.TimeStep, error) {
	if cutoff < 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("newBallArena: episode "+
			"cutoff must be positive, got %v", cutoff)
	}

	world := box2d.MakeB2World(box2d.B2Vec2{X: 0, Y: 0})

	// Walls: one static body with an edge fixture per side
	wallDef := box2d.MakeB2BodyDef()
	walls := world.CreateBody(&wallDef)
	corners := [][2]box2d.B2Vec2{
		{box2d.MakeB2Vec2(-ArenaHalfWidth, -ArenaHalfWidth),
			box2d.MakeB2Vec2(ArenaHalfWidth, -ArenaHalfWidth)},
		{box2d.MakeB2Vec2(ArenaHalfWidth, -ArenaHalfWidth),
			box2d.MakeB2Vec2(ArenaHalfWidth, ArenaHalfWidth)},
		{box2d.MakeB2Vec2(ArenaHalfWidth, ArenaHalfWidth),
			box2d.MakeB2Vec2(-ArenaHalfWidth, ArenaHalfWidth)},
		{box2d.MakeB2Vec2(-ArenaHalfWidth, ArenaHalfWidth),
			box2d.MakeB2Vec2(-ArenaHalfWidth, -ArenaHalfWidth)},
	}
	for _, c := range corners {
		edge := box2d.NewB2EdgeShape()
		edge.Set(c[0], c[1])

		wallFix := box2d.MakeB2FixtureDef()
		wallFix.Shape = edge
		walls.CreateFixtureFromDef(&wallFix)
	}

	// Ball
	ballDef := box2d.MakeB2BodyDef()
	ballDef.Type = box2d.B2BodyType.B2_dynamicBody
	ballDef.LinearDamping = ballDamping
	ball := world.CreateBody(&ballDef)

	circle := box2d.NewB2CircleShape()
	circle.M_radius = BallRadius

	ballFix := box2d.MakeB2FixtureDef()
	ballFix.Shape = circle
	ballFix.Density = ballDensity
	ball.CreateFixtureFromDef(&ballFix)

	arena := &BallArena{
		Task:     task,
		Starter:  starter,
		world:    &world,
		ball:     ball,
		ender:    environment.NewStepLimit(cutoff),
		discount: discount,
	}
	arena.camera = NewCamera(arena)

	firstStep, err := arena.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newBallArena: %v", err)
	}
	return arena, firstStep, nil
}

// Reset resets the environment, placing the ball at rest at a position
// drawn from the Starter, and returns the first timestep of the episode.
func (b *BallArena) Reset() (ts.TimeStep, error) {
	start := b.Start()
	if start.Len() != 2 {
		return ts.TimeStep{}, fmt.Errorf("reset: starting state must "+
			"have 2 dimensions, got %v", start.Len())
	}

	x := floatutils.Clip(start.AtVec(0), -ArenaHalfWidth+BallRadius,
		ArenaHalfWidth-BallRadius)
	y := floatutils.Clip(start.AtVec(1), -ArenaHalfWidth+BallRadius,
		ArenaHalfWidth-BallRadius)

	b.ball.SetTransform(box2d.MakeB2Vec2(x, y), 0)
	b.ball.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.ball.SetAwake(true)

	firstStep := ts.New(ts.First, 0, b.discount, b.getObs(0), 0)
	b.currentTimeStep = firstStep
	return firstStep, nil
}

// Step applies a 2-D force to the ball for one physics tick. Forces are
// clipped to the action bounds before being applied.
func (b *BallArena) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if action.Len() != 2 {
		return ts.TimeStep{}, true, fmt.Errorf("step: invalid action "+
			"dimensions \n\thave(%v) \n\twant(2)", action.Len())
	}

	state := b.stateVector()

	force := floatutils.ClipSlice(action.RawVector().Data, MinForce,
		MaxForce)
	b.ball.ApplyForceToCenter(box2d.MakeB2Vec2(force[0], force[1]), true)
	b.world.Step(Timestep, velocityIterations, positionIterations)

	nextState := b.stateVector()
	reward := b.GetReward(state, action, nextState)

	number := b.currentTimeStep.Number + 1
	t := ts.New(ts.Mid, reward, b.discount, b.getObs(number), number)

	last := b.ender.End(&t)
	if b.AtGoal(nextState) {
		t.StepType = ts.Last
		last = true
	}

	b.currentTimeStep = t
	return t, last, nil
}

// CurrentTimeStep returns the current timestep of the environment
func (b *BallArena) CurrentTimeStep() ts.TimeStep {
	return b.currentTimeStep
}

// Physics exposes the arena's overhead camera and simulation state
func (b *BallArena) Physics() environment.Physics {
	return b.camera
}

// ObservationSpec returns the ordered observation component
// specifications: ball position, ball velocity, and elapsed episode time
// as a scalar.
func (b *BallArena) ObservationSpec() []environment.NamedSpec {
	posBound := mat.NewVecDense(2, []float64{ArenaHalfWidth,
		ArenaHalfWidth})
	negPosBound := mat.NewVecDense(2, []float64{-ArenaHalfWidth,
		-ArenaHalfWidth})
	velBound := mat.NewVecDense(2, []float64{MaxSpeed, MaxSpeed})
	negVelBound := mat.NewVecDense(2, []float64{-MaxSpeed, -MaxSpeed})

	return []environment.NamedSpec{
		{Name: "position", Spec: environment.NewSpec(
			mat.NewVecDense(2, nil), environment.Observation,
			negPosBound, posBound, environment.Continuous)},
		{Name: "velocity", Spec: environment.NewSpec(
			mat.NewVecDense(2, nil), environment.Observation,
			negVelBound, velBound, environment.Continuous)},
		{Name: "time", Spec: environment.NewScalarSpec(
			environment.Observation, 0, math.Inf(1),
			environment.Continuous)},
	}
}

// ActionSpec returns the action specification of the environment
func (b *BallArena) ActionSpec() environment.Spec {
	bounds := mat.NewVecDense(2, []float64{MaxForce, MaxForce})
	negBounds := mat.NewVecDense(2, []float64{MinForce, MinForce})

	return environment.NewSpec(mat.NewVecDense(2, nil), environment.Action,
		negBounds, bounds, environment.Continuous)
}

// DiscountSpec returns the discount specification of the environment
func (b *BallArena) DiscountSpec() environment.Spec {
	return environment.NewScalarSpec(environment.Discount, b.discount,
		b.discount, environment.Continuous)
}

// Close releases resources held by the environment
func (b *BallArena) Close() error {
	return nil
}

func (b *BallArena) String() string {
	pos := b.ball.GetPosition()
	return fmt.Sprintf("BallArena | Ball: (%.2f, %.2f)", pos.X, pos.Y)
}

// getObs builds the structured observation for step number
func (b *BallArena) getObs(number int) ts.Observation {
	pos := b.ball.GetPosition()
	vel := b.ball.GetLinearVelocity()

	velocity := []float64{
		floatutils.Clip(vel.X, -MaxSpeed, MaxSpeed),
		floatutils.Clip(vel.Y, -MaxSpeed, MaxSpeed),
	}

	return ts.Observation{
		ts.Vector("position", []float64{pos.X, pos.Y}),
		ts.Vector("velocity", velocity),
		ts.Scalar("time", float64(number)*Timestep),
	}
}

// stateVector packs the ball's position and velocity into one vector for
// the task's reward computation
func (b *BallArena) stateVector() *mat.VecDense {
	pos := b.ball.GetPosition()
	vel := b.ball.GetLinearVelocity()
	return mat.NewVecDense(4, []float64{pos.X, pos.Y, vel.X, vel.Y})
}
