package ballarena

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// GoalRadius is the distance to the goal point below which the goal
// counts as reached
const GoalRadius float64 = 0.5

// ReachGoal rewards moving the ball toward a fixed goal point. The
// reward for every step is the negative Euclidean distance between the
// ball and the goal after the step, so returns improve as the ball
// approaches the goal.
type ReachGoal struct {
	goalX, goalY float64
}

// NewReachGoal returns a ReachGoal task with the goal at (goalX, goalY)
func NewReachGoal(goalX, goalY float64) *ReachGoal {
	return &ReachGoal{goalX: goalX, goalY: goalY}
}

// Goal returns the coordinates of the goal point
func (r *ReachGoal) Goal() (x, y float64) {
	return r.goalX, r.goalY
}

// GetReward returns the reward for transitioning from state to nextState
// under action. Only the ball position entries of nextState matter.
func (r *ReachGoal) GetReward(state, action, nextState mat.Vector) float64 {
	return -r.distance(nextState)
}

// AtGoal returns whether the ball is within GoalRadius of the goal
func (r *ReachGoal) AtGoal(state mat.Vector) bool {
	return r.distance(state) < GoalRadius
}

// distance returns the Euclidean distance from the ball position in
// state to the goal. The first two entries of state are the ball's
// (x, y) position.
func (r *ReachGoal) distance(state mat.Vector) float64 {
	dx := state.AtVec(0) - r.goalX
	dy := state.AtVec(1) - r.goalY
	return math.Hypot(dx, dy)
}
