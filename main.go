// Demo rollout: a random policy acting in the BallArena environment
// through the full adapter chain, with point-cloud observations rendered
// alongside the flat vector observations the policy sees.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pointrl/pcgym/environment"
	"github.com/pointrl/pcgym/environment/box2d/ballarena"
	"github.com/pointrl/pcgym/environment/wrappers"
	"github.com/pointrl/pcgym/pointcloud"
	"github.com/pointrl/pcgym/utils/matutils"
	"github.com/pointrl/pcgym/utils/progressbar"
)

var (
	seed      uint64
	episodes  int
	cutoff    int
	frameSkip int
	points    int
)

var rootCmd = &cobra.Command{
	Use:   "pcgym",
	Short: "Roll out a random policy in BallArena with point-cloud observations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().Uint64Var(&seed, "seed", 192382, "random seed")
	rootCmd.Flags().IntVar(&episodes, "episodes", 10, "episodes to run")
	rootCmd.Flags().IntVar(&cutoff, "cutoff", 500, "episode step limit")
	rootCmd.Flags().IntVar(&frameSkip, "frame-skip", 4,
		"action repeats per step")
	rootCmd.Flags().IntVar(&points, "points", 1000,
		"point-cloud cardinality (0 disables resampling)")
}

func run() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	// Environment
	bounds := r1.Interval{Min: -4.0, Max: 4.0}
	starter := environment.NewUniformStarter([]r1.Interval{bounds, bounds},
		seed)
	task := ballarena.NewReachGoal(0, 0)

	arena, _, err := ballarena.New(task, starter, cutoff, 0.99)
	if err != nil {
		return fmt.Errorf("could not create environment: %v", err)
	}
	defer arena.Close()

	// Adapter chain: tuple interface, then frame skipping
	gym, err := wrappers.NewGym(arena, wrappers.FlattenObservations)
	if err != nil {
		return fmt.Errorf("could not create gym adapter: %v", err)
	}
	skip, err := wrappers.NewFrameSkip(gym, frameSkip)
	if err != nil {
		return fmt.Errorf("could not create frame-skip adapter: %v", err)
	}

	// Point-cloud observations of the same physics state
	cloud, err := wrappers.NewDepthCloud(arena, wrappers.DepthCloudConfig{
		Points:    points,
		ReturnPos: true,
		RNG:       rand.New(rand.NewSource(seed)),
	})
	if err != nil {
		return fmt.Errorf("could not create depth-cloud adapter: %v", err)
	}

	sugar.Infow("starting rollout",
		"episodes", episodes,
		"frameSkip", frameSkip,
		"points", points,
		"observationDims", skip.ObservationSpace().Shape.Len(),
		"cloudShape", cloud.ObservationShape(),
	)

	actionDims := skip.ActionSpace().LowerBound.Len()
	policy := distuv.Uniform{
		Min: ballarena.MinForce,
		Max: ballarena.MaxForce,
		Src: rand.NewSource(seed),
	}

	bar := progressbar.New(40, episodes)
	for ep := 0; ep < episodes; ep++ {
		obs, err := skip.Reset()
		if err != nil {
			return fmt.Errorf("episode %v: %v", ep, err)
		}

		var (
			episodeReturn float64
			steps         int
			done          bool
		)
		for !done {
			action := mat.NewVecDense(actionDims, nil)
			for i := 0; i < actionDims; i++ {
				action.SetVec(i, policy.Rand())
			}

			var reward float64
			obs, reward, done, _, err = skip.Step(action)
			if err != nil {
				return fmt.Errorf("episode %v: %v", ep, err)
			}
			episodeReturn += reward
			steps++
		}

		pc, pos, err := cloud.Observation()
		if err != nil {
			return fmt.Errorf("episode %v: %v", ep, err)
		}
		min, max, err := pointcloud.Bounds(pc)
		if err != nil {
			return fmt.Errorf("episode %v: %v", ep, err)
		}

		sugar.Infow("episode finished",
			"episode", ep,
			"steps", steps,
			"return", episodeReturn,
			"finalObservation", matutils.Format(obs.T()),
			"ballPosition", matutils.Format(pos.T()),
			"cloudPoints", pointcloud.Size(pc),
			"cloudMin", min,
			"cloudMax", max,
		)

		bar.Increment()
		bar.Display()
	}
	fmt.Println()

	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
