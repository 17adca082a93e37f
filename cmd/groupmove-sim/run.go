package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/sharronesofer/groupmove/internal/config"
	"github.com/sharronesofer/groupmove/internal/movement"
)

func newRunCmd() *cobra.Command {
	var (
		cfgPath    string
		ticks      int
		groups     int
		members    int
		seed       int64
		speed      float64
		verbose    bool
		copyReport bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a seeded scenario and print the movement report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			// Flags set on the command line override the config file.
			if cmd.Flags().Changed("ticks") {
				cfg.Run.Ticks = ticks
			}
			if cmd.Flags().Changed("groups") {
				cfg.Run.Groups = groups
			}
			if cmd.Flags().Changed("members") {
				cfg.Run.MembersPerGroup = members
			}
			if cmd.Flags().Changed("seed") {
				cfg.Run.Seed = seed
			}
			if cmd.Flags().Changed("speed") {
				cfg.Movement.Speed = speed
			}
			if verbose {
				cfg.Logging.Verbose = true
			}

			report, err := runScenario(cfg)
			if err != nil {
				return err
			}
			fmt.Print(report)
			if copyReport {
				if err := clipboard.WriteAll(report); err != nil {
					return fmt.Errorf("copy report to clipboard: %w", err)
				}
				fmt.Println("(report copied to clipboard)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a config file (optional)")
	cmd.Flags().IntVar(&ticks, "ticks", 600, "simulation ticks to run")
	cmd.Flags().IntVar(&groups, "groups", 3, "number of groups to spawn")
	cmd.Flags().IntVar(&members, "members", 5, "members per group")
	cmd.Flags().Int64Var(&seed, "seed", 42, "RNG seed for the agent scatter")
	cmd.Flags().Float64Var(&speed, "speed", 1.5, "per-tick movement speed")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "record per-tick member moves")
	cmd.Flags().BoolVar(&copyReport, "copy", false, "copy the report to the clipboard")
	return cmd
}

func runScenario(cfg *config.Config) (string, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.Logging.Level),
	}))

	sim := movement.NewSim(
		movement.WithSeed(cfg.Run.Seed),
		movement.WithSpeed(cfg.Movement.Speed),
		movement.WithFormationSpacing(cfg.Movement.Spacing),
		movement.WithAvoidance(cfg.Movement.AvoidanceRadius),
		movement.WithVerbose(cfg.Logging.Verbose),
		movement.WithSlog(logger),
	)

	rng := rand.New(rand.NewSource(cfg.Run.Seed)) // #nosec G404 -- scenario scatter
	recruiter := &movement.Recruiter{
		Spatial:        sim.Spatial,
		ProximityRange: cfg.World.Width,
	}

	for gi := 0; gi < cfg.Run.Groups; gi++ {
		faction := fmt.Sprintf("faction-%d", gi)
		goal := movement.Goal{Type: "relocate", Priority: 0.8}

		initiator := scatterCandidate(sim, fmt.Sprintf("g%d-lead", gi), faction, goal, cfg)
		candidates := make([]movement.Candidate, 0, cfg.Run.MembersPerGroup-1)
		for mi := 1; mi < cfg.Run.MembersPerGroup; mi++ {
			id := fmt.Sprintf("g%d-m%d", gi, mi)
			c := scatterCandidate(sim, id, faction, goal, cfg)
			// Everyone knows the initiator well enough to join.
			c.Relationships[initiator.ID] = 40 + rng.Float64()*60
			initiator.Relationships[id] = c.Relationships[initiator.ID]
			candidates = append(candidates, c)
		}

		g := recruiter.FormGroup(sim.Roster, fmt.Sprintf("group-%d", gi),
			initiator, candidates, 0, 1, cfg.Run.MembersPerGroup)
		if g == nil {
			return "", fmt.Errorf("scenario could not assemble group %d", gi)
		}

		target := movement.MovementTarget{
			Pos: movement.Position{
				X: rng.Float64() * cfg.World.Width,
				Y: rng.Float64() * cfg.World.Height,
			},
			Priority: 1,
		}
		if !sim.Coordinator.SetGroupTarget(g.ID, target) {
			return "", fmt.Errorf("set target for group %s", g.ID)
		}
	}

	sim.Run(cfg.Run.Ticks)
	return movement.BuildReport(sim, cfg.Movement.ReachThreshold).String(), nil
}

func scatterCandidate(sim *movement.Sim, id, faction string, goal movement.Goal, cfg *config.Config) movement.Candidate {
	sim.ScatterMember(id, cfg.World.Width, cfg.World.Height)
	return movement.Candidate{
		ID:            id,
		Faction:       faction,
		Goals:         []movement.Goal{goal},
		Relationships: make(map[string]float64),
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
