package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/memory-match-game/game/engine"
)

// maxStepsPerGame bounds a single simulated game; reaching it means the
// strategy stopped making progress
const maxStepsPerGame = 100000

var errStuck = errors.New("simulation made no progress")

// Strategy picks the next card to flip from the visible state
type Strategy interface {
	Name() string
	Reset()
	Next(state *engine.GameState) engine.CardID
	Observe(state *engine.GameState)
}

// SimOptions controls a batch of simulated games
type SimOptions struct {
	Mode     engine.GameMode
	Games    int
	Strategy string
	Seed     uint64
	// Think is the clock time that passes between two flips
	Think time.Duration
}

// GameResult is the outcome of one simulated game
type GameResult struct {
	Outcome  engine.Outcome
	Moves    int
	TimeLeft int
	Pairs    int
}

// SimReport aggregates the results of a batch
type SimReport struct {
	Config   string
	Mode     engine.GameMode
	Strategy string
	Games    int
	Outcomes map[engine.Outcome]int
	AvgMoves float64
	MinMoves int
	MaxMoves int
	Results  []GameResult
}

// WinRate is the fraction of games won
func (r *SimReport) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Outcomes[engine.Win]) / float64(r.Games)
}

func simulateCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulate",
		Usage: "play automated games and report outcomes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "classic",
				Usage: "config name in --dir, or path to a config file",
			},
			&cli.StringFlag{
				Name:  "dir",
				Value: "configs",
				Usage: "config directory",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "moves or timer (default: the config's default mode)",
			},
			&cli.IntFlag{
				Name:  "games",
				Value: 100,
				Usage: "number of games to play",
			},
			&cli.StringFlag{
				Name:  "strategy",
				Value: "perfect",
				Usage: "perfect (remembers every icon) or random",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Value: 1,
				Usage: "seed for board shuffles and the random strategy",
			},
			&cli.DurationFlag{
				Name:  "think",
				Value: 500 * time.Millisecond,
				Usage: "simulated time between two flips",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			config, err := loadSimConfig(cmd.String("dir"), cmd.String("config"))
			if err != nil {
				return err
			}

			mode := config.DefaultMode
			if m := cmd.String("mode"); m != "" {
				if mode, err = engine.ParseMode(m); err != nil {
					return err
				}
			}

			report, err := Simulate(ctx, config, SimOptions{
				Mode:     mode,
				Games:    cmd.Int("games"),
				Strategy: cmd.String("strategy"),
				Seed:     uint64(cmd.Int64("seed")),
				Think:    cmd.Duration("think"),
			})
			if err != nil {
				return err
			}

			printReport(cmd.Root().Writer, report)
			return nil
		},
	}
}

// loadSimConfig treats name as a file when it looks like a path
func loadSimConfig(dir, name string) (*engine.GameConfig, error) {
	if strings.ContainsAny(name, `/\`) {
		return engine.LoadGameConfig(name)
	}
	return engine.LoadConfigByName(dir, name)
}

func newStrategy(name string, seed uint64) (Strategy, error) {
	switch name {
	case "perfect":
		return &perfectMemory{}, nil
	case "random":
		return &randomPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q (use perfect or random)", name)
}

// Simulate plays opts.Games games of config and aggregates the outcomes
func Simulate(ctx context.Context, config *engine.GameConfig, opts SimOptions) (*SimReport, error) {
	if opts.Games < 1 {
		return nil, fmt.Errorf("games must be at least 1, got %d", opts.Games)
	}
	if opts.Mode == "" {
		opts.Mode = config.DefaultMode
	}

	strategy, err := newStrategy(opts.Strategy, opts.Seed)
	if err != nil {
		return nil, err
	}

	report := &SimReport{
		Config:   config.Name,
		Mode:     opts.Mode,
		Strategy: strategy.Name(),
		Games:    opts.Games,
		Outcomes: make(map[engine.Outcome]int),
	}

	totalMoves := 0
	for i := 0; i < opts.Games; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rng := rand.New(rand.NewPCG(opts.Seed, uint64(i)))
		result, err := playGame(config, opts.Mode, strategy, rng, opts.Think)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", i+1, err)
		}

		log.Debug().
			Int("game", i+1).
			Str("outcome", string(result.Outcome)).
			Int("moves", result.Moves).
			Int("pairs", result.Pairs).
			Msg("simulated game")

		report.Results = append(report.Results, result)
		report.Outcomes[result.Outcome]++
		totalMoves += result.Moves
		if i == 0 || result.Moves < report.MinMoves {
			report.MinMoves = result.Moves
		}
		if result.Moves > report.MaxMoves {
			report.MaxMoves = result.Moves
		}
	}
	report.AvgMoves = float64(totalMoves) / float64(opts.Games)

	return report, nil
}

// playGame runs one game to its end on a manual clock
func playGame(config *engine.GameConfig, mode engine.GameMode, strategy Strategy, rng *rand.Rand, think time.Duration) (GameResult, error) {
	clk := engine.NewManualClock(time.Unix(0, 0))
	eng, err := engine.NewEngine(config,
		engine.WithClock(clk),
		engine.WithRand(rng),
		engine.WithMode(mode),
	)
	if err != nil {
		return GameResult{}, err
	}
	defer eng.Close()

	strategy.Reset()
	state := eng.GetState()

	for step := 0; !state.GameOver; step++ {
		if step >= maxStepsPerGame {
			return GameResult{}, errStuck
		}

		if state.Locked {
			clk.Advance(config.RevealDelay())
			state = eng.GetState()
			continue
		}

		eng.HandleSelection(strategy.Next(state))
		state = eng.GetState()
		strategy.Observe(state)

		if think > 0 && !state.GameOver {
			clk.Advance(think)
			state = eng.GetState()
		}
	}

	return GameResult{
		Outcome:  state.Outcome,
		Moves:    state.Moves,
		TimeLeft: state.TimeLeft,
		Pairs:    state.MatchedPairs,
	}, nil
}

func printReport(w io.Writer, r *SimReport) {
	fmt.Fprintf(w, "Config:   %s\n", r.Config)
	fmt.Fprintf(w, "Mode:     %s\n", r.Mode)
	fmt.Fprintf(w, "Strategy: %s\n", r.Strategy)
	fmt.Fprintf(w, "Games:    %d\n\n", r.Games)

	for _, outcome := range []engine.Outcome{engine.Win, engine.OutOfMoves, engine.TimesUp} {
		n := r.Outcomes[outcome]
		fmt.Fprintf(w, "  %-13s %5d  (%5.1f%%)\n", outcome, n, 100*float64(n)/float64(r.Games))
	}

	fmt.Fprintf(w, "\nMoves: avg %.2f, min %d, max %d\n", r.AvgMoves, r.MinMoves, r.MaxMoves)
}

// perfectMemory remembers every icon it has seen. It matches known pairs
// first and otherwise explores the lowest unseen card.
type perfectMemory struct {
	known map[engine.CardID]engine.Icon
}

func (p *perfectMemory) Name() string { return "perfect" }

func (p *perfectMemory) Reset() {
	p.known = make(map[engine.CardID]engine.Icon)
}

func (p *perfectMemory) Observe(state *engine.GameState) {
	for _, card := range state.Cards {
		switch {
		case card.State == engine.Matched:
			delete(p.known, card.ID)
		case card.Icon != "":
			p.known[card.ID] = card.Icon
		}
	}
}

func (p *perfectMemory) Next(state *engine.GameState) engine.CardID {
	hidden := func(id engine.CardID) bool {
		return state.Cards[id].State == engine.Hidden
	}

	if state.FirstCard == nil {
		// A known pair first
		seen := make(map[engine.Icon]engine.CardID)
		for id := engine.CardID(0); int(id) < len(state.Cards); id++ {
			icon, ok := p.known[id]
			if !ok || !hidden(id) {
				continue
			}
			if _, dup := seen[icon]; dup {
				return seen[icon]
			}
			seen[icon] = id
		}
		return p.unseen(state, -1)
	}

	first := *state.FirstCard
	icon := state.Cards[first].Icon
	for id, known := range p.known {
		if id != first && known == icon && hidden(id) {
			return id
		}
	}
	return p.unseen(state, first)
}

// unseen returns the lowest face-down card never seen, else any face-down card
func (p *perfectMemory) unseen(state *engine.GameState, exclude engine.CardID) engine.CardID {
	fallback := engine.CardID(-1)
	for _, card := range state.Cards {
		if card.State != engine.Hidden || card.ID == exclude {
			continue
		}
		if _, ok := p.known[card.ID]; !ok {
			return card.ID
		}
		if fallback < 0 {
			fallback = card.ID
		}
	}
	return fallback
}

// randomPicker flips a uniformly random face-down card and remembers nothing
type randomPicker struct {
	rng *rand.Rand
}

func (r *randomPicker) Name() string { return "random" }

func (r *randomPicker) Reset() {}

func (r *randomPicker) Observe(*engine.GameState) {}

func (r *randomPicker) Next(state *engine.GameState) engine.CardID {
	var candidates []engine.CardID
	for _, card := range state.Cards {
		if card.State == engine.Hidden {
			candidates = append(candidates, card.ID)
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[r.rng.IntN(len(candidates))]
}
