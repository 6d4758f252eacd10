package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/mitchelldurbincs/GoblinTactics/internal/config"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/core"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/layout"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/mapgen"
	"github.com/mitchelldurbincs/GoblinTactics/internal/game/search"
	"github.com/mitchelldurbincs/GoblinTactics/internal/grpc/advisor"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	scenario := flag.String("scenario", "", "Scenario YAML file (empty to use config, then a generated map)")
	mapSeed := flag.Int64("map-seed", 0, "Seed for the generated map (0 to use config, then the clock)")
	mice := flag.String("mice", "", "Strategy controlling mice (empty to use config default)")
	goblins := flag.String("goblins", "", "Strategy controlling goblins (empty to use config default)")
	depth := flag.Int("depth", -1, "Search depth (-1 to use config default)")
	maxTurns := flag.Int("max-turns", -1, "Turn limit, 0 for none (-1 to use config default)")
	advisorAddr := flag.String("advisor", "", "Run searches on the advisor server at this address")
	quiet := flag.Bool("quiet", false, "Only print the final board")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize config")
	}
	if err := config.LoadEnvironmentConfig(os.Getenv("APP_ENV")); err != nil {
		log.Fatal().Err(err).Msg("Failed to load environment config")
	}
	cfg := config.Get()

	if *scenario != "" {
		config.Set("match.scenario", *scenario)
	}
	if *mapSeed != 0 {
		config.Set("game.map.seed", *mapSeed)
	}
	if *mice != "" {
		config.Set("match.mice", *mice)
	}
	if *goblins != "" {
		config.Set("match.goblins", *goblins)
	}
	if *depth >= 0 {
		config.Set("search.depth", *depth)
	}
	if *maxTurns >= 0 {
		config.Set("match.max_turns", *maxTurns)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid settings")
	}

	setupLogging(cfg.Log)

	board, first, err := loadBoard(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build board")
	}

	var client *advisor.Client
	if *advisorAddr != "" {
		conn, err := grpc.NewClient(*advisorAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
		if err != nil {
			log.Fatal().Err(err).Str("address", *advisorAddr).Msg("Failed to connect to advisor")
		}
		defer conn.Close()
		client = advisor.NewClient(conn)
	}

	bus := events.NewEventBus()
	if cfg.Development.LogEvents {
		bus.Subscribe(subscribers.NewLoggerSubscriber("cli_events", log.Logger, zerolog.InfoLevel))
	}

	m, err := game.NewMatch(board,
		game.WithFirst(first),
		game.WithMaxTurns(cfg.Match.MaxTurns),
		game.WithEventBus(bus),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create match")
	}

	controllers := map[core.Faction]search.Strategy{}
	for f, name := range map[core.Faction]string{core.Mice: cfg.Match.Mice, core.Goblins: cfg.Match.Goblins} {
		s, err := newController(cfg, name, client, m.Logger())
		if err != nil {
			log.Fatal().Err(err).Str("faction", f.String()).Msg("Failed to create strategy")
		}
		controllers[f] = s
	}

	if err := m.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start match")
	}

	log.Info().
		Str("match_id", m.ID()).
		Str("mice", controllers[core.Mice].Name()).
		Str("goblins", controllers[core.Goblins].Name()).
		Int("depth", cfg.Search.Depth).
		Msg("Match started")

	show := cfg.Development.ShowBoard && !*quiet
	if show {
		fmt.Print(game.Render(m.Board(), cfg.Development.ColorBoard))
	}

	fallback := search.NewRandom(search.WithLogger(m.Logger()))
	for !m.Phase().IsTerminal() {
		res, err := playTurn(m, controllers[m.ToMove()], fallback, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Turn failed")
		}
		if show {
			printTurn(res)
			fmt.Print(game.Render(m.Board(), cfg.Development.ColorBoard))
		}
	}

	if !show {
		fmt.Print(game.Render(m.Board(), cfg.Development.ColorBoard))
	}
	printResult(m)
}

// playTurn runs the controller under the configured deadline. A search that
// overruns is replaced by a random legal move.
func playTurn(m *game.Match, s search.Strategy, fallback search.Strategy, cfg *config.Config) (game.TurnResult, error) {
	ctx := context.Background()
	if timeout := cfg.TurnTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := m.PlayAITurn(ctx, s, cfg.Search.Depth)
	if !errors.Is(err, game.ErrSearchTimeout) {
		return res, err
	}

	f := m.ToMove()
	log.Warn().Str("faction", f.String()).Str("strategy", s.Name()).Msg("Search timed out, playing a random move")
	d := fallback.ChooseMove(m.Board(), f, 0)
	if d.IsNone() {
		return m.Pass(f)
	}
	return m.SubmitMove(f, d.Move)
}

func newController(cfg *config.Config, name string, client *advisor.Client, logger zerolog.Logger) (search.Strategy, error) {
	if client != nil {
		return advisor.NewRemoteStrategy(client, name, cfg.TurnTimeout()), nil
	}
	return search.New(name, cfg.SearchOptions(logger)...)
}

// loadBoard reads the configured scenario, or generates a map
func loadBoard(cfg *config.Config) (*core.Board, core.Faction, error) {
	if cfg.Match.Scenario != "" {
		sc, err := layout.LoadFile(cfg.Match.Scenario)
		if err != nil {
			return nil, core.NoFaction, err
		}
		if sc.UnitHealth == 0 {
			sc.UnitHealth = cfg.Game.UnitHealth
		}
		if sc.CommanderHealth == 0 {
			sc.CommanderHealth = cfg.Game.CommanderHealth
		}
		b, err := sc.Board()
		if err != nil {
			return nil, core.NoFaction, err
		}
		first, err := sc.FirstFaction()
		return b, first, err
	}

	seed := cfg.Game.Map.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log.Info().Int64("map_seed", seed).Msg("Generating map")

	b, err := mapgen.NewGenerator(cfg.MapConfig(), rand.New(rand.NewSource(seed))).GenerateMap()
	if err != nil {
		return nil, core.NoFaction, err
	}
	first, err := core.ParseFaction(cfg.Match.First)
	return b, first, err
}

func printTurn(res game.TurnResult) {
	if res.Passed {
		fmt.Printf("Turn %d: %s pass\n", res.Turn, res.Faction)
		return
	}
	fmt.Printf("Turn %d: %s %s", res.Turn, res.Faction, res.Move)
	if res.Decision.Found {
		fmt.Printf(" (score %.2f, %d nodes)", res.Decision.Score, res.Decision.Nodes)
	}
	fmt.Println()
	for _, a := range res.Record.Of(core.ActionKilled) {
		fmt.Printf("  unit %d killed at %s\n", a.UnitID, a.From)
	}
}

func printResult(m *game.Match) {
	fmt.Println(m.Summary())
	stats := m.Stats()
	for _, f := range core.Factions {
		fs := stats.For(f)
		fmt.Printf("%-8s units %d, commander health %d, deployed %d, hits %d, losses %d\n",
			f, fs.Units, fs.CommanderHealth, fs.Deployed, fs.HitsLanded, fs.Losses)
	}

	if w := m.Winner(); w != core.NoFaction {
		fmt.Printf("%s win by %s after %d turns\n", w, m.EndReason(), m.Turn())
	} else {
		fmt.Printf("Draw by %s after %d turns\n", m.EndReason(), m.Turn())
	}
}

func setupLogging(c config.LogConfig) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if c.Format == "json" || os.Getenv("APP_ENV") == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}
}
