// Command simulate plays scripted games against the service layer and
// prints a turn-by-turn account. Dice are seeded, so a given seed always
// produces the same game. Useful for exercising board definitions and for
// eyeballing rent and bankruptcy dynamics before publishing a definition.
package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ocastro/magnate/game/config"
	"github.com/ocastro/magnate/game/service"
	"github.com/ocastro/magnate/game/session"
)

var playerPool = []service.PlayerSpec{
	{Name: "Ana", Color: "RED"},
	{Name: "Bruno", Color: "BLUE"},
	{Name: "Clara", Color: "GREEN"},
	{Name: "Diego", Color: "YELLOW"},
	{Name: "Elisa", Color: "PURPLE"},
	{Name: "Fabio", Color: "ORANGE"},
}

func main() {
	cmd := &cli.Command{
		Name:  "simulate",
		Usage: "play a seeded game and print what happens each turn",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config-dir",
				Value: "configs",
				Usage: "directory containing board and deck definitions",
			},
			&cli.StringFlag{
				Name:  "definition",
				Value: config.DefaultDefinition,
				Usage: "board/deck definition to play",
			},
			&cli.IntFlag{
				Name:  "players",
				Value: 4,
				Usage: "number of players (2 to 6)",
			},
			&cli.IntFlag{
				Name:  "turns",
				Value: 50,
				Usage: "maximum number of turns to play",
			},
			&cli.IntFlag{
				Name:  "seed",
				Value: 1,
				Usage: "dice seed",
			},
			&cli.IntFlag{
				Name:  "cash",
				Value: 0,
				Usage: "starting cash per player (0 uses the default)",
			},
			&cli.IntFlag{
				Name:  "bank",
				Value: 0,
				Usage: "bank reserve (0 uses the default)",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "only print the final standings",
			},
		},
		Action: runSimulation,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func runSimulation(ctx context.Context, cmd *cli.Command) error {
	playerCount := int(cmd.Int("players"))
	if playerCount < 2 || playerCount > len(playerPool) {
		return fmt.Errorf("players must be between 2 and %d", len(playerPool))
	}

	definitions, err := config.NewManager(cmd.String("config-dir"))
	if err != nil {
		return err
	}
	svc := service.NewGameService(session.NewManager(), definitions)

	info, err := svc.CreateGame(ctx, cmd.String("definition"), playerPool[:playerCount],
		int(cmd.Int("cash")), int(cmd.Int("bank")))
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")
	rng := rand.New(rand.NewSource(int64(cmd.Int("seed"))))

	fmt.Printf("Game %s on %q with %d players\n\n", info.ID, info.Definition, playerCount)

	if _, err := playGame(ctx, svc, info.ID, rng, int(cmd.Int("turns")), quiet); err != nil {
		return err
	}

	return printStandings(ctx, svc, info.ID)
}

// playGame plays turns until a single player remains or the turn limit is
// reached. It returns the number of turns actually played.
func playGame(ctx context.Context, svc service.GameService, gameID string, rng *rand.Rand, maxTurns int, quiet bool) (int, error) {
	played := 0
	for turn := 1; turn <= maxTurns; turn++ {
		state, err := svc.GetGameState(ctx, gameID)
		if err != nil {
			return played, err
		}
		if state.AliveCount <= 1 {
			break
		}

		if err := playTurn(ctx, svc, gameID, rng, turn, quiet); err != nil {
			return played, err
		}
		played++
	}
	return played, nil
}

// playTurn rolls for the current player, buys or builds greedily when the
// rules allow it, and ends the turn.
func playTurn(ctx context.Context, svc service.GameService, gameID string, rng *rand.Rand, turn int, quiet bool) error {
	d1, d2 := rng.Intn(6)+1, rng.Intn(6)+1
	if err := svc.SetMockedDice(ctx, gameID, d1, d2); err != nil {
		return err
	}

	roll, err := svc.RollDice(ctx, gameID)
	if err != nil {
		return err
	}

	actor := currentPlayerName(roll.State)
	if !quiet {
		if roll.Success {
			fmt.Printf("Turn %3d: %s rolls %d+%d", turn, actor, d1, d2)
			if roll.LandedSquare != "" {
				fmt.Printf(", lands on %s", roll.LandedSquare)
			}
			fmt.Println()
			for _, tx := range roll.Transactions {
				fmt.Printf("          $%d: %s -> %s\n", tx.Amount, tx.From, tx.To)
			}
		} else {
			fmt.Printf("Turn %3d: %s cannot roll (%s)\n", turn, actor, roll.Reason)
		}
	}

	// Greedy strategy: buy whatever we land on, then try to improve it.
	if roll.LandedOwnable != "" {
		if result, err := svc.BuyProperty(ctx, gameID); err != nil {
			return err
		} else if result.Success && !quiet {
			fmt.Printf("          %s buys %s\n", actor, roll.LandedOwnable)
		}
	} else {
		for _, build := range []func(context.Context, string) (*service.ActionResult, error){svc.BuildHotel, svc.BuildHouse} {
			result, err := build(ctx, gameID)
			if err != nil {
				return err
			}
			if result.Success {
				if !quiet {
					fmt.Printf("          %s builds on the current square\n", actor)
				}
				break
			}
		}
	}

	_, err = svc.EndTurn(ctx, gameID)
	return err
}

func currentPlayerName(state *service.GameState) string {
	if state == nil {
		return "?"
	}
	for _, p := range state.Players {
		if p.ID == state.CurrentPlayerID {
			return p.Name
		}
	}
	return state.CurrentPlayerID
}

func printStandings(ctx context.Context, svc service.GameService, gameID string) error {
	state, err := svc.GetGameState(ctx, gameID)
	if err != nil {
		return err
	}

	fmt.Println("\nFinal standings:")
	for _, p := range state.Players {
		status := "alive"
		if !p.Alive {
			status = "bankrupt"
		}
		fmt.Printf("  %-8s %-6s $%-7d %d properties (%s)\n",
			p.Name, p.Color, p.Cash, len(p.Properties), status)
	}
	fmt.Printf("  Bank: $%d\n", state.BankCash)

	// Winners reports the current cash leaders, not game over: on a
	// fresh game every player is tied for first.
	if state.AliveCount <= 1 {
		for _, w := range state.Winners {
			fmt.Printf("\nWinner: %s\n", w.Name)
		}
	} else {
		fmt.Println("\nNo winner yet, turn limit reached")
	}
	return nil
}
