package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/otel/trace/noop"

	scoringservice "github.com/fairway-collective/scorecard/app/modules/scoring/application"
	scoringevents "github.com/fairway-collective/scorecard/app/modules/scoring/events"
	"github.com/fairway-collective/scorecard/app/modules/scoring/infrastructure/gateway"
	"github.com/fairway-collective/scorecard/config"
	"github.com/fairway-collective/scorecard/eventbus"
	"github.com/fairway-collective/scorecard/internal/observability"
	"github.com/fairway-collective/scorecard/prefs"
)

func main() {
	app := &cli.App{
		Name:  "scorecard",
		Usage: "drive a scoring session against the remote scoring service",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
		},
		Commands: []*cli.Command{
			{
				Name:  "session",
				Usage: "open a scoring session and apply edits read from stdin",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scorecard", Required: true, Usage: "scorecard ID"},
					&cli.StringFlag{Name: "game", Required: true, Usage: "game ID"},
					&cli.StringFlag{Name: "course", Required: true, Usage: "course ID"},
				},
				Action: runSession,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runSession(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	tracer := noop.NewTracerProvider().Tracer("scorecard")

	store, err := prefs.Open(cfg.Prefs.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	settings, err := store.Load()
	if err != nil {
		return err
	}
	settings.LastGameID = c.String("game")
	settings.LastScorecardID = c.String("scorecard")
	if err := store.Save(settings); err != nil {
		return err
	}

	bus := eventbus.New(logger)
	defer bus.Close()

	registry := prometheus.NewRegistry()
	gw := gateway.New(cfg, logger, observability.NewPrometheusGatewayMetrics(registry), tracer)
	svc := scoringservice.NewSessionService(gw, bus.Publisher(), logger, observability.NewPrometheusScoringMetrics(registry), tracer)

	ctx := context.Background()
	messages, err := bus.Subscriber().Subscribe(ctx, scoringevents.TopicCellUpdated)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	go printCellUpdates(messages)

	if err := svc.Load(ctx, c.String("scorecard"), c.String("game"), c.String("course")); err != nil {
		return fmt.Errorf("session load failed: %w", err)
	}

	printRoster(svc)
	fmt.Println(`edits: "<playerID> <hole> <gross>" enters a score, "-" as gross clears, "quit" exits`)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}
		if err := applyEdit(ctx, svc, line); err != nil {
			fmt.Println("error:", err)
		}
	}
	return scanner.Err()
}

func applyEdit(ctx context.Context, svc *scoringservice.SessionService, line string) error {
	fields := strings.Fields(line)
	if len(fields) != 3 {
		return fmt.Errorf("expected: <playerID> <hole> <gross|->")
	}
	playerID := fields[0]
	hole, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("invalid hole %q", fields[1])
	}

	var gross *int
	if fields[2] != "-" {
		g, err := strconv.Atoi(fields[2])
		if err != nil {
			return fmt.Errorf("invalid gross %q", fields[2])
		}
		gross = &g
	}

	outcome := <-svc.EditCell(ctx, playerID, hole, gross)
	if outcome.Err != nil {
		return outcome.Err
	}
	fmt.Printf("%s hole %d: %s", playerID, hole, outcome.Kind)
	if outcome.Score != nil && outcome.Score.NetScore != nil {
		fmt.Printf(" (gross %d, net %d)", *outcome.Score.GrossScore, *outcome.Score.NetScore)
	}
	fmt.Println()
	return nil
}

// printCellUpdates prints the reconciled totals carried on every cell-updated
// event until the bus closes the stream.
func printCellUpdates(messages <-chan *message.Message) {
	for msg := range messages {
		var payload scoringevents.CellUpdatedPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			msg.Ack()
			continue
		}
		fmt.Printf("  %s hole %d %s, totals: front %d/%d back %d/%d total %d/%d\n",
			payload.PlayerID, payload.HoleNumber, payload.Change,
			payload.Totals.FrontGross, payload.Totals.FrontNet,
			payload.Totals.BackGross, payload.Totals.BackNet,
			payload.Totals.TotalGross, payload.Totals.TotalNet,
		)
		msg.Ack()
	}
}

func printRoster(svc *scoringservice.SessionService) {
	for _, p := range svc.Snapshot() {
		totals := scoringservice.PlayerTotals(p)
		fmt.Printf("%s: %s, %d holes entered, total gross %d\n",
			p.PlayerID, p.DisplayName(), len(p.Scores), totals.TotalGross)
	}
}
