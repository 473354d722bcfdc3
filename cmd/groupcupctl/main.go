package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/Dosada05/groupcup/utils"
	"github.com/urfave/cli/v2"
)

const (
	recordFlag   = "record"
	playersFlag  = "players"
	outputFlag   = "output"
	seedFlag     = "seed"
	forceFlag    = "force"
	matchFlag    = "match"
	stageFlag    = "stage"
	indexFlag    = "index"
	score1Flag   = "score1"
	score2Flag   = "score2"
	clearFlag    = "clear"
	passwordFlag = "password"
	costFlag     = "cost"

	stdoutCLIName = "-"
)

var build string
var semanticVersion = "v0.1.0-dev" + build

func recordFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     recordFlag,
		Aliases:  []string{"r"},
		Usage:    "Path to the tournament record (JSON)",
		Required: true,
	}
}

func outputFileFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    outputFlag,
		Aliases: []string{"o"},
		Usage:   "Where to write the YAML report. Can be a file path or \"-\" (for stdout).",
		Value:   stdoutCLIName,
	}
}

func scoreFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: score1Flag, Usage: "Score of the first player"},
		&cli.IntFlag{Name: score2Flag, Usage: "Score of the second player"},
		&cli.BoolFlag{Name: clearFlag, Usage: "Remove the recorded result instead of setting one"},
	}
}

// scores reads both score flags; they must be given together.
func scores(cCtx *cli.Context) (int, int, error) {
	if !cCtx.IsSet(score1Flag) || !cCtx.IsSet(score2Flag) {
		return 0, 0, fmt.Errorf("both --%s and --%s are required (or pass --%s)", score1Flag, score2Flag, clearFlag)
	}
	return cCtx.Int(score1Flag), cCtx.Int(score2Flag), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "groupcupctl",
		Usage:   "Run a round-robin group and its knockout bracket from a local record file",
		Version: semanticVersion,
		Commands: []*cli.Command{
			{
				Name:  "start",
				Usage: "Draw players from a YAML list into a new record",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     playersFlag,
						Aliases:  []string{"p"},
						Usage:    "YAML file with the player names",
						Required: true,
					},
					recordFileFlag(),
					&cli.Int64Flag{Name: seedFlag, Usage: "Seed for the group draw (0 picks one from the clock)"},
					&cli.BoolFlag{Name: forceFlag, Usage: "Overwrite an existing record"},
				},
				Action: startAction,
			},
			{
				Name:   "score",
				Usage:  "Record or clear a group match result",
				Flags:  append([]cli.Flag{recordFileFlag(), &cli.IntFlag{Name: matchFlag, Aliases: []string{"m"}, Usage: "Index of the match in the schedule", Required: true}}, scoreFlags()...),
				Action: scoreAction,
			},
			{
				Name:   "standings",
				Usage:  "Print the group table and schedule",
				Flags:  []cli.Flag{recordFileFlag(), outputFileFlag()},
				Action: standingsAction,
			},
			{
				Name:   "knockout",
				Usage:  "Build the knockout bracket on first use and print it",
				Flags:  []cli.Flag{recordFileFlag(), outputFileFlag()},
				Action: knockoutAction,
			},
			{
				Name:  "knockout-score",
				Usage: "Record or clear a knockout match result, building the bracket if needed",
				Flags: append([]cli.Flag{
					recordFileFlag(),
					&cli.StringFlag{Name: stageFlag, Aliases: []string{"s"}, Usage: "playins, qfs, sfs or final", Required: true},
					&cli.IntFlag{Name: indexFlag, Aliases: []string{"i"}, Usage: "Index of the match within the stage"},
				}, scoreFlags()...),
				Action: knockoutScoreAction,
			},
			{
				Name:  "hash-password",
				Usage: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: passwordFlag, Usage: "Password to hash", Required: true, EnvVars: []string{"GROUPCUP_PASSWORD"}},
					&cli.IntFlag{Name: costFlag, Usage: "bcrypt cost", Value: utils.BcryptCost},
				},
				Action: func(cCtx *cli.Context) error {
					hash, err := utils.HashPasswordWithCost(cCtx.String(passwordFlag), cCtx.Int(costFlag))
					if err != nil {
						return err
					}
					_, err = fmt.Fprintln(cCtx.App.Writer, hash)
					return err
				},
			},
		},
	}
}

func startAction(cCtx *cli.Context) error {
	path := cCtx.String(recordFlag)
	if _, err := os.Stat(path); err == nil && !cCtx.Bool(forceFlag) {
		return fmt.Errorf("record %s already exists, pass --%s to overwrite it", path, forceFlag)
	}

	names, err := readPlayers(cCtx.String(playersFlag))
	if err != nil {
		return err
	}
	players, err := utils.NormalizeNames(names)
	if err != nil {
		return err
	}
	if len(players) < 2 {
		return errors.New("at least 2 players are required")
	}

	seed := cCtx.Int64(seedFlag)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rec := brackets.NewRecord(players, rand.New(rand.NewSource(seed)))
	if err := saveRecord(path, rec); err != nil {
		return err
	}
	return writeYAML(cCtx.App.Writer, newStandingsReport(rec))
}

func scoreAction(cCtx *cli.Context) error {
	return updateRecord(cCtx, func(rec *brackets.Record) (interface{}, error) {
		index := cCtx.Int(matchFlag)
		if cCtx.Bool(clearFlag) {
			if err := rec.ClearGroupScore(index); err != nil {
				return nil, err
			}
			return newStandingsReport(rec), nil
		}
		s1, s2, err := scores(cCtx)
		if err != nil {
			return nil, err
		}
		if err := rec.RecordGroupScore(index, s1, s2); err != nil {
			return nil, err
		}
		return newStandingsReport(rec), nil
	})
}

func standingsAction(cCtx *cli.Context) error {
	rec, err := loadRecord(cCtx.String(recordFlag))
	if err != nil {
		return err
	}
	return writeReport(cCtx, newStandingsReport(rec))
}

func knockoutAction(cCtx *cli.Context) error {
	return updateRecord(cCtx, func(rec *brackets.Record) (interface{}, error) {
		b, _, err := rec.EnsureKnockout()
		if err != nil {
			return nil, err
		}
		return newBracketReport(b), nil
	})
}

func knockoutScoreAction(cCtx *cli.Context) error {
	stage, err := brackets.ParseStage(cCtx.String(stageFlag))
	if err != nil {
		return err
	}
	ref := brackets.MatchRef{Stage: stage, Index: cCtx.Int(indexFlag)}

	return updateRecord(cCtx, func(rec *brackets.Record) (interface{}, error) {
		if cCtx.Bool(clearFlag) {
			if err := rec.ClearKnockoutScore(ref); err != nil {
				return nil, err
			}
		} else {
			s1, s2, err := scores(cCtx)
			if err != nil {
				return nil, err
			}
			if err := rec.RecordKnockoutScore(ref, s1, s2); err != nil {
				return nil, err
			}
		}
		report := newBracketReport(rec.Knockout)
		downstream, err := rec.Knockout.Downstream(ref)
		if err != nil {
			return nil, err
		}
		for _, r := range downstream {
			report.Affected = append(report.Affected, r.String())
		}
		return report, nil
	})
}

// updateRecord loads the record, applies fn, saves it back and prints what fn
// returned. Nothing is written when fn fails.
func updateRecord(cCtx *cli.Context, fn func(*brackets.Record) (interface{}, error)) error {
	path := cCtx.String(recordFlag)
	rec, err := loadRecord(path)
	if err != nil {
		return err
	}
	report, err := fn(rec)
	if err != nil {
		return err
	}
	if err := saveRecord(path, rec); err != nil {
		return err
	}
	return writeReport(cCtx, report)
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("groupcupctl failed", slog.Any("error", err))
		os.Exit(1)
	}
}
