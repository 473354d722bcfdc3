package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dosada05/groupcup/brackets"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// readPlayers accepts either a bare YAML list of names or a document with a
// top-level "players" list.
func readPlayers(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read players file: %w", err)
	}

	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc struct {
		Players []string `yaml:"players"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("players file must be a YAML list of names: %w", err)
	}
	return doc.Players, nil
}

func loadRecord(path string) (*brackets.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	var rec brackets.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("record %s is not valid: %w", path, err)
	}
	return &rec, nil
}

// saveRecord replaces the file via rename so an interrupted write never
// leaves a truncated record behind.
func saveRecord(path string, rec *brackets.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".groupcup-*.json")
	if err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func writeReport(cCtx *cli.Context, report interface{}) error {
	location := cCtx.String(outputFlag)
	if location == "" || location == stdoutCLIName {
		return writeYAML(cCtx.App.Writer, report)
	}

	f, err := os.OpenFile(location, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeYAML(f, report)
}

func writeYAML(w io.Writer, v interface{}) error {
	yamlEncoder := yaml.NewEncoder(w)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(v); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := yamlEncoder.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}

type standingRow struct {
	Rank   int    `yaml:"rank"`
	Name   string `yaml:"name"`
	Points int    `yaml:"points"`
	GD     int    `yaml:"gd"`
}

type scheduledMatch struct {
	Index int    `yaml:"index"`
	Round int    `yaml:"round"`
	Match string `yaml:"match"`
}

type standingsReport struct {
	Standings []standingRow    `yaml:"standings"`
	Complete  bool             `yaml:"group_complete"`
	Schedule  []scheduledMatch `yaml:"schedule"`
}

func newStandingsReport(rec *brackets.Record) standingsReport {
	report := standingsReport{Complete: rec.GroupComplete()}
	for i, s := range rec.SortedStandings() {
		report.Standings = append(report.Standings, standingRow{Rank: i + 1, Name: s.Name, Points: s.Points, GD: s.GD})
	}
	for i, m := range rec.Schedule {
		report.Schedule = append(report.Schedule, scheduledMatch{Index: i, Round: m.Round, Match: m.String()})
	}
	return report
}

type bracketReport struct {
	Seeds    []string `yaml:"seeds"`
	Playins  []string `yaml:"playins,omitempty"`
	QFs      []string `yaml:"qfs,omitempty"`
	SFs      []string `yaml:"sfs,omitempty"`
	Final    string   `yaml:"final"`
	Champion string   `yaml:"champion,omitempty"`
	// Affected names the matches fed by the one just scored or cleared.
	Affected []string `yaml:"affected,omitempty"`
}

func newBracketReport(b *brackets.Bracket) bracketReport {
	describe := func(matches []brackets.Match) []string {
		out := make([]string, 0, len(matches))
		for _, m := range matches {
			out = append(out, m.String())
		}
		return out
	}

	report := bracketReport{
		Seeds:   b.Seeds[:b.Shape()],
		Playins: describe(b.Playins),
		QFs:     describe(b.QFs),
		SFs:     describe(b.SFs),
		Final:   b.Final.String(),
	}
	if champion, ok := b.Champion(); ok {
		report.Champion = champion
	}
	return report
}
