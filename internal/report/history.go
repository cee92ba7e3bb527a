// Package report turns population snapshots into files: per-round tallies,
// CSV tables, epidemic curves, scatter plots and video.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"epidemic-sim/internal/simulation"
)

// Tally is the per-status headcount of one round.
type Tally struct {
	Round     int
	Healthy   int
	Infected  int
	Confirmed int
}

// History collects one Tally per observed snapshot.
type History struct {
	Tallies []Tally

	peakInfected int
	peakRound    int
	saturatedAt  int
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{saturatedAt: -1}
}

// Observe records the snapshot's tally.
func (h *History) Observe(snap simulation.Snapshot) error {
	c := snap.Counts()
	t := Tally{Round: snap.Round, Healthy: c.Healthy, Infected: c.Infected, Confirmed: c.Confirmed}
	h.Tallies = append(h.Tallies, t)

	if len(h.Tallies) == 1 || t.Infected > h.peakInfected {
		h.peakInfected = t.Infected
		h.peakRound = t.Round
	}
	if h.saturatedAt < 0 && snap.Over() {
		h.saturatedAt = t.Round
	}
	return nil
}

// Peak returns the largest infected headcount and the first round it was seen.
func (h *History) Peak() (infected, round int) {
	return h.peakInfected, h.peakRound
}

// SaturatedAt returns the first round with no healthy agents, or -1.
func (h *History) SaturatedAt() int {
	return h.saturatedAt
}

// Last returns the most recent tally.
func (h *History) Last() (Tally, bool) {
	if len(h.Tallies) == 0 {
		return Tally{}, false
	}
	return h.Tallies[len(h.Tallies)-1], true
}

// WriteCSV writes the history as round,healthy,infected,confirmed rows.
func WriteCSV(w io.Writer, h *History) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"round", "healthy", "infected", "confirmed"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range h.Tallies {
		row := []string{
			strconv.Itoa(t.Round),
			strconv.Itoa(t.Healthy),
			strconv.Itoa(t.Infected),
			strconv.Itoa(t.Confirmed),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for round %d: %w", t.Round, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
