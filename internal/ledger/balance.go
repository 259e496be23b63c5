package ledger

import (
	"sort"
	"strings"
)

// Calculator derives running totals by replaying ledger entries in
// chronological order. It holds no state between calls; computing the
// same statement twice yields identical output.
type Calculator struct {
	classifier *Classifier
}

// NewCalculator builds Calculator.
func NewCalculator(classifier *Classifier) *Calculator {
	if classifier == nil {
		classifier = NewClassifier(nil)
	}
	return &Calculator{classifier: classifier}
}

// Statement replays the entries, optionally filtered to one khata
// (DefaultKhata or empty means unfiltered), in ascending date order with
// ties broken by id. Entries without a usable date sort last, again by
// id. Each line carries the cumulative tuple after that entry.
func (c *Calculator) Statement(entries []LedgerEntry, khata string) []StatementLine {
	filtered := filterKhata(entries, khata)
	sortEntries(filtered)

	var (
		netDues    float64
		medPieces  int64
		feedPieces int64
		othPieces  int64
		pieceValue float64
	)

	lines := make([]StatementLine, 0, len(filtered))
	for _, entry := range filtered {
		isReturn := c.classifier.IsReturn(entry.Name)

		netDues += entry.TakenDues - entry.GivenDues
		if isReturn {
			medPieces -= entry.MedicinePieces
			feedPieces -= entry.FeedPieces
			othPieces -= entry.OtherPieces
		} else {
			medPieces += entry.MedicinePieces
			feedPieces += entry.FeedPieces
			othPieces += entry.OtherPieces
		}
		// Running sum of unit prices, not of totals. Display behaviour
		// the bookkeeping side depends on.
		pieceValue += entry.SinglePiecePrice

		lines = append(lines, StatementLine{
			Entry:                 entry,
			DisplayName:           c.classifier.DisplayName(entry),
			IsReturn:              isReturn,
			IsPayment:             c.classifier.IsPayment(entry.Name),
			RunningNetDues:        netDues,
			RunningMedicinePieces: medPieces,
			RunningFeedPieces:     feedPieces,
			RunningOtherPieces:    othPieces,
			RunningPieceValue:     pieceValue,
		})
	}
	return lines
}

// LastBalance returns the running net dues of the chronologically last
// entry for the khata; 0 when no entry exists. Seeds the next
// entry-creation form.
func (c *Calculator) LastBalance(entries []LedgerEntry, khata string) float64 {
	lines := c.Statement(entries, khata)
	if len(lines) == 0 {
		return 0
	}
	return lines[len(lines)-1].RunningNetDues
}

func filterKhata(entries []LedgerEntry, khata string) []LedgerEntry {
	out := make([]LedgerEntry, 0, len(entries))
	if khata == "" || strings.EqualFold(khata, DefaultKhata) {
		return append(out, entries...)
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.KhataName, khata) {
			out = append(out, entry)
		}
	}
	return out
}

// sortEntries orders ascending by date with id as the tie-break; entries
// with a zero date are unorderable and deterministically pushed to the
// end.
func sortEntries(entries []LedgerEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].Date, entries[j].Date
		switch {
		case di.IsZero() && dj.IsZero():
			return entries[i].ID < entries[j].ID
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		case di.Equal(dj):
			return entries[i].ID < entries[j].ID
		default:
			return di.Before(dj)
		}
	})
}
