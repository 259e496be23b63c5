package ledger

import "strings"

// returnMarkers flag an entry as a return when the counterparty name
// contains any of them.
var returnMarkers = []string{"return", "gai"}

// DefaultBankCatalogue lists the bank names and abbreviations recognised
// as payment entries. Injectable so deployments can extend it without a
// code change.
var DefaultBankCatalogue = []string{
	"HBL", "UBL", "MCB", "NBP", "Allied Bank", "ABL", "Meezan",
	"Bank Alfalah", "Alfalah", "Faysal", "Askari", "Soneri", "Summit",
	"Silk Bank", "Silkbank", "Bank of Punjab", "BOP", "Sindh Bank",
	"JS Bank", "Samba", "Standard Chartered", "Citibank", "HabibMetro",
	"Habib Metropolitan", "Bank Al Habib", "BankIslami", "Dubai Islamic",
	"Al Baraka", "FINCA", "Khushhali", "U Microfinance", "JazzCash",
	"Easypaisa", "Telenor Bank", "NayaPay", "SadaPay", "ZTBL",
	"First Women Bank", "Bank of Khyber", "Bank of AJK",
}

// Classifier decides how a ledger entry is rendered and whether its piece
// counters reverse sign. Classification is by substring match against the
// counterparty name only; it never inspects amounts.
type Classifier struct {
	banks []string
}

// NewClassifier builds a Classifier over the given bank catalogue.
// A nil catalogue means DefaultBankCatalogue.
func NewClassifier(banks []string) *Classifier {
	if banks == nil {
		banks = DefaultBankCatalogue
	}
	return &Classifier{banks: banks}
}

// IsReturn reports whether the name marks a return entry. Returns negate
// the running piece counters; the dues counter is unaffected.
func (c *Classifier) IsReturn(name string) bool {
	lower := strings.ToLower(name)
	for _, marker := range returnMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// IsPayment reports whether the name references a catalogued bank.
// Payment classification changes the display label only, never the sign
// of any running total.
func (c *Classifier) IsPayment(name string) bool {
	lower := strings.ToLower(name)
	for _, bank := range c.banks {
		if strings.Contains(lower, strings.ToLower(bank)) {
			return true
		}
	}
	return false
}

// DisplayName synthesises the rendered name: an optional "Return "/"
// "Payment " prefix (return wins when both apply) plus a piece-type
// prefix for each nonzero piece kind, each prefix suppressed when the
// raw name already carries it.
func (c *Classifier) DisplayName(entry LedgerEntry) string {
	name := entry.Name
	lower := strings.ToLower(name)

	var prefix strings.Builder
	switch {
	case c.IsReturn(name):
		if !strings.Contains(lower, "return") {
			prefix.WriteString("Return ")
		}
	case c.IsPayment(name):
		if !strings.Contains(lower, "payment") {
			prefix.WriteString("Payment ")
		}
	}

	var kinds []string
	if entry.MedicinePieces != 0 && !strings.Contains(lower, "medicine") {
		kinds = append(kinds, "Medicine")
	}
	if entry.FeedPieces != 0 && !strings.Contains(lower, "feed") {
		kinds = append(kinds, "Feed")
	}
	if entry.OtherPieces != 0 && !strings.Contains(lower, "other") {
		kinds = append(kinds, "Other")
	}
	if len(kinds) > 0 {
		prefix.WriteString(strings.Join(kinds, " & "))
		prefix.WriteString(" ")
	}

	return prefix.String() + name
}
