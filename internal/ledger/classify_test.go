package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifierIsReturn(t *testing.T) {
	c := NewClassifier(nil)

	require.True(t, c.IsReturn("Return 20 bags"))
	require.True(t, c.IsReturn("medicine RETURN"))
	require.True(t, c.IsReturn("gai feed"))
	require.False(t, c.IsReturn("Ali Traders"))
}

func TestClassifierIsPayment(t *testing.T) {
	c := NewClassifier(nil)

	require.True(t, c.IsPayment("HBL transfer 5000"))
	require.True(t, c.IsPayment("paid via easypaisa"))
	require.True(t, c.IsPayment("Meezan cheque"))
	require.False(t, c.IsPayment("cash from Ahmed"))
}

func TestClassifierCustomCatalogue(t *testing.T) {
	c := NewClassifier([]string{"Village Bank"})

	require.True(t, c.IsPayment("village bank deposit"))
	require.False(t, c.IsPayment("HBL transfer"))
}

func TestDisplayNamePrefixes(t *testing.T) {
	c := NewClassifier(nil)

	tests := []struct {
		name  string
		entry LedgerEntry
		want  string
	}{
		{
			name:  "payment prefix added",
			entry: LedgerEntry{Name: "HBL 5000"},
			want:  "Payment HBL 5000",
		},
		{
			name:  "payment prefix suppressed when present",
			entry: LedgerEntry{Name: "HBL Payment 5000"},
			want:  "HBL Payment 5000",
		},
		{
			name:  "return wins over payment",
			entry: LedgerEntry{Name: "gai HBL 5000"},
			want:  "Return gai HBL 5000",
		},
		{
			name:  "return prefix suppressed when present",
			entry: LedgerEntry{Name: "Return 20 bags"},
			want:  "Return 20 bags",
		},
		{
			name:  "piece kinds joined",
			entry: LedgerEntry{Name: "Ali", MedicinePieces: 2, FeedPieces: 3},
			want:  "Medicine & Feed Ali",
		},
		{
			name:  "piece kind suppressed when named",
			entry: LedgerEntry{Name: "Medicine for Ali", MedicinePieces: 2},
			want:  "Medicine for Ali",
		},
		{
			name:  "plain name untouched",
			entry: LedgerEntry{Name: "Ahmed"},
			want:  "Ahmed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, c.DisplayName(tc.entry))
		})
	}
}
