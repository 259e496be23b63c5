package ledger

import (
	"errors"
	"time"
)

// DefaultKhata is the unfiltered sub-ledger label.
const DefaultKhata = "All Khatas"

// LedgerEntry is one dues row. Entries are independent and append-only
// per transaction; the balance is never stored, it is replayed from all
// prior entries in date order. Only name and date are mutable after
// creation.
type LedgerEntry struct {
	ID               int64     `json:"id" db:"id"`
	KhataName        string    `json:"khata_name" db:"khata_name"`
	Name             string    `json:"name" db:"name"`
	SinglePiecePrice float64   `json:"single_piece_price" db:"single_piece_price"`
	MedicinePieces   int64     `json:"m_pieces" db:"m_pieces"`
	FeedPieces       int64     `json:"total_piece" db:"total_piece"`
	OtherPieces      int64     `json:"o_pieces" db:"o_pieces"`
	GivenDues        float64   `json:"given_dues" db:"given_dues"`
	TakenDues        float64   `json:"taken_dues" db:"taken_dues"`
	Date             time.Time `json:"date" db:"date"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// StatementLine is one row of the derived running ledger.
type StatementLine struct {
	Entry                 LedgerEntry `json:"entry"`
	DisplayName           string      `json:"display_name"`
	IsReturn              bool        `json:"is_return"`
	IsPayment             bool        `json:"is_payment"`
	RunningNetDues        float64     `json:"running_net_dues"`
	RunningMedicinePieces int64       `json:"running_medicine_pieces"`
	RunningFeedPieces     int64       `json:"running_feed_pieces"`
	RunningOtherPieces    int64       `json:"running_other_pieces"`
	RunningPieceValue     float64     `json:"running_piece_value"`
}

var (
	// ErrInvalidInput wraps request-level validation failures.
	ErrInvalidInput = errors.New("ledger: invalid input")
	// ErrNotFound indicates a missing ledger entry.
	ErrNotFound = errors.New("ledger: entry not found")
	// ErrKhataNotFound fires when renaming a khata nobody uses.
	ErrKhataNotFound = errors.New("ledger: khata not found")
	// ErrKhataNameConflict fires when the target khata name already exists.
	ErrKhataNameConflict = errors.New("ledger: khata name already exists")
)
