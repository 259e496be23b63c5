package ledger

import "time"

type CreateEntryRequest struct {
	KhataName        string    `json:"khata_name" validate:"omitempty,max=200"`
	Name             string    `json:"name" validate:"required,max=200"`
	SinglePiecePrice float64   `json:"single_piece_price" validate:"gte=0"`
	MedicinePieces   int64     `json:"m_pieces" validate:"gte=0"`
	FeedPieces       int64     `json:"total_piece" validate:"gte=0"`
	OtherPieces      int64     `json:"o_pieces" validate:"gte=0"`
	GivenDues        float64   `json:"given_dues" validate:"gte=0"`
	TakenDues        float64   `json:"taken_dues" validate:"gte=0"`
	Date             time.Time `json:"date"`
}

// UpdateEntryRequest deliberately carries only the mutable fields.
// Monetary and piece fields are immutable once an entry exists.
type UpdateEntryRequest struct {
	Name *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Date *time.Time `json:"date,omitempty"`
}

type RenameKhataRequest struct {
	OldKhataName string `json:"oldKhataName" validate:"required,max=200"`
	NewKhataName string `json:"newKhataName" validate:"required,max=200"`
}
