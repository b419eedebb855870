package domain

import "time"

type Trip struct {
	ID           string
	OwnerID      string
	Name         string
	Participants []Participant
	Expenses     []Expense
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Participant is a named member of a trip's expense ledger. Participants are
// labels scoped to the trip, not accounts.
type Participant struct {
	ID     string
	TripID string
	Name   string
}

type Expense struct {
	ID           string
	TripID       string
	Title        string
	Amount       float64
	PaidBy       string   // Participant ID
	SplitBetween []string // Participant IDs, never empty for a valid expense
	Settled      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Balance is a participant's position in the trip ledger.
// Net is positive when the group owes them money.
type Balance struct {
	ParticipantID string  `json:"participantId"`
	Paid          float64 `json:"paid"`
	Owed          float64 `json:"owed"`
	Net           float64 `json:"net"`
}

// Transfer is a suggested settlement payment between two participants.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}
