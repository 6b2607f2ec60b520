package engine

// SidePot is a bucket of contributions at one all-in stack level, together
// with the seats still eligible to win it.
type SidePot struct {
	Amount        int64
	EligibleSeats []int
}

// ShowdownResult is the per-seat settlement record populated by
// distributePot for every seat that reached showdown.
type ShowdownResult struct {
	SeatIndex       int
	HandRank        int32
	HandDescription string
	ChipsWon        int64
	MustShow        bool
	HasDecided      bool
}
