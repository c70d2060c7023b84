package hunter

const (
	MinSuccessRate = 0
	MaxSuccessRate = 100

	// SuccessRateStep is applied up on a won quest and down on a lost one.
	SuccessRateStep = 5
)

// ID is assigned by the repository in insertion order and never reused.
type ID int

type Hunter struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Rank        int    `json:"rank"`
	SuccessRate int    `json:"success_rate"`
	Busy        bool   `json:"busy"`
}

// Eligible reports whether the hunter can be put on a quest for the given rank.
func (h Hunter) Eligible(requiredRank int) bool {
	return !h.Busy && h.Rank >= requiredRank
}

func (h *Hunter) Succeed() {
	h.SuccessRate = ClampSuccessRate(h.SuccessRate + SuccessRateStep)
	h.Rank++
	h.Busy = false
}

func (h *Hunter) Fail() {
	// rank is never lowered on failure
	h.SuccessRate = ClampSuccessRate(h.SuccessRate - SuccessRateStep)
	h.Busy = false
}

func ClampSuccessRate(sr int) int {
	return max(MinSuccessRate, min(sr, MaxSuccessRate))
}
