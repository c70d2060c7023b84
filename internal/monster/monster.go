package monster

// Monster is a read-only quest template.
type Monster struct {
	Species      string `json:"species"`
	RequiredRank int    `json:"required_rank"`
}

// Intner is the slice of a random source PickRandom needs.
type Intner interface {
	Intn(n int) int
}
