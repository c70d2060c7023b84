package registry

// HunterRecord is the persisted shape of a hunter: (name, rank, successRate, busy).
type HunterRecord struct {
	Name        string `json:"name"`
	Rank        int    `json:"rank"`
	SuccessRate int    `json:"success_rate"`
	Busy        bool   `json:"busy"`
}

// MonsterRecord is the persisted shape of a monster: (species, requiredRank).
type MonsterRecord struct {
	Species      string `json:"species"`
	RequiredRank int    `json:"required_rank"`
}

// Roster is what a store loads and saves. Order is significant: it is the
// assignment tie-break order for hunters.
type Roster struct {
	Hunters  []HunterRecord  `json:"hunters"`
	Monsters []MonsterRecord `json:"monsters"`
}
