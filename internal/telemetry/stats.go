package telemetry

// Stats summarises quest activity.
type Stats struct {
	EventCounts     map[EventType]int `json:"event_counts"`
	QuestsGenerated int               `json:"quests_generated"`
	QuestsSkipped   int               `json:"quests_skipped"`
	QuestsSucceeded int               `json:"quests_succeeded"`
	QuestsFailed    int               `json:"quests_failed"`
	QuestsAborted   int               `json:"quests_aborted"`
	InvalidHunters  int               `json:"invalid_hunters"`
	SuccessPct      float64           `json:"success_pct"`
	ByMonster       map[string]int    `json:"by_monster"`
	PartySizes      map[int]int       `json:"party_sizes"`
}

func CalculateStats(events []Event) Stats {
	stats := Stats{
		EventCounts: make(map[EventType]int),
		ByMonster:   make(map[string]int),
		PartySizes:  make(map[int]int),
	}

	for _, e := range events {
		stats.EventCounts[e.Type]++

		switch e.Type {
		case EventQuestGenerated:
			stats.QuestsGenerated++
			if species, ok := e.Metadata.String("monster"); ok {
				stats.ByMonster[species]++
			}
			if n, ok := e.Metadata.Int("party_size"); ok {
				stats.PartySizes[n]++
			}
		case EventQuestSkipped:
			stats.QuestsSkipped++
		case EventQuestSucceeded:
			stats.QuestsSucceeded++
		case EventQuestFailed:
			stats.QuestsFailed++
		case EventQuestAborted:
			stats.QuestsAborted++
		case EventHunterInvalid:
			stats.InvalidHunters++
		}
	}

	if done := stats.QuestsSucceeded + stats.QuestsFailed; done > 0 {
		stats.SuccessPct = 100 * float64(stats.QuestsSucceeded) / float64(done)
	}
	return stats
}
