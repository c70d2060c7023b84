package game

import (
	"encoding/json"
	"log"
	"runtime"
	"time"

	"monsterhunt/internal/quest"
	"monsterhunt/internal/registry"
	"monsterhunt/internal/telemetry"
)

// Engine generates, runs and resolves quests against a registry.
//
// Registry, Quests and Dice are required in practice; every other field has a
// usable zero value.
type Engine struct {
	Registry *registry.Registry
	Quests   quest.Repository
	Archive  quest.Archive
	Events   telemetry.Repository
	Clock    Clock

	// Tick is the real duration of one unit of quest time.
	Tick time.Duration

	// Dice drives generation and must be safe for concurrent use.
	Dice Dice
	// QuestDice builds the per-quest source from the quest's seed.
	QuestDice func(seed int64) Dice

	Workers int
	Logger  *log.Logger
}

func (e Engine) clock() Clock {
	if e.Clock == nil {
		return RealClock{}
	}
	return e.Clock
}

func (e Engine) dice() Dice {
	if e.Dice == nil {
		return fallbackDice()
	}
	return e.Dice
}

func (e Engine) questDice(seed int64) Dice {
	if e.QuestDice == nil {
		return NewDice(seed)
	}
	return e.QuestDice(seed)
}

func (e Engine) workers() int {
	if e.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return e.Workers
}

func (e Engine) logger() *log.Logger {
	if e.Logger == nil {
		return log.Default()
	}
	return e.Logger
}

// record stores an event and mirrors it to the log as one JSON line.
func (e Engine) record(level string, typ telemetry.EventType, meta telemetry.EventMetadata) {
	if e.Events != nil {
		if err := e.Events.RecordEvent(typ, meta); err != nil {
			e.logJSON(map[string]any{"level": "error", "msg": "telemetry_record_failed", "event": typ, "error": err.Error()})
		}
	}

	payload := make(map[string]any, len(meta)+3)
	for k, v := range meta {
		payload[k] = v
	}
	payload["level"] = level
	payload["msg"] = string(typ)
	e.logJSON(payload)
}

func (e Engine) logJSON(payload map[string]any) {
	logger := e.logger()
	payload["ts"] = e.clock().Now().UTC().Format(time.RFC3339Nano)
	b, err := json.Marshal(payload)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_marshal_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}

func (e Engine) warn(msg string, fields map[string]any) {
	payload := map[string]any{"level": "warn", "msg": msg}
	for k, v := range fields {
		payload[k] = v
	}
	e.logJSON(payload)
}
