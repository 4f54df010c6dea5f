package domain

// EffectKind is the type of a persistence sub-effect.
type EffectKind string

const (
	EffectInsert EffectKind = "insert"
	EffectUpdate EffectKind = "update"
	EffectDelete EffectKind = "delete"
)

// Entity names used by effects. The persistence adapter maps these to
// concrete tables.
const (
	EntityLead    = "leads"
	EntityStage   = "stages"
	EntityAccount = "accounts"
	EntityLoss    = "losses"
	EntityGoals   = "goals"
)

// Effect is a single write against one entity. Row carries the columns
// to insert or update, keyed by domain field names.
type Effect struct {
	Kind   EffectKind     `json:"kind"`
	Entity string         `json:"entity"`
	ID     string         `json:"id,omitempty"`
	Row    map[string]any `json:"row,omitempty"`
}

// Intent is the ordered list of effects produced by one board operation.
// Effects must be executed strictly in order and never coalesced: for
// history-then-delete pairs the ordering guarantees a crash can leave a
// duplicate history row but never a silently lost one.
type Intent struct {
	Label   string   `json:"label"`
	Effects []Effect `json:"effects"`
}

// NewIntent builds an intent from a label and its effects.
func NewIntent(label string, effects ...Effect) *Intent {
	return &Intent{Label: label, Effects: effects}
}
