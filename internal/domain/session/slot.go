package session

// Action slot names. Every AI-backed action owns exactly one slot; a
// citation explanation gets a dynamic slot derived from its citation id.
const (
	SlotInstrumentAnalyze = "instrument.analyze"
	SlotCreditAnalyze     = "credit.analyze"
	SlotCreditLetter      = "credit.letter"
	SlotVehicleAnalyze    = "vehicle.analyze"
	SlotVehicleLetter     = "vehicle.letter"
	SlotCollectorSuggest  = "collector.suggest"
	SlotCollectorLetter   = "collector.letter"
)

// CitationSlot names the slot of one citation's explanation request.
func CitationSlot(citationID string) string {
	return "citation." + citationID
}

// slot is one action's state bucket: loading flag, last error, last
// result, and a request generation used to drop stale completions.
type slot struct {
	loading bool
	err     string
	result  string
	gen     uint64
}

// SlotView is the externally visible state of an action slot.
type SlotView struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
	Result  string `json:"result,omitempty"`
}
