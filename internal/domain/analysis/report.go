package analysis

// Report is the complete structured analysis of one chart. It is created
// once per analysis, never mutated, and handed to downstream consumers
// (prose rendering, the HTTP layer) as-is. Downstream layers must read the
// structured fields rather than re-deriving facts from rendered text.
type Report struct {
	ChartID    string            `json:"chart_id,omitempty"`
	Aspects    []Aspect          `json:"aspects"`
	Patterns   []Pattern         `json:"patterns"`
	ChartShape Shape             `json:"chart_shape"`
	Elements   Tally             `json:"element_balance"`
	Modalities Tally             `json:"modality_balance"`
	Polarities Tally             `json:"polarity_balance"`
	Dignities  map[string]string `json:"dignities"`
}
