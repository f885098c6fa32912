package model

// Plot is one survey unit with its nested sample points.
type Plot struct {
	ID       int      `json:"id"`
	Center   GeoPoint `json:"center"`
	Flagged  bool     `json:"flagged"`
	Analyses int      `json:"analyses"`
	User     *string  `json:"user"`
	Samples  []Sample `json:"samples"`
}

// Sample is a point inside a plot that reviewers label with a SampleValue id.
type Sample struct {
	ID    int      `json:"id"`
	Point GeoPoint `json:"point"`
	Value *int     `json:"value,omitempty"`
}

// Analyzed reports whether at least one reviewer has submitted the plot.
func (p *Plot) Analyzed() bool {
	return p.Analyses > 0
}
