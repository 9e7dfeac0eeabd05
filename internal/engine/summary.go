package engine

import "github.com/rdelaney/orchestra/internal/model"

// Summary holds the aggregate counters for one batch outcome.
type Summary struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Summarize reduces a batch outcome to its success/failure counts.
// Succeeded+Failed always equals Total.
func Summarize(outcome model.BatchOutcome) Summary {
	s := Summary{Total: len(outcome)}
	for _, r := range outcome {
		if r.Status == model.StatusSuccess {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	return s
}
