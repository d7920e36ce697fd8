package models

// Word is a catalog entry. Every word is a valid guess; solution words can
// also be picked as a daily answer.
type Word struct {
	ID         int64  `db:"id" json:"id"`
	Word       string `db:"word" json:"word"`
	IsSolution bool   `db:"is_solution" json:"is_solution"`
	Used       bool   `db:"used" json:"used"`
}

// WordCheck is the anonymous catalog lookup result
type WordCheck struct {
	Word       string `json:"word"`
	Valid      bool   `json:"valid"`
	IsSolution bool   `json:"is_solution"`
}
