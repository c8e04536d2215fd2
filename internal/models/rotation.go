package models

// RotationRule is one row of the rotation reference table: a four-band key and
// four pipe-delimited option strings, one per rotation year.
type RotationRule struct {
	ID           int64        `db:"id" json:"id"`
	NBand        NutrientBand `db:"n_band" json:"N"`
	PBand        NutrientBand `db:"p_band" json:"P"`
	KBand        NutrientBand `db:"k_band" json:"K"`
	PHBand       PHBand       `db:"ph_band" json:"pH_band"`
	Year1Options string       `db:"year1_options" json:"Year1_options"`
	Year2Options string       `db:"year2_options" json:"Year2_options"`
	Year3Options string       `db:"year3_options" json:"Year3_options"`
	Year4Options string       `db:"year4_options" json:"Year4_options"`
}

// RotationPlan holds the ordered crop options for each of the four years.
type RotationPlan struct {
	Year1 []string `json:"Year1_options"`
	Year2 []string `json:"Year2_options"`
	Year3 []string `json:"Year3_options"`
	Year4 []string `json:"Year4_options"`
}

// EmptyRotationPlan is the "no known rotation" result. The year slices are
// allocated so the plan serializes as four empty lists rather than nulls.
func EmptyRotationPlan() RotationPlan {
	return RotationPlan{
		Year1: []string{},
		Year2: []string{},
		Year3: []string{},
		Year4: []string{},
	}
}

// IsEmpty reports whether the plan carries no options at all.
func (p RotationPlan) IsEmpty() bool {
	return len(p.Year1) == 0 && len(p.Year2) == 0 && len(p.Year3) == 0 && len(p.Year4) == 0
}

// Years returns the four option lists in year order.
func (p RotationPlan) Years() [4][]string {
	return [4][]string{p.Year1, p.Year2, p.Year3, p.Year4}
}

// ScoredCrop is a single crop with its soil-fit score.
type ScoredCrop struct {
	Crop          string        `json:"crop"`
	MatchPct      int           `json:"match_pct"`
	RotationGroup RotationGroup `json:"rotation_group"`
}

// ScoredRotationPlan mirrors RotationPlan with every option scored.
type ScoredRotationPlan struct {
	Year1 []ScoredCrop `json:"year1"`
	Year2 []ScoredCrop `json:"year2"`
	Year3 []ScoredCrop `json:"year3"`
	Year4 []ScoredCrop `json:"year4"`
}
