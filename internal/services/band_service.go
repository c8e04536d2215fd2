package services

import (
	"crop-recommendation-service/internal/models"
	"strings"
)

type IBandService interface {
	ToFiveBin(value float64, feature models.Feature) int
	FiveBinToBand(bin int) models.NutrientBand
	PHToBand(ph float64) models.PHBand
	BandValues(n, p, k, ph float64) models.BandedSoil
	BandSoilLevels(soil models.SoilInput) models.BandedSoil
	ParseCategoryIndex(code string) int
	CategoryToBand(code string) models.NutrientBand
	PHCategoryToBand(code string) models.PHBand
	RepresentativeValue(feature models.Feature, bin int) float64
	PHBandValue(band models.PHBand) float64
	BandToLevel(band models.NutrientBand) int
}

// BandService converts continuous soil measurements and discrete category
// codes into the categorical bands the rotation table is keyed by.
type BandService struct {
	ref *ReferenceData
}

func NewBandService(ref *ReferenceData) IBandService {
	return &BandService{ref: ref}
}

// ToFiveBin places a value into one of five bins by walking the feature's
// edge set. The last bin is right-inclusive.
func (s *BandService) ToFiveBin(value float64, feature models.Feature) int {
	edges := s.edgesFor(feature)
	switch {
	case value < edges[1]:
		return 0
	case value < edges[2]:
		return 1
	case value < edges[3]:
		return 2
	case value < edges[4]:
		return 3
	default:
		return 4
	}
}

// FiveBinToBand collapses the five bins to Low/Medium/High: 0 and 1 are Low,
// 2 is Medium, 3 and 4 are High.
func (s *BandService) FiveBinToBand(bin int) models.NutrientBand {
	switch {
	case bin <= 1:
		return models.BandLow
	case bin == 2:
		return models.BandMedium
	default:
		return models.BandHigh
	}
}

// PHToBand assigns a pH to its named band. Values below the Acidic floor or
// above the Alkaline ceiling clamp to the nearest band, and the two unnamed
// gaps between bands go to the nearer neighbour.
func (s *BandService) PHToBand(ph float64) models.PHBand {
	switch {
	case ph < 5.95:
		return models.PHBandAcidic
	case ph <= 7.35:
		return models.PHBandNeutral
	default:
		return models.PHBandAlkaline
	}
}

// BandValues bands raw numeric N/P/K/pH measurements.
func (s *BandService) BandValues(n, p, k, ph float64) models.BandedSoil {
	return models.BandedSoil{
		N:  s.FiveBinToBand(s.ToFiveBin(n, models.FeatureNitrogen)),
		P:  s.FiveBinToBand(s.ToFiveBin(p, models.FeaturePhosphorus)),
		K:  s.FiveBinToBand(s.ToFiveBin(k, models.FeaturePotassium)),
		PH: s.PHToBand(ph),
	}
}

// BandSoilLevels bands a soil sample whose nutrients are already expressed on
// the discrete 0-5 level scale. Levels act as bin indexes, clamped to the
// five-bin range.
func (s *BandService) BandSoilLevels(soil models.SoilInput) models.BandedSoil {
	return models.BandedSoil{
		N:  s.FiveBinToBand(clampInt(soil.Nitrogen, 0, 4)),
		P:  s.FiveBinToBand(clampInt(soil.Phosphorus, 0, 4)),
		K:  s.FiveBinToBand(clampInt(soil.Potassium, 0, 4)),
		PH: s.PHToBand(soil.PH),
	}
}

// ParseCategoryIndex extracts the trailing digit of a category code such as
// "N3" or "pH1", clamped to [0,4]. Malformed codes default to 2.
func (s *BandService) ParseCategoryIndex(code string) int {
	trimmed := strings.TrimSpace(code)
	idx := 2
	if len(trimmed) > 0 {
		last := trimmed[len(trimmed)-1]
		if last >= '0' && last <= '9' {
			idx = int(last - '0')
		}
	}
	return clampInt(idx, 0, 4)
}

// CategoryToBand maps a five-level nutrient category code to Low/Medium/High.
func (s *BandService) CategoryToBand(code string) models.NutrientBand {
	return s.FiveBinToBand(s.ParseCategoryIndex(code))
}

// PHCategoryToBand maps a three-level pH category code (pH0..pH2) to a band.
func (s *BandService) PHCategoryToBand(code string) models.PHBand {
	i := s.ParseCategoryIndex(code)
	switch {
	case i <= 0:
		return models.PHBandAcidic
	case i == 1:
		return models.PHBandNeutral
	default:
		return models.PHBandAlkaline
	}
}

// RepresentativeValue translates a bin index back into a numeric value: the
// midpoint of the two edges bounding the bin.
func (s *BandService) RepresentativeValue(feature models.Feature, bin int) float64 {
	edges := s.edgesFor(feature)
	i := clampInt(bin, 0, 4)
	return (edges[i] + edges[i+1]) / 2.0
}

// PHBandValue returns a representative numeric pH for a band.
func (s *BandService) PHBandValue(band models.PHBand) float64 {
	switch band {
	case models.PHBandAcidic:
		return 5.5
	case models.PHBandNeutral:
		return 6.7
	case models.PHBandAlkaline:
		return 7.8
	default:
		return 6.7
	}
}

// BandToLevel maps Low/Medium/High back onto the 0-5 soil level scale.
func (s *BandService) BandToLevel(band models.NutrientBand) int {
	switch band {
	case models.BandLow:
		return 1
	case models.BandMedium:
		return 3
	case models.BandHigh:
		return 5
	default:
		return 3
	}
}

func (s *BandService) edgesFor(feature models.Feature) []float64 {
	if s.ref != nil {
		if edges, ok := s.ref.Edges[feature]; ok {
			return edges
		}
	}
	return DefaultEdges[feature]
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
