package services

import (
	"crop-recommendation-service/internal/models"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// rotationGroups is the fixed membership table from crop name to rotation
// group. Names not listed here fall back to the fruiting group.
var rotationGroups = map[models.RotationGroup][]string{
	models.GroupLegumes: {
		"green beans",
		"soy beans",
		"fava beans",
		"chickpeas",
		"peas",
		"lupin",
		"alfalfa",
		"peanuts",
	},
	models.GroupRootVegetables: {
		"carrot",
		"radish",
		"onion",
		"garlic",
		"leeks",
		"parsnip",
		"turnip",
		"beet",
	},
	models.GroupGreensBrassicas: {
		"lettuce",
		"spinach",
		"cabbage",
		"brussels sprouts",
		"bok choy",
		"kale",
		"broccoli",
		"cauliflower",
		"herbs",
		"collards",
	},
	models.GroupFruiting: {
		"tomato",
		"squash",
		"melons",
		"peppers",
		"corn",
		"eggplant",
		"cucumber",
		"potatoes",
	},
}

// groupOrder fixes iteration order so tied scores rank deterministically.
var groupOrder = []models.RotationGroup{
	models.GroupLegumes,
	models.GroupRootVegetables,
	models.GroupGreensBrassicas,
	models.GroupFruiting,
}

// groupTempWindows are the per-group ideal temperature windows in Celsius.
var groupTempWindows = map[models.RotationGroup][2]float64{
	models.GroupGreensBrassicas: {10, 20},
	models.GroupRootVegetables:  {10, 22},
	models.GroupFruiting:        {20, 30},
	models.GroupLegumes:         {15, 28},
}

var defaultTempWindow = [2]float64{12, 26}

var cropTitleCaser = cases.Title(language.English)

type IScoringService interface {
	GroupForCrop(crop string) models.RotationGroup
	HeuristicScore(soil models.SoilInput, group models.RotationGroup) int
	WeatherAdjustment(weather models.WeatherReading, group models.RotationGroup) int
	ScoreCropGroup(soil models.SoilInput, group models.RotationGroup, weather *models.WeatherReading) int
	ScoreAll(soil models.SoilInput, weather *models.WeatherReading) []models.ScoredCrop
	ScorePlan(plan models.RotationPlan, soil models.SoilInput, weather *models.WeatherReading) models.ScoredRotationPlan
}

// ScoringService computes 0-100 soil-fit scores per rotation group and
// applies the bounded weather adjustment when a reading is available.
type ScoringService struct {
	groupByCrop map[string]models.RotationGroup
}

func NewScoringService() IScoringService {
	byCrop := make(map[string]models.RotationGroup)
	for group, crops := range rotationGroups {
		for _, crop := range crops {
			byCrop[crop] = group
		}
	}
	return &ScoringService{groupByCrop: byCrop}
}

// GroupForCrop maps a crop name to its rotation group. The lookup is
// case-insensitive; unknown names default to fruiting.
func (s *ScoringService) GroupForCrop(crop string) models.RotationGroup {
	if group, ok := s.groupByCrop[strings.ToLower(strings.TrimSpace(crop))]; ok {
		return group
	}
	return models.GroupFruiting
}

// HeuristicScore is the base 0-100 soil-fit score for a rotation group.
func (s *ScoringService) HeuristicScore(soil models.SoilInput, group models.RotationGroup) int {
	score := 50

	switch group {
	case models.GroupGreensBrassicas:
		// Nitrogen hungry crops benefit from higher nitrogen
		score += (soil.Nitrogen - 2) * 8
	case models.GroupRootVegetables:
		// Root vegetables like lower nitrogen
		score += (2 - soil.Nitrogen) * 6
	case models.GroupFruiting:
		// Fruiting needs phosphorus and some nitrogen
		score += (soil.Phosphorus-2)*7 + (soil.Nitrogen-2)*4
	case models.GroupLegumes:
		// Legumes add their own nitrogen, prefer low nitrogen soils
		score += (2 - soil.Nitrogen) * 5
	}

	// Mid-range pH is generally best
	score -= int(math.Abs(soil.PH-6.5) * 4)

	score += (soil.MaintenancePreference() - 3) * 3

	return clampInt(score, 0, 100)
}

// WeatherAdjustment is the bounded correction applied on top of the
// heuristic score when a weather reading is available.
func (s *ScoringService) WeatherAdjustment(weather models.WeatherReading, group models.RotationGroup) int {
	adjustment := 0

	window, ok := groupTempWindows[group]
	if !ok {
		window = defaultTempWindow
	}
	lo, hi := window[0], window[1]
	if weather.Temperature >= lo && weather.Temperature <= hi {
		adjustment += 3
	} else {
		distance := lo - weather.Temperature
		if weather.Temperature > hi {
			distance = weather.Temperature - hi
		}
		adjustment -= int(math.Min(6, 0.5*distance))
	}

	if weather.Humidity >= 40 && weather.Humidity <= 80 {
		adjustment += 2
	} else {
		adjustment -= 2
	}

	switch group {
	case models.GroupFruiting:
		if weather.Rainfall >= 1 && weather.Rainfall <= 15 {
			adjustment += 2
		} else {
			adjustment -= 2
		}
	case models.GroupRootVegetables:
		switch {
		case weather.Rainfall > 15:
			adjustment -= 3
		case weather.Rainfall < 1:
			adjustment -= 1
		default:
			adjustment += 1
		}
	default:
		if weather.Rainfall >= 1 && weather.Rainfall <= 15 {
			adjustment += 1
		}
	}

	return clampInt(adjustment, -10, 10)
}

// ScoreCropGroup combines the heuristic score with the weather adjustment.
// A nil weather reading leaves the heuristic score untouched.
func (s *ScoringService) ScoreCropGroup(soil models.SoilInput, group models.RotationGroup, weather *models.WeatherReading) int {
	score := s.HeuristicScore(soil, group)
	if weather != nil {
		score = clampInt(score+s.WeatherAdjustment(*weather, group), 0, 100)
	}
	return score
}

// ScoreAll scores every crop in the membership table, highest first. Ties
// keep the fixed group and membership order.
func (s *ScoringService) ScoreAll(soil models.SoilInput, weather *models.WeatherReading) []models.ScoredCrop {
	var results []models.ScoredCrop
	for _, group := range groupOrder {
		score := s.ScoreCropGroup(soil, group, weather)
		for _, crop := range rotationGroups[group] {
			results = append(results, models.ScoredCrop{
				Crop:          cropTitleCaser.String(crop),
				MatchPct:      score,
				RotationGroup: group,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchPct > results[j].MatchPct
	})
	return results
}

// ScorePlan scores every option of a rotation plan in place, keeping each
// year's option order.
func (s *ScoringService) ScorePlan(plan models.RotationPlan, soil models.SoilInput, weather *models.WeatherReading) models.ScoredRotationPlan {
	scoreYear := func(options []string) []models.ScoredCrop {
		scored := make([]models.ScoredCrop, 0, len(options))
		for _, crop := range options {
			group := s.GroupForCrop(crop)
			scored = append(scored, models.ScoredCrop{
				Crop:          crop,
				MatchPct:      s.ScoreCropGroup(soil, group, weather),
				RotationGroup: group,
			})
		}
		return scored
	}

	return models.ScoredRotationPlan{
		Year1: scoreYear(plan.Year1),
		Year2: scoreYear(plan.Year2),
		Year3: scoreYear(plan.Year3),
		Year4: scoreYear(plan.Year4),
	}
}
