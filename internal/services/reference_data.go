package services

import (
	"crop-recommendation-service/internal/models"
	"fmt"
	"log/slog"
	"math"
	"sort"
)

// DefaultEdges are the fixed five-bin edges used for a nutrient feature when
// the observation table cannot supply usable quantiles. They are part of the
// service contract and match the typical agronomic ranges of the training
// dataset.
var DefaultEdges = map[models.Feature][]float64{
	models.FeatureNitrogen:   {0, 20, 40, 60, 90, 150},
	models.FeaturePhosphorus: {0, 20, 35, 50, 70, 150},
	models.FeaturePotassium:  {0, 15, 25, 40, 55, 210},
}

var edgeQuantiles = []float64{0, 0.2, 0.4, 0.6, 0.8, 1.0}

// ReferenceData is the read-only state every scoring operation depends on:
// five-bin edges per nutrient feature, per-crop climate profiles and feature
// means, the known crop labels, and the rotation rule table. It is built once
// at startup and shared across requests without locking.
type ReferenceData struct {
	Edges    map[models.Feature][]float64
	Profiles map[string]models.CropClimateProfile
	Means    map[string]models.FeatureVector
	Crops    []string
	Rules    []models.RotationRule
}

// BuildReferenceData aggregates the two reference tables into the immutable
// lookup state the engine runs on. Both tables must be non-empty; a service
// started without them cannot answer anything meaningful.
func BuildReferenceData(rules []models.RotationRule, observations []models.CropObservation) (*ReferenceData, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("rotation rule table is empty")
	}
	if len(observations) == 0 {
		return nil, fmt.Errorf("crop observation table is empty")
	}

	ref := &ReferenceData{
		Edges:    make(map[models.Feature][]float64, 3),
		Profiles: make(map[string]models.CropClimateProfile),
		Means:    make(map[string]models.FeatureVector),
		Rules:    rules,
	}

	ref.buildEdges(observations)
	ref.buildCropAggregates(observations)

	slog.Info("Reference data built",
		"rotation_rules", len(rules),
		"observations", len(observations),
		"crops", len(ref.Crops))

	return ref, nil
}

func (ref *ReferenceData) buildEdges(observations []models.CropObservation) {
	features := []struct {
		feature models.Feature
		value   func(models.CropObservation) float64
	}{
		{models.FeatureNitrogen, func(o models.CropObservation) float64 { return o.Nitrogen }},
		{models.FeaturePhosphorus, func(o models.CropObservation) float64 { return o.Phosphorus }},
		{models.FeaturePotassium, func(o models.CropObservation) float64 { return o.Potassium }},
	}

	for _, f := range features {
		values := make([]float64, 0, len(observations))
		for _, obs := range observations {
			values = append(values, f.value(obs))
		}

		edges := quantileEdges(values)
		if !strictlyIncreasing(edges) {
			slog.Warn("Observed quantile edges are degenerate, using default edges",
				"feature", f.feature,
				"edges", edges)
			edges = append([]float64(nil), DefaultEdges[f.feature]...)
		}
		ref.Edges[f.feature] = edges
	}
}

func (ref *ReferenceData) buildCropAggregates(observations []models.CropObservation) {
	grouped := make(map[string][]models.CropObservation)
	for _, obs := range observations {
		grouped[obs.Label] = append(grouped[obs.Label], obs)
	}

	for label, group := range grouped {
		temps := make([]float64, 0, len(group))
		hums := make([]float64, 0, len(group))
		rains := make([]float64, 0, len(group))
		for _, obs := range group {
			temps = append(temps, obs.Temperature)
			hums = append(hums, obs.Humidity)
			rains = append(rains, obs.Rainfall)
		}

		ref.Profiles[label] = models.CropClimateProfile{
			Temperature: statsOf(temps),
			Humidity:    statsOf(hums),
			Rainfall:    statsOf(rains),
		}

		ref.Means[label] = models.FeatureVector{
			N:           meanOf(collect(group, func(o models.CropObservation) float64 { return o.Nitrogen })),
			P:           meanOf(collect(group, func(o models.CropObservation) float64 { return o.Phosphorus })),
			K:           meanOf(collect(group, func(o models.CropObservation) float64 { return o.Potassium })),
			Temperature: meanOf(temps),
			Humidity:    meanOf(hums),
			PH:          meanOf(collect(group, func(o models.CropObservation) float64 { return o.PH })),
			Rainfall:    meanOf(rains),
		}

		ref.Crops = append(ref.Crops, label)
	}

	sort.Strings(ref.Crops)
}

// HasCrop reports whether a climate profile exists for the crop label.
func (ref *ReferenceData) HasCrop(label string) bool {
	_, ok := ref.Profiles[label]
	return ok
}

func collect(observations []models.CropObservation, value func(models.CropObservation) float64) []float64 {
	out := make([]float64, 0, len(observations))
	for _, obs := range observations {
		out = append(out, value(obs))
	}
	return out
}

func statsOf(values []float64) models.ClimateStats {
	stats := models.ClimateStats{
		Min:  values[0],
		Max:  values[0],
		Mean: meanOf(values),
		Std:  sampleStd(values),
	}
	for _, v := range values {
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	return stats
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd is the n-1 standard deviation. Fewer than two samples give 0.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := meanOf(values)
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// quantileEdges computes the {0, .2, .4, .6, .8, 1} quantiles of values with
// linear interpolation between order statistics.
func quantileEdges(values []float64) []float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	edges := make([]float64, 0, len(edgeQuantiles))
	n := len(sorted)
	for _, q := range edgeQuantiles {
		pos := q * float64(n-1)
		lo := int(math.Floor(pos))
		hi := lo + 1
		if hi >= n {
			edges = append(edges, sorted[n-1])
			continue
		}
		frac := pos - float64(lo)
		edges = append(edges, sorted[lo]+frac*(sorted[hi]-sorted[lo]))
	}
	return edges
}

func strictlyIncreasing(edges []float64) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			return false
		}
	}
	return true
}
