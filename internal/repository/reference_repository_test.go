package repository

import (
	"os"
	"path/filepath"
	"testing"

	"crop-recommendation-service/internal/models"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// ============================================================================
// TEST SUITE 1: ROTATION CSV PARSING
// ============================================================================

func TestParseRotationCSV(t *testing.T) {
	path := writeTempCSV(t, "rotation.csv", `N,P,K,pH_band,Year1_options,Year2_options,Year3_options,Year4_options
Low,Low,Low,Neutral (6.0–7.3),Green Beans|Peas,Cabbage,Tomato|Corn,Carrot
High,Medium,Low,Acidic (5.0–5.9),Peanuts,Lettuce|Kale,Potatoes,Radish
`)

	rules, err := ParseRotationCSV(path)

	assert.NoError(t, err)
	assert.Len(t, rules, 2)
	assert.Equal(t, models.BandLow, rules[0].NBand)
	assert.Equal(t, models.PHBandNeutral, rules[0].PHBand)
	assert.Equal(t, "Green Beans|Peas", rules[0].Year1Options)
	assert.Equal(t, models.BandHigh, rules[1].NBand)
	assert.Equal(t, models.BandMedium, rules[1].PBand)
	assert.Equal(t, "Radish", rules[1].Year4Options)
}

func TestParseRotationCSV_ReorderedColumns(t *testing.T) {
	path := writeTempCSV(t, "rotation.csv", `pH_band,N,P,K,Year4_options,Year3_options,Year2_options,Year1_options
Neutral (6.0–7.3),Low,Low,Low,Carrot,Tomato,Cabbage,Green Beans
`)

	rules, err := ParseRotationCSV(path)

	assert.NoError(t, err)
	assert.Equal(t, "Green Beans", rules[0].Year1Options,
		"columns are resolved by header name, not position")
	assert.Equal(t, "Carrot", rules[0].Year4Options)
}

func TestParseRotationCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "rotation.csv", `N,P,K,Year1_options,Year2_options,Year3_options,Year4_options
Low,Low,Low,a,b,c,d
`)

	_, err := ParseRotationCSV(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pH_band")
}

func TestParseRotationCSV_MissingFile(t *testing.T) {
	_, err := ParseRotationCSV(filepath.Join(t.TempDir(), "nope.csv"))

	assert.Error(t, err)
}

// ============================================================================
// TEST SUITE 2: OBSERVATION CSV PARSING
// ============================================================================

func TestParseObservationsCSV(t *testing.T) {
	path := writeTempCSV(t, "observations.csv", `N,P,K,temperature,humidity,ph,rainfall,label
90.5,42.1,43.7,25.3,80.2,6.50,220.9,rice
71.0,45.5,40.2,24.1,65.4,6.80,84.5,chickpea
`)

	observations, err := ParseObservationsCSV(path)

	assert.NoError(t, err)
	assert.Len(t, observations, 2)
	assert.Equal(t, "rice", observations[0].Label)
	assert.InDelta(t, 90.5, observations[0].Nitrogen, 1e-9)
	assert.InDelta(t, 6.5, observations[0].PH, 1e-9)
	assert.InDelta(t, 220.9, observations[0].Rainfall, 1e-9)
	assert.Equal(t, "chickpea", observations[1].Label)
}

func TestParseObservationsCSV_TrimsWhitespace(t *testing.T) {
	path := writeTempCSV(t, "observations.csv", ` N , P , K , temperature , humidity , ph , rainfall , label
 90.5 , 42.1 , 43.7 , 25.3 , 80.2 , 6.50 , 220.9 , rice
`)

	observations, err := ParseObservationsCSV(path)

	assert.NoError(t, err)
	assert.Equal(t, "rice", observations[0].Label)
	assert.InDelta(t, 42.1, observations[0].Phosphorus, 1e-9)
}

func TestParseObservationsCSV_BadNumber(t *testing.T) {
	path := writeTempCSV(t, "observations.csv", `N,P,K,temperature,humidity,ph,rainfall,label
ninety,42.1,43.7,25.3,80.2,6.50,220.9,rice
`)

	_, err := ParseObservationsCSV(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bad N value")
}

func TestParseObservationsCSV_MissingColumn(t *testing.T) {
	path := writeTempCSV(t, "observations.csv", `N,P,K,temperature,humidity,ph,label
90.5,42.1,43.7,25.3,80.2,6.50,rice
`)

	_, err := ParseObservationsCSV(path)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rainfall")
}

func TestParseObservationsCSV_EmptyBody(t *testing.T) {
	path := writeTempCSV(t, "observations.csv", `N,P,K,temperature,humidity,ph,rainfall,label
`)

	observations, err := ParseObservationsCSV(path)

	assert.NoError(t, err)
	assert.Empty(t, observations, "a header-only file parses to no rows")
}
