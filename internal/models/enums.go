package models

// NutrientBand is the coarse soil nutrient category used by the rotation table.
type NutrientBand string

const (
	BandLow    NutrientBand = "Low"
	BandMedium NutrientBand = "Medium"
	BandHigh   NutrientBand = "High"
)

// PHBand labels match the rotation reference table exactly, range suffix included.
type PHBand string

const (
	PHBandAcidic   PHBand = "Acidic (5.0–5.9)"
	PHBandNeutral  PHBand = "Neutral (6.0–7.3)"
	PHBandAlkaline PHBand = "Alkaline (7.4–8.5)"
)

// RotationGroup is the agronomic category scoring rules generalize over.
type RotationGroup string

const (
	GroupLegumes         RotationGroup = "legumes"
	GroupRootVegetables  RotationGroup = "root_vegetables"
	GroupGreensBrassicas RotationGroup = "greens_brassicas"
	GroupFruiting        RotationGroup = "fruiting"
)

// Feature identifies a banded numeric soil feature.
type Feature string

const (
	FeatureNitrogen   Feature = "N"
	FeaturePhosphorus Feature = "P"
	FeaturePotassium  Feature = "K"
)

type SoilType string

const (
	SoilSandy SoilType = "sandy"
	SoilClay  SoilType = "clay"
	SoilSilt  SoilType = "silt"
	SoilPeat  SoilType = "peat"
	SoilChalk SoilType = "chalk"
	SoilLoam  SoilType = "loam"
)
