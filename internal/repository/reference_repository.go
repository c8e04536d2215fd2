package repository

import (
	"context"
	"crop-recommendation-service/internal/database/minio"
	"crop-recommendation-service/internal/models"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	rotationSeedFile     = "crop_rotation.csv"
	observationsSeedFile = "crop_observations.csv"
)

// ReferenceRepository owns the two reference tables the engine is built from:
// rotation_rules and crop_observations.
type ReferenceRepository struct {
	db          *sqlx.DB
	minioClient *minio.MinioClient
}

// NewReferenceRepository creates a repository over the reference tables.
// minioClient may be nil when object storage is disabled; seeding then relies
// on the local data directory alone.
func NewReferenceRepository(db *sqlx.DB, minioClient *minio.MinioClient) *ReferenceRepository {
	return &ReferenceRepository{
		db:          db,
		minioClient: minioClient,
	}
}

// EnsureSeeded populates any empty reference table from its seed CSV. Tables
// that already hold rows are left untouched.
func (r *ReferenceRepository) EnsureSeeded(ctx context.Context, dataDir string) error {
	if err := r.seedRotationRules(ctx, dataDir); err != nil {
		return fmt.Errorf("failed to seed rotation rules: %w", err)
	}
	if err := r.seedObservations(ctx, dataDir); err != nil {
		return fmt.Errorf("failed to seed crop observations: %w", err)
	}
	return nil
}

func (r *ReferenceRepository) seedRotationRules(ctx context.Context, dataDir string) error {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM rotation_rules`); err != nil {
		return fmt.Errorf("failed to count rotation rules: %w", err)
	}
	if count > 0 {
		slog.Info("Rotation rules already seeded", "rows", count)
		return nil
	}

	path, err := r.locateSeedFile(ctx, dataDir, rotationSeedFile)
	if err != nil {
		return err
	}

	rules, err := ParseRotationCSV(path)
	if err != nil {
		return err
	}
	if len(rules) == 0 {
		return fmt.Errorf("rotation seed file %s contains no rows", path)
	}

	query := `
		INSERT INTO rotation_rules (
			n_band, p_band, k_band, ph_band,
			year1_options, year2_options, year3_options, year4_options
		) VALUES (
			:n_band, :p_band, :k_band, :ph_band,
			:year1_options, :year2_options, :year3_options, :year4_options
		)`

	if _, err := r.db.NamedExec(query, rules); err != nil {
		slog.Error("Failed to insert rotation rules", "error", err)
		return fmt.Errorf("failed to insert rotation rules: %w", err)
	}

	slog.Info("Seeded rotation rules", "rows", len(rules), "source", path)
	return nil
}

func (r *ReferenceRepository) seedObservations(ctx context.Context, dataDir string) error {
	var count int
	if err := r.db.Get(&count, `SELECT COUNT(*) FROM crop_observations`); err != nil {
		return fmt.Errorf("failed to count crop observations: %w", err)
	}
	if count > 0 {
		slog.Info("Crop observations already seeded", "rows", count)
		return nil
	}

	path, err := r.locateSeedFile(ctx, dataDir, observationsSeedFile)
	if err != nil {
		return err
	}

	observations, err := ParseObservationsCSV(path)
	if err != nil {
		return err
	}
	if len(observations) == 0 {
		return fmt.Errorf("observation seed file %s contains no rows", path)
	}

	query := `
		INSERT INTO crop_observations (
			label, nitrogen, phosphorus, potassium, temperature, humidity, ph, rainfall
		) VALUES (
			:label, :nitrogen, :phosphorus, :potassium, :temperature, :humidity, :ph, :rainfall
		)`

	if _, err := r.db.NamedExec(query, observations); err != nil {
		slog.Error("Failed to insert crop observations", "error", err)
		return fmt.Errorf("failed to insert crop observations: %w", err)
	}

	slog.Info("Seeded crop observations", "rows", len(observations), "source", path)
	return nil
}

// locateSeedFile resolves a seed CSV under dataDir, pulling it from object
// storage when it is missing locally and MinIO is configured.
func (r *ReferenceRepository) locateSeedFile(ctx context.Context, dataDir, fileName string) (string, error) {
	path := filepath.Join(dataDir, fileName)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if r.minioClient == nil {
		return "", fmt.Errorf("seed file %s not found and object storage is disabled", path)
	}

	slog.Info("Seed file missing locally, fetching from object storage",
		"file", fileName,
		"bucket", minio.Storage.ReferenceData)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	if err := r.minioClient.DownloadToFile(ctx, minio.Storage.ReferenceData, fileName, path); err != nil {
		return "", fmt.Errorf("failed to fetch seed file %s: %w", fileName, err)
	}

	return path, nil
}

// LoadRotationRules returns every rotation rule in insertion order.
func (r *ReferenceRepository) LoadRotationRules() ([]models.RotationRule, error) {
	var rules []models.RotationRule
	query := `
		SELECT id, n_band, p_band, k_band, ph_band,
		       year1_options, year2_options, year3_options, year4_options
		FROM rotation_rules
		ORDER BY id`

	if err := r.db.Select(&rules, query); err != nil {
		slog.Error("Failed to load rotation rules", "error", err)
		return nil, fmt.Errorf("failed to load rotation rules: %w", err)
	}

	return rules, nil
}

// LoadObservations returns every crop observation in insertion order.
func (r *ReferenceRepository) LoadObservations() ([]models.CropObservation, error) {
	var observations []models.CropObservation
	query := `
		SELECT id, label, nitrogen, phosphorus, potassium, temperature, humidity, ph, rainfall
		FROM crop_observations
		ORDER BY id`

	if err := r.db.Select(&observations, query); err != nil {
		slog.Error("Failed to load crop observations", "error", err)
		return nil, fmt.Errorf("failed to load crop observations: %w", err)
	}

	return observations, nil
}

// ParseRotationCSV reads a rotation reference CSV. The file must carry a
// header row naming N, P, K, pH_band and the four YearN_options columns;
// column order is free.
func ParseRotationCSV(path string) ([]models.RotationRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	idx, err := headerIndex(header, []string{
		"N", "P", "K", "pH_band",
		"Year1_options", "Year2_options", "Year3_options", "Year4_options",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rules []models.RotationRule
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line+1, err)
		}
		line++

		rules = append(rules, models.RotationRule{
			NBand:        models.NutrientBand(strings.TrimSpace(record[idx["N"]])),
			PBand:        models.NutrientBand(strings.TrimSpace(record[idx["P"]])),
			KBand:        models.NutrientBand(strings.TrimSpace(record[idx["K"]])),
			PHBand:       models.PHBand(strings.TrimSpace(record[idx["pH_band"]])),
			Year1Options: strings.TrimSpace(record[idx["Year1_options"]]),
			Year2Options: strings.TrimSpace(record[idx["Year2_options"]]),
			Year3Options: strings.TrimSpace(record[idx["Year3_options"]]),
			Year4Options: strings.TrimSpace(record[idx["Year4_options"]]),
		})
	}

	return rules, nil
}

// ParseObservationsCSV reads a crop observation CSV with columns N, P, K,
// temperature, humidity, ph, rainfall and label.
func ParseObservationsCSV(path string) ([]models.CropObservation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	idx, err := headerIndex(header, []string{
		"N", "P", "K", "temperature", "humidity", "ph", "rainfall", "label",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var observations []models.CropObservation
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s line %d: %w", path, line+1, err)
		}
		line++

		obs := models.CropObservation{
			Label: strings.TrimSpace(record[idx["label"]]),
		}
		fields := []struct {
			column string
			dest   *float64
		}{
			{"N", &obs.Nitrogen},
			{"P", &obs.Phosphorus},
			{"K", &obs.Potassium},
			{"temperature", &obs.Temperature},
			{"humidity", &obs.Humidity},
			{"ph", &obs.PH},
			{"rainfall", &obs.Rainfall},
		}
		for _, field := range fields {
			value, err := strconv.ParseFloat(strings.TrimSpace(record[idx[field.column]]), 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: bad %s value: %w", path, line, field.column, err)
			}
			*field.dest = value
		}

		observations = append(observations, obs)
	}

	return observations, nil
}

// headerIndex maps required column names to their positions in the header row.
func headerIndex(header, required []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	return idx, nil
}
