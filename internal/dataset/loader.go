// Package dataset parses the exercise dataset CSV into catalog records.
//
// The expected layout is the megaGym dataset: Title, Desc, Type, BodyPart,
// Equipment, Level, Rating, RatingDesc columns (extra columns are ignored,
// header order is free).
package dataset

import (
	"crypto/md5"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"fitgen/fitness-backend/internal/calories"
	"fitgen/fitness-backend/internal/domain"
)

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("dataset csv is missing required columns")

var requiredColumns = []string{"Title", "Type", "BodyPart", "Equipment", "Level"}

// Result reports what a parse pass produced.
type Result struct {
	Total     int
	Parsed    int
	Skipped   int
	Exercises []domain.Exercise
}

// LoadFile parses the CSV at path.
func LoadFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset csv: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses dataset rows from r. Rows with an empty title or an unknown
// fitness level are skipped, not fatal: a handful of dirty rows must not
// abort a bulk load.
func Load(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumns, name)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	now := time.Now().UTC()
	result := &Result{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A malformed row is skipped like a semantically bad one.
			result.Total++
			result.Skipped++
			continue
		}
		result.Total++

		title := field(record, "Title")
		if title == "" {
			result.Skipped++
			continue
		}
		level := domain.FitnessLevel(field(record, "Level"))
		if !level.Valid() {
			result.Skipped++
			continue
		}

		category := field(record, "Type")
		if category == "" {
			category = domain.CategoryStrength
		}
		rating, _ := strconv.ParseFloat(field(record, "Rating"), 64)

		result.Exercises = append(result.Exercises, domain.Exercise{
			ExerciseID:  ExerciseID(title),
			Title:       title,
			Description: field(record, "Desc"),
			Category:    category,
			BodyPart:    field(record, "BodyPart"),
			Equipment:   field(record, "Equipment"),
			Level:       level,
			Rating:      rating,
			MET:         calories.MET(category, level),
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		result.Parsed++
	}

	return result, nil
}

// ExerciseID derives the stable dataset id from a title: a short hash keeps
// reloads idempotent across runs.
func ExerciseID(title string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(title)))
	return fmt.Sprintf("ex_%x", sum[:4])
}
