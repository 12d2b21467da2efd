// Package importer loads the catalog from the CSV bundle the content team
// publishes. Imports are idempotent: existing rows are left untouched.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"poll-service/internal/catalog"
	"poll-service/internal/soundtrack"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Importer struct {
	db      *gorm.DB
	dataDir string
}

func New(db *gorm.DB, dataDir string) *Importer {
	return &Importer{db: db, dataDir: dataDir}
}

// Run imports categories, blocks, questions, options and soundtracks, in
// dependency order. Missing files are skipped with a warning so partial
// bundles stay usable.
func (i *Importer) Run(ctx context.Context) error {
	steps := []struct {
		file string
		load func(ctx context.Context, rows []map[string]string) error
	}{
		{"categories.csv", i.loadCategories},
		{"blocks.csv", i.loadBlocks},
		{"questions.csv", i.loadQuestions},
		{"options.csv", i.loadOptions},
		{"soundtracks.csv", i.loadSoundtracks},
	}

	for _, step := range steps {
		path := filepath.Join(i.dataDir, step.file)
		rows, err := readCSV(path)
		if os.IsNotExist(err) {
			slog.Warn("Skipping missing import file", "file", step.file)
			continue
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", step.file, err)
		}
		if err := step.load(ctx, rows); err != nil {
			return fmt.Errorf("importing %s: %w", step.file, err)
		}
		slog.Info("Imported catalog file", "file", step.file, "rows", len(rows))
	}

	return nil
}

func (i *Importer) loadCategories(ctx context.Context, rows []map[string]string) error {
	for _, row := range rows {
		category := catalog.Category{
			CategoryName: row["category_name"],
			CategoryText: row["category_text"],
			Description:  row["description"],
			DayOfWeek:    row["day_of_week"],
			SortOrder:    atoi(row["sort_order"], 0),
		}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "category_name"}}, DoNothing: true}).
			Create(&category).Error; err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) loadBlocks(ctx context.Context, rows []map[string]string) error {
	for _, row := range rows {
		block := catalog.Block{
			CategoryID:   uint(atoi(row["category_id"], 0)),
			BlockNumber:  atoi(row["block_number"], 0),
			BlockCode:    row["block_code"],
			BlockText:    row["block_text"],
			CategoryName: row["category_name"],
			Version:      row["version"],
		}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "block_code"}}, DoNothing: true}).
			Create(&block).Error; err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) loadQuestions(ctx context.Context, rows []map[string]string) error {
	for _, row := range rows {
		checkBox := strings.EqualFold(row["check_box"], "true")
		maxSelect := atoi(row["max_select"], 0)
		if maxSelect == 0 {
			// Checkbox questions default to a generous cap, single-choice to 1.
			if checkBox {
				maxSelect = 10
			} else {
				maxSelect = 1
			}
		}

		question := catalog.Question{
			QuestionCode:     row["question_code"],
			CategoryID:       uint(atoi(row["category_id"], 0)),
			BlockNumber:      atoi(row["block_number"], 0),
			QuestionNumber:   atoi(row["question_number"], 0),
			QuestionText:     row["question_text"],
			BlockText:        row["block_text"],
			CheckBox:         checkBox,
			MaxSelect:        maxSelect,
			IsStartQuestion:  strings.EqualFold(row["is_start_question"], "true"),
			ParentQuestionID: atoiPtr(row["parent_question_id"]),
			ColorCode:        row["color_code"],
			Version:          row["version"],
		}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "question_code"}}, DoNothing: true}).
			Create(&question).Error; err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) loadOptions(ctx context.Context, rows []map[string]string) error {
	for _, row := range rows {
		option := catalog.Option{
			QuestionCode:    row["question_code"],
			OptionSelect:    row["option_select"],
			OptionCode:      row["option_code"],
			OptionText:      row["option_text"],
			SortOrder:       atoi(row["sort_order"], 0),
			Weight:          atof(row["weight"], 1.0),
			NextQuestionID:  atoiPtr(row["next_question_id"]),
			ToneTag:         row["tone_tag"],
			ResponseMessage: row["response_message"],
			CompanionAdvice: row["companion_advice"],
		}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "question_code"}, {Name: "option_select"}},
				DoNothing: true,
			}).
			Create(&option).Error; err != nil {
			return err
		}
	}
	return nil
}

func (i *Importer) loadSoundtracks(ctx context.Context, rows []map[string]string) error {
	for _, row := range rows {
		track := soundtrack.Soundtrack{
			SongID:        row["song_id"],
			SongTitle:     row["song_title"],
			Artist:        row["artist"],
			MoodTag:       row["mood_tag"],
			PlaylistTag:   row["playlist_tag"],
			LyricsSnippet: row["lyrics_snippet"],
			Featured:      strings.EqualFold(row["featured"], "true"),
			FeaturedOrder: atoi(row["featured_order"], 0),
			FileURL:       row["file_url"],
		}
		if err := i.db.WithContext(ctx).
			Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "song_id"}}, DoNothing: true}).
			Create(&track).Error; err != nil {
			return err
		}
	}
	return nil
}

// readCSV returns the file as header-keyed rows, with BOM and stray
// newlines cleaned out of every cell.
func readCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	for i := range header {
		header[i] = cleanCell(header[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = cleanCell(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func cleanCell(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\uFEFF", ""))
	return strings.ReplaceAll(value, "\n", " ")
}

func atoi(value string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func atoiPtr(value string) *uint {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
	if err != nil {
		return nil
	}
	u := uint(n)
	return &u
}

func atof(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}
