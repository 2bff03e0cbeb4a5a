package excel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/example/growtalk/internal/database"
	"github.com/example/growtalk/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names expected in a content workbook.
const (
	SheetVocab    = "vocab"
	SheetPassages = "passages"
	SheetClosed   = "closed"
	SheetOpen     = "open"
)

// ImportResult holds the result of an import operation
type ImportResult struct {
	VocabItems      int
	Passages        int
	ClosedQuestions int
	OpenQuestions   int
	Errors          []string
}

// ImportContent loads the day-keyed content tables from an .xlsx workbook.
//
// Expected columns (first row is a header):
//
//	vocab:    day | word | part_of_speech | meaning | example | mnemonic | root | tip
//	passages: day | passage_text
//	closed:   day | question_id | question_text | answer_text
//	open:     day | question_id | question_text | answer_text | learning_objective
//
// Vocabulary positions within a day are assigned in row order, starting at 0.
func ImportContent(ctx context.Context, filePath string) (*ImportResult, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %v", err)
	}
	defer f.Close()

	repo := database.NewContentRepository()
	result := &ImportResult{}

	if err := importVocab(ctx, f, repo, result); err != nil {
		return nil, err
	}
	if err := importPassages(ctx, f, repo, result); err != nil {
		return nil, err
	}
	if err := importClosed(ctx, f, repo, result); err != nil {
		return nil, err
	}
	if err := importOpen(ctx, f, repo, result); err != nil {
		return nil, err
	}

	return result, nil
}

// rows returns the data rows of a sheet, skipping the header. A missing sheet
// is not an error; the workbook may carry only some of the content types.
func rows(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, nil
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", sheet, err)
	}
	if len(all) <= 1 {
		return nil, nil
	}
	return all[1:], nil
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func importVocab(ctx context.Context, f *excelize.File, repo *database.ContentRepository, result *ImportResult) error {
	data, err := rows(f, SheetVocab)
	if err != nil {
		return err
	}

	positions := make(map[int]int) // next 0-based position per day
	for i, row := range data {
		day, err := strconv.Atoi(cell(row, 0))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vocab row %d: invalid day %q", i+2, cell(row, 0)))
			continue
		}
		word := cell(row, 1)
		meaning := cell(row, 3)
		if word == "" || meaning == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("vocab row %d: empty word or meaning", i+2))
			continue
		}

		item := &models.VocabItem{
			Day:          day,
			Position:     positions[day],
			Word:         word,
			PartOfSpeech: cell(row, 2),
			Meaning:      meaning,
			Example:      cell(row, 4),
			Mnemonic:     cell(row, 5),
			Root:         cell(row, 6),
			Tip:          cell(row, 7),
		}
		if err := repo.CreateVocabItem(ctx, item); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("vocab row %d: %v", i+2, err))
			continue
		}
		positions[day]++
		result.VocabItems++
	}
	return nil
}

func importPassages(ctx context.Context, f *excelize.File, repo *database.ContentRepository, result *ImportResult) error {
	data, err := rows(f, SheetPassages)
	if err != nil {
		return err
	}

	for i, row := range data {
		day, err := strconv.Atoi(cell(row, 0))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("passages row %d: invalid day %q", i+2, cell(row, 0)))
			continue
		}
		text := cell(row, 1)
		if text == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("passages row %d: empty passage", i+2))
			continue
		}
		if err := repo.CreatePassage(ctx, day, text); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("passages row %d: %v", i+2, err))
			continue
		}
		result.Passages++
	}
	return nil
}

func importClosed(ctx context.Context, f *excelize.File, repo *database.ContentRepository, result *ImportResult) error {
	data, err := rows(f, SheetClosed)
	if err != nil {
		return err
	}

	for i, row := range data {
		day, dayErr := strconv.Atoi(cell(row, 0))
		qid, qidErr := strconv.Atoi(cell(row, 1))
		if dayErr != nil || qidErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("closed row %d: invalid day or question id", i+2))
			continue
		}
		q := &models.ClosedQuestion{
			Day:        day,
			QuestionID: qid,
			Question:   cell(row, 2),
			Answer:     cell(row, 3),
		}
		if q.Question == "" || q.Answer == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("closed row %d: empty question or answer", i+2))
			continue
		}
		if err := repo.CreateClosedQuestion(ctx, q); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("closed row %d: %v", i+2, err))
			continue
		}
		result.ClosedQuestions++
	}
	return nil
}

func importOpen(ctx context.Context, f *excelize.File, repo *database.ContentRepository, result *ImportResult) error {
	data, err := rows(f, SheetOpen)
	if err != nil {
		return err
	}

	for i, row := range data {
		day, dayErr := strconv.Atoi(cell(row, 0))
		qid, qidErr := strconv.Atoi(cell(row, 1))
		if dayErr != nil || qidErr != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("open row %d: invalid day or question id", i+2))
			continue
		}
		q := &models.OpenQuestion{
			Day:        day,
			QuestionID: qid,
			Question:   cell(row, 2),
			Answer:     cell(row, 3),
			Objective:  cell(row, 4),
		}
		if q.Question == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("open row %d: empty question", i+2))
			continue
		}
		if err := repo.CreateOpenQuestion(ctx, q); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("open row %d: %v", i+2, err))
			continue
		}
		result.OpenQuestions++
	}
	return nil
}
