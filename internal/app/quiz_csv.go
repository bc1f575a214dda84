package app

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"quiz-storefront/internal/domain"
)

var csvColumns = []string{"question", "option_a", "option_b", "option_c", "option_d", "answer"}

// ParseQuizCSV reads questions from an uploaded CSV with the columns
// question,option_a,option_b,option_c,option_d,answer (any order, extra columns ignored).
func ParseQuizCSV(r io.Reader) ([]domain.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.Validationf("csv is empty")
	}
	if err != nil {
		return nil, domain.Validationf("read csv header: %v", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		index[name] = i
	}
	for _, col := range csvColumns {
		if _, ok := index[col]; !ok {
			return nil, domain.Validationf("csv must contain headers: %s", strings.Join(csvColumns, ","))
		}
	}

	var questions []domain.Question
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.Validationf("row %d: %v", row, err)
		}
		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		if isBlank(record) {
			continue
		}
		prompt := field("question")
		if prompt == "" {
			return nil, domain.Validationf("row %d: question is empty", row)
		}
		answer := normalizeLetter(field("answer"))
		if !validLetter(answer) {
			return nil, domain.Validationf("row %d: answer %q must be one of A, B, C, D", row, field("answer"))
		}
		questions = append(questions, domain.Question{
			Prompt: prompt,
			Options: map[string]string{
				"A": field("option_a"),
				"B": field("option_b"),
				"C": field("option_c"),
				"D": field("option_d"),
			},
			Answer: answer,
		})
	}

	if len(questions) == 0 {
		return nil, domain.Validationf("csv has no questions")
	}
	return questions, nil
}

func validLetter(s string) bool {
	for _, l := range domain.OptionLetters {
		if s == l {
			return true
		}
	}
	return false
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
