// Package popfile reads and writes populations in the plain text format: one
// organism per line, integers separated by whitespace.
package popfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"darwin/internal/model"
)

// ParseError reports the first character that cannot be part of an integer.
type ParseError struct {
	Line int
	Char rune
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("non-integer value at line %d (character %q)", e.Line, e.Char)
}

// Read parses a population. Blank lines are skipped.
func Read(r io.Reader) (model.Population, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var population model.Population
	line := 0
	for scanner.Scan() {
		line++
		organism, err := parseLine(scanner.Text(), line)
		if err != nil {
			return nil, err
		}
		if len(organism) == 0 {
			continue
		}
		population = append(population, organism)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read population: %w", err)
	}
	return population, nil
}

func parseLine(text string, line int) (model.Organism, error) {
	for _, c := range text {
		if unicode.IsSpace(c) || (c >= '0' && c <= '9') || c == '-' || c == '+' {
			continue
		}
		return nil, &ParseError{Line: line, Char: c}
	}

	fields := strings.Fields(text)
	organism := make(model.Organism, 0, len(fields))
	for _, field := range fields {
		value, err := strconv.Atoi(field)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return nil, fmt.Errorf("line %d: integer out of range: %s", line, field)
			}
			return nil, &ParseError{Line: line, Char: firstBadSign(field)}
		}
		organism = append(organism, value)
	}
	return organism, nil
}

// firstBadSign locates the misplaced sign in tokens such as "1-2" or "--3".
func firstBadSign(field string) rune {
	for i, c := range field {
		if i > 0 && (c == '-' || c == '+') {
			return c
		}
	}
	return rune(field[0])
}

func ReadFile(path string) (model.Population, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open population file: %w", err)
	}
	defer f.Close()

	population, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return population, nil
}

// Write emits the summary header followed by every non-empty organism. A
// non-finite mean is written as 0.
func Write(w io.Writer, population model.Population, stats model.SummaryStats) error {
	bw := bufio.NewWriter(w)

	accuracy := stats.MeanFitness
	if math.IsNaN(accuracy) || math.IsInf(accuracy, 0) {
		accuracy = 0
	}
	fmt.Fprintf(bw, "Accuracy: %s%%\n", strconv.FormatFloat(accuracy*100, 'g', 6, 64))
	fmt.Fprintf(bw, "Perfect fits: %d\n", stats.PerfectFitCount)

	for _, organism := range population {
		if len(organism) == 0 {
			continue
		}
		for i, gene := range organism {
			if i > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(gene))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func WriteFile(path string, population model.Population, stats model.SummaryStats) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := Write(f, population, stats); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
