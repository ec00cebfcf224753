/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// loadQuestions reads one question template per line. Blank lines and lines
// starting with # are skipped.
func loadQuestions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	questions, err := parseQuestions(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return questions, nil
}

func parseQuestions(r io.Reader) ([]string, error) {
	var questions []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		questions = append(questions, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, errors.New("no questions found")
	}

	return questions, nil
}
