package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// parseInputFile reads domains or targets from the first column of a CSV
// file. A first row whose first cell is "domain" or "target" is a header.
// Blank rows and rows starting with '#' are skipped.
func parseInputFile(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var inputs []string
	for i, record := range records {
		if len(record) == 0 {
			continue
		}
		value := strings.TrimSpace(record[0])
		if value == "" {
			continue
		}
		if i == 0 {
			switch strings.ToLower(value) {
			case "domain", "target":
				continue
			}
		}
		inputs = append(inputs, value)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no domains found")
	}
	return inputs, nil
}
