package worker

import (
	"bufio"
	"io"
	"strings"
)

// ReadInputs reads targets from r. Everything after a '#' is a comment; the
// rest of each line is split on whitespace, so a line may carry several
// targets. Lines with no targets are skipped.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		inputs = append(inputs, strings.Fields(line)...)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}
