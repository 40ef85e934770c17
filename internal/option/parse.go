package option

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"
)

// maxLineLen bounds a single input line in bytes.
const maxLineLen = 64 * 1024

// ParseLines reads one option per line from r.
//
// Each line is split with shell quoting rules. A line holding one word uses
// it as both label and value; two words are label then value. Values
// written as plain numbers ("3", "1.5") become numbers. Blank lines and
// lines starting with '#' are skipped.
//
//	Apple apple
//	"Green apple" 3
//	pear
func ParseLines(r io.Reader) (List, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineLen)

	var list List
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields, err := shlex.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		switch len(fields) {
		case 0:
			continue
		case 1:
			list = append(list, New(fields[0], ParseValue(fields[0])))
		case 2:
			list = append(list, New(fields[0], ParseValue(fields[1])))
		default:
			return nil, fmt.Errorf("line %d: expected \"label [value]\", got %d fields", lineNo, len(fields))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read options: %w", err)
	}
	return list, nil
}
