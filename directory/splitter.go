package directory

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RawBlock is one object's worth of raw attribute lines, bounded by blank
// lines or a literal marker line. Not retained past parsing.
type RawBlock struct {
	Seq   int // 0-based block sequence within the source
	Line  int // 1-based line number of the first line in the block
	Lines []string
}

// SplitOptions controls block boundary detection.
type SplitOptions struct {
	// Separator is a literal marker line that also ends a block. Blank lines
	// always separate regardless.
	Separator string
}

// EachBlock streams blocks from r to fn in input order. Consecutive
// separators collapse; empty blocks are never emitted. The sequence is
// finite and consumed in a single pass; re-splitting requires re-supplying
// the input. Returning an error from fn stops the scan.
func EachBlock(r io.Reader, opts SplitOptions, fn func(RawBlock) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		block   RawBlock
		seq     int
		lineNum int
	)

	flush := func() error {
		if len(block.Lines) == 0 {
			return nil
		}
		block.Seq = seq
		seq++
		err := fn(block)
		block = RawBlock{}
		return err
	}

	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		// Strip a UTF-8 BOM from the very first line.
		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\uFEFF")
		}

		if strings.TrimSpace(line) == "" || (opts.Separator != "" && line == opts.Separator) {
			if err := flush(); err != nil {
				return err
			}
			continue
		}

		if len(block.Lines) == 0 {
			block.Line = lineNum
		}
		block.Lines = append(block.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning input: %w", err)
	}
	return flush()
}
