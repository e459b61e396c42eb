package vault

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotADocument marks stored text that cannot be split into the expected
// sections. The merge path falls back to preserving it verbatim.
var ErrNotADocument = errors.New("text has no recognizable document sections")

type sectionKind int

const (
	secNone sectionKind = iota
	secRawData
	secTags
	secMembers
	secParents
	secUAC
	secTimestamps
	secUserDefined
)

var sectionHeaders = map[string]sectionKind{
	headerRawData:     secRawData,
	headerTags:        secTags,
	headerMembers:     secMembers,
	headerParents:     secParents,
	headerUAC:         secUAC,
	headerTimestamps:  secTimestamps,
	headerUserDefined: secUserDefined,
}

// Parse splits rendered document text back into structured sections.
// Header detection is suppressed inside code fences, so fenced analyst
// content (including recovered fragments of older documents) stays inert.
// Content appearing before the first header, or an unclosed Raw Data fence,
// is treated as corruption.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	current := secNone
	inFence := false
	sawHeader := false

	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)

		if !inFence {
			if kind, ok := sectionHeaders[trimmed]; ok {
				current = kind
				sawHeader = true
				continue
			}
		}

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			// The Raw Data fence is rendering furniture; fences anywhere
			// else are content.
			if current == secRawData {
				continue
			}
		}

		switch current {
		case secNone:
			if trimmed != "" {
				return nil, fmt.Errorf("%w: content before first section header", ErrNotADocument)
			}
		case secRawData:
			if trimmed != "" || inFence {
				doc.RawData = append(doc.RawData, line)
			}
		case secUserDefined:
			doc.UserDefined = append(doc.UserDefined, line)
		default:
			if trimmed == "" {
				continue
			}
			switch current {
			case secTags:
				doc.Tags = append(doc.Tags, trimmed)
			case secMembers:
				doc.Members = append(doc.Members, trimmed)
			case secParents:
				doc.Parents = append(doc.Parents, trimmed)
			case secUAC:
				doc.UACValues = append(doc.UACValues, trimmed)
			case secTimestamps:
				doc.Timestamps = append(doc.Timestamps, trimmed)
			}
		}
	}

	if !sawHeader {
		return nil, ErrNotADocument
	}
	if inFence && current == secRawData {
		return nil, fmt.Errorf("%w: unterminated raw data fence", ErrNotADocument)
	}

	doc.UserDefined = trimTrailingBlank(doc.UserDefined)
	return doc, nil
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func trimTrailingBlank(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
