package vault

import "strings"

// Render produces the full document text. Every section header is always
// written, empty or not, so repeated parse/render cycles are stable.
func (d *Document) Render() string {
	var b strings.Builder

	b.WriteString(headerRawData + "\n")
	b.WriteString(rawFenceOpen + "\n")
	for _, line := range d.RawData {
		b.WriteString(line + "\n")
	}
	b.WriteString(fenceClose + "\n\n")

	writeSection(&b, headerTags, d.Tags)
	writeSection(&b, headerMembers, d.Members)
	writeSection(&b, headerParents, d.Parents)
	writeSection(&b, headerUAC, d.UACValues)
	writeSection(&b, headerTimestamps, d.Timestamps)

	// User Defined comes last with no trailing separator so analyst content
	// round-trips byte for byte.
	b.WriteString(headerUserDefined + "\n")
	for _, line := range d.UserDefined {
		b.WriteString(line + "\n")
	}

	return b.String()
}

func writeSection(b *strings.Builder, header string, lines []string) {
	b.WriteString(header + "\n")
	for _, line := range lines {
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")
}
