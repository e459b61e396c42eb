package directory_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"advault/directory"
)

func collectBlocks(t *testing.T, input, separator string) []directory.RawBlock {
	t.Helper()
	var blocks []directory.RawBlock
	err := directory.EachBlock(strings.NewReader(input), directory.SplitOptions{Separator: separator}, func(b directory.RawBlock) error {
		blocks = append(blocks, b)
		return nil
	})
	require.NoError(t, err)
	return blocks
}

func TestEachBlock_BlankLineBoundaries(t *testing.T) {
	input := "cn: Alice\nsn: Smith\n\ncn: Bob\n"
	blocks := collectBlocks(t, input, "")

	require.Len(t, blocks, 2)
	require.Equal(t, []string{"cn: Alice", "sn: Smith"}, blocks[0].Lines)
	require.Equal(t, []string{"cn: Bob"}, blocks[1].Lines)
	require.Equal(t, 0, blocks[0].Seq)
	require.Equal(t, 1, blocks[1].Seq)
	require.Equal(t, 4, blocks[1].Line)
}

func TestEachBlock_MarkerSeparator(t *testing.T) {
	input := "cn: Alice\n--------------------\ncn: Bob\n"
	blocks := collectBlocks(t, input, "--------------------")

	require.Len(t, blocks, 2)
	require.Equal(t, []string{"cn: Alice"}, blocks[0].Lines)
	require.Equal(t, []string{"cn: Bob"}, blocks[1].Lines)
}

func TestEachBlock_ConsecutiveSeparatorsCollapse(t *testing.T) {
	input := "\n\ncn: Alice\n\n\n--------------------\n\ncn: Bob\n\n\n"
	blocks := collectBlocks(t, input, "--------------------")

	require.Len(t, blocks, 2)
}

func TestEachBlock_LastBlockWithoutTrailingSeparator(t *testing.T) {
	blocks := collectBlocks(t, "cn: Alice", "")
	require.Len(t, blocks, 1)
	require.Equal(t, []string{"cn: Alice"}, blocks[0].Lines)
}

func TestEachBlock_EmptyInput(t *testing.T) {
	require.Empty(t, collectBlocks(t, "", ""))
	require.Empty(t, collectBlocks(t, "\n\n\n", ""))
}

func TestEachBlock_StripsBOM(t *testing.T) {
	blocks := collectBlocks(t, "\uFEFFcn: Alice\n", "")
	require.Len(t, blocks, 1)
	require.Equal(t, "cn: Alice", blocks[0].Lines[0])
}

func TestEachBlock_CallbackErrorStopsScan(t *testing.T) {
	errStop := errors.New("stop")
	calls := 0
	err := directory.EachBlock(strings.NewReader("cn: A\n\ncn: B\n"), directory.SplitOptions{}, func(directory.RawBlock) error {
		calls++
		return errStop
	})
	require.ErrorIs(t, err, errStop)
	require.Equal(t, 1, calls)
}
