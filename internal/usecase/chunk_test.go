package usecase

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInputIsUntouched(t *testing.T) {
	for _, text := range []string{"", "  padded answer \n", strings.Repeat("x", 4000)} {
		assert.Equal(t, []string{text}, ChunkText(text, 4000))
	}
}

func TestChunkTextSplitsAtLastNewline(t *testing.T) {
	text := strings.Repeat("a", 3990) + "\n" + strings.Repeat("b", 509)
	require.Equal(t, 4500, utf8.RuneCountInString(text))

	parts := ChunkText(text, 4000)

	require.Len(t, parts, 2)
	assert.Equal(t, text[:3990], parts[0])
	assert.Equal(t, strings.TrimLeftFunc(text[3990:], unicode.IsSpace), parts[1])
}

func TestChunkTextHardCutWithoutNewline(t *testing.T) {
	text := strings.Repeat("z", 10)

	parts := ChunkText(text, 4)

	assert.Equal(t, []string{"zzzz", "zzzz", "zz"}, parts)
}

func TestChunkTextLeadingNewlineNeverYieldsEmptyChunk(t *testing.T) {
	parts := ChunkText("\nabcdef", 3)

	for _, p := range parts {
		assert.NotEmpty(t, p)
	}
	assert.Equal(t, "\nabcdef", strings.Join(parts, ""))
}

func TestChunkTextCountsRunesNotBytes(t *testing.T) {
	text := strings.Repeat("क", 6)

	parts := ChunkText(text, 4)

	assert.Equal(t, []string{"कककक", "कक"}, parts)
}

func TestChunkTextProperties(t *testing.T) {
	lines := []string{"⚖️ CONTRACT TYPE", "Rental agreement", "", "⚠️ RISKY CLAUSES"}
	var b strings.Builder
	for i := 0; i < 400; i++ {
		b.WriteString(lines[i%len(lines)])
		b.WriteString(strings.Repeat(" word", i%17))
		b.WriteString("\n")
	}
	text := b.String()

	for _, limit := range []int{1, 7, 64, 500, 4000} {
		parts := ChunkText(text, limit)
		var rebuilt strings.Builder
		for _, p := range parts {
			require.NotEmpty(t, p)
			require.LessOrEqual(t, utf8.RuneCountInString(p), limit)
			rebuilt.WriteString(p)
		}
		assert.Equal(t, stripSpace(text), stripSpace(rebuilt.String()), "limit %d", limit)
	}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
