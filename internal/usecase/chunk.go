package usecase

import "unicode"

// DefaultChunkLimit stays under Telegram's 4096 character message cap.
const DefaultChunkLimit = 4000

// ChunkText splits text into pieces of at most limit characters. A piece ends
// at the last newline before the limit when there is one, otherwise exactly at
// the limit. Whitespace at the start of each following piece is dropped.
func ChunkText(text string, limit int) []string {
	if limit <= 0 {
		limit = DefaultChunkLimit
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > 0 {
		if len(runes) <= limit {
			parts = append(parts, string(runes))
			break
		}
		cut := lastNewline(runes[:limit])
		if cut <= 0 {
			cut = limit
		}
		parts = append(parts, string(runes[:cut]))
		runes = trimLeftSpace(runes[cut:])
	}
	return parts
}

func lastNewline(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == '\n' {
			return i
		}
	}
	return -1
}

func trimLeftSpace(runes []rune) []rune {
	i := 0
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	return runes[i:]
}

