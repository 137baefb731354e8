package diff

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// maxTokens is the number of distinct lines Lines can tell apart: each one
// is encoded as a single valid rune, skipping the surrogate range.
const maxTokens = utf8.MaxRune + 1 - (0xE000 - 0xD800)

// matcher returns a diffmatchpatch instance without a deadline. With no
// deadline the half-match heuristic is off and bisection always runs to the
// end, so the result is a minimal edit script (a longest common
// subsequence) that only depends on the inputs. Within a changed run
// deletions always precede insertions.
func matcher() *diffmatchpatch.DiffMatchPatch {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0

	return dmp
}

func kindOf(op diffmatchpatch.Operation) Kind {
	switch op {
	case diffmatchpatch.DiffDelete:
		return Removed
	case diffmatchpatch.DiffInsert:
		return Added
	default:
		return Unchanged
	}
}

// tokenize maps every distinct line of before and after to one rune.
func tokenize(before, after []string) ([]rune, []rune, map[rune]string, bool) {
	ids := make(map[string]rune)
	lines := make(map[rune]string)

	encode := func(side []string) ([]rune, bool) {
		out := make([]rune, len(side))

		for i, line := range side {
			id, ok := ids[line]
			if !ok {
				if len(ids) >= maxTokens {
					return nil, false
				}

				id = tokenRune(len(ids))
				ids[line] = id
				lines[id] = line
			}

			out[i] = id
		}

		return out, true
	}

	a, ok := encode(before)
	if !ok {
		return nil, nil, nil, false
	}

	b, ok := encode(after)
	if !ok {
		return nil, nil, nil, false
	}

	return a, b, lines, true
}

func tokenRune(n int) rune {
	if n >= 0xD800 {
		n += 0xE000 - 0xD800
	}

	return rune(n)
}
