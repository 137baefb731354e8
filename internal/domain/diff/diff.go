// Package diff renders before/after code blocks as numbered lines annotated
// with line-level and character-level changes.
package diff

import (
	"slices"
	"strings"
)

const commentMarker = "//"

// Kind tags a line or a span of characters.
type Kind int

const (
	Unchanged Kind = iota
	Removed
	Added
)

func (k Kind) String() string {
	switch k {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unchanged"
	}
}

// Span is a run of characters sharing one Kind.
type Span struct {
	Kind Kind
	Text string
}

// Line is one rendered line. Removed lines carry their number in the old
// block, added lines their number in the new one.
type Line struct {
	Kind   Kind
	Number int
	Spans  []Span
}

// Text returns the full text of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, span := range l.Spans {
		b.WriteString(span.Text)
	}

	return b.String()
}

// Block is a rendered code block.
type Block struct {
	Changed bool
	Lines   []Line
}

// Before reconstructs the normalized old text.
func (b Block) Before() string {
	return b.side(Added)
}

// After reconstructs the normalized new text. An unchanged block returns its
// only text.
func (b Block) After() string {
	return b.side(Removed)
}

func (b Block) side(skip Kind) string {
	lines := make([]string, 0, len(b.Lines))

	for _, line := range b.Lines {
		if line.Kind == skip {
			continue
		}

		var text strings.Builder

		for _, span := range line.Spans {
			if span.Kind != skip {
				text.WriteString(span.Text)
			}
		}

		lines = append(lines, text.String())
	}

	return strings.Join(lines, "\n")
}

// Op is one line of a line-level diff.
type Op struct {
	Kind Kind
	Text string
}

// Normalize splits text into lines, drops everything from the first line
// comment marker on, and trims surrounding whitespace.
func Normalize(text string) []string {
	lines := strings.Split(text, "\n")

	out := make([]string, len(lines))
	for i, line := range lines {
		if idx := strings.Index(line, commentMarker); idx >= 0 {
			line = line[:idx]
		}

		out[i] = strings.TrimSpace(line)
	}

	return out
}

// Lines aligns two line sequences along a longest common subsequence.
// Removed lines of a changed run come before the added ones.
func Lines(before, after []string) []Op {
	a, b, lines, ok := tokenize(before, after)
	if !ok {
		return replaceAll(before, after)
	}

	ops := make([]Op, 0, max(len(before), len(after)))

	for _, d := range matcher().DiffMainRunes(a, b, false) {
		kind := kindOf(d.Type)
		for _, id := range d.Text {
			ops = append(ops, Op{Kind: kind, Text: lines[id]})
		}
	}

	return ops
}

func replaceAll(before, after []string) []Op {
	ops := make([]Op, 0, len(before)+len(after))

	for _, line := range before {
		ops = append(ops, Op{Kind: Removed, Text: line})
	}

	for _, line := range after {
		ops = append(ops, Op{Kind: Added, Text: line})
	}

	return ops
}

// Chars aligns two strings rune by rune and merges consecutive runes of the
// same kind into spans.
func Chars(before, after string) []Span {
	var spans []Span

	for _, d := range matcher().DiffMainRunes([]rune(before), []rune(after), false) {
		if d.Text != "" {
			spans = appendSpan(spans, Span{Kind: kindOf(d.Type), Text: d.Text})
		}
	}

	return spans
}

// Render renders before against after, numbering lines from start. A nil
// after, or one equal to before once normalized, renders every line as
// unchanged.
func Render(before string, after *string, start int) Block {
	beforeLines := Normalize(before)

	if after == nil {
		return unchangedBlock(beforeLines, start)
	}

	afterLines := Normalize(*after)
	if slices.Equal(beforeLines, afterLines) {
		return unchangedBlock(beforeLines, start)
	}

	r := renderer{oldNumber: start, newNumber: start}
	for _, op := range Lines(beforeLines, afterLines) {
		switch op.Kind {
		case Removed:
			r.removed = append(r.removed, op.Text)
		case Added:
			r.added = append(r.added, op.Text)
		default:
			r.flush()
			r.lines = append(r.lines, Line{
				Kind:   Unchanged,
				Number: r.oldNumber,
				Spans:  textSpans(Unchanged, op.Text),
			})
			r.oldNumber++
			r.newNumber++
		}
	}

	r.flush()

	return Block{Changed: true, Lines: r.lines}
}

type renderer struct {
	lines     []Line
	removed   []string
	added     []string
	oldNumber int
	newNumber int
}

// flush emits the pending hunk: removed lines first, then added lines.
func (r *renderer) flush() {
	if len(r.removed) == 0 && len(r.added) == 0 {
		return
	}

	removedSpans, addedSpans := hunkSpans(r.removed, r.added)

	for i, spans := range removedSpans {
		r.lines = append(r.lines, Line{Kind: Removed, Number: r.oldNumber + i, Spans: spans})
	}

	for i, spans := range addedSpans {
		r.lines = append(r.lines, Line{Kind: Added, Number: r.newNumber + i, Spans: spans})
	}

	r.oldNumber += len(r.removed)
	r.newNumber += len(r.added)
	r.removed = nil
	r.added = nil
}

// hunkSpans diffs the removed and added side of a hunk character by
// character and splits the result back into lines for each side.
func hunkSpans(removed, added []string) ([][]Span, [][]Span) {
	if len(added) == 0 || len(removed) == 0 {
		return wholeLines(Removed, removed), wholeLines(Added, added)
	}

	spans := Chars(strings.Join(removed, "\n"), strings.Join(added, "\n"))

	return splitLines(spans, Added), splitLines(spans, Removed)
}

func wholeLines(kind Kind, lines []string) [][]Span {
	if len(lines) == 0 {
		return nil
	}

	out := make([][]Span, len(lines))
	for i, line := range lines {
		out[i] = textSpans(kind, line)
	}

	return out
}

func splitLines(spans []Span, skip Kind) [][]Span {
	lines := [][]Span{nil}

	for _, span := range spans {
		if span.Kind == skip {
			continue
		}

		for i, part := range strings.Split(span.Text, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}

			if part != "" {
				last := len(lines) - 1
				lines[last] = appendSpan(lines[last], Span{Kind: span.Kind, Text: part})
			}
		}
	}

	return lines
}

func appendSpan(spans []Span, span Span) []Span {
	if n := len(spans); n > 0 && spans[n-1].Kind == span.Kind {
		spans[n-1].Text += span.Text
		return spans
	}

	return append(spans, span)
}

func textSpans(kind Kind, text string) []Span {
	if text == "" {
		return nil
	}

	return []Span{{Kind: kind, Text: text}}
}

func unchangedBlock(lines []string, start int) Block {
	out := make([]Line, len(lines))
	for i, line := range lines {
		out[i] = Line{Kind: Unchanged, Number: start + i, Spans: textSpans(Unchanged, line)}
	}

	return Block{Lines: out}
}
