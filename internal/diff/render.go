package diff

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sirupsen/logrus"

	"github.com/motefs/mote/internal/fsio"
	"github.com/motefs/mote/internal/storage/object"
)

// OpKind tags one line operation of a text diff.
type OpKind int

const (
	OpEqual OpKind = iota
	OpDelete
	OpInsert
)

// LineOp is one line-level operation. Line is 1-based and counted on the
// side the operation belongs to: the old text for Delete and Equal, the new
// text for Insert.
type LineOp struct {
	Kind OpKind
	Line int
	Text string
}

// LineOps computes the line operations turning oldText into newText.
func LineOps(oldText, newText string) []LineOp {
	a := splitText(oldText)
	b := splitText(newText)

	var ops []LineOp
	matcher := difflib.NewMatcher(a, b)
	for _, oc := range matcher.GetOpCodes() {
		switch oc.Tag {
		case 'e':
			for i := oc.I1; i < oc.I2; i++ {
				ops = append(ops, LineOp{Kind: OpEqual, Line: i + 1, Text: trimLine(a[i])})
			}
		case 'd':
			for i := oc.I1; i < oc.I2; i++ {
				ops = append(ops, LineOp{Kind: OpDelete, Line: i + 1, Text: trimLine(a[i])})
			}
		case 'i':
			for j := oc.J1; j < oc.J2; j++ {
				ops = append(ops, LineOp{Kind: OpInsert, Line: j + 1, Text: trimLine(b[j])})
			}
		case 'r':
			for i := oc.I1; i < oc.I2; i++ {
				ops = append(ops, LineOp{Kind: OpDelete, Line: i + 1, Text: trimLine(a[i])})
			}
			for j := oc.J1; j < oc.J2; j++ {
				ops = append(ops, LineOp{Kind: OpInsert, Line: j + 1, Text: trimLine(b[j])})
			}
		}
	}
	return ops
}

func trimLine(s string) string {
	return strings.TrimSuffix(s, "\n")
}

// Engine renders content diffs for classified paths. When WorktreeRoot is
// set, "new" content is read from disk; otherwise it comes from the object
// store by hash.
type Engine struct {
	Objects      *object.Store
	WorktreeRoot string
}

// loadOld returns the old content, empty for Added paths. A missing object
// is warned about and reported as absent rather than failing the diff.
func (e *Engine) loadOld(d FileDiff) ([]byte, bool) {
	if d.OldHash == "" {
		return nil, true
	}
	content, err := e.Objects.Read(d.OldHash)
	if err != nil {
		logrus.WithField("file", d.Path).Warnf("diff: %v", err)
		return nil, false
	}
	return content, true
}

func (e *Engine) loadNew(d FileDiff) ([]byte, bool) {
	if e.WorktreeRoot != "" {
		content, err := fsio.ReadFile(filepath.Join(e.WorktreeRoot, filepath.FromSlash(d.Path)))
		if err != nil {
			if fsio.IsNotExist(err) {
				return nil, true
			}
			logrus.WithField("file", d.Path).Warnf("diff: %v", err)
			return nil, false
		}
		return content, true
	}
	if d.NewHash == "" {
		return nil, true
	}
	content, err := e.Objects.Read(d.NewHash)
	if err != nil {
		logrus.WithField("file", d.Path).Warnf("diff: %v", err)
		return nil, false
	}
	return content, true
}

// WriteLineDiff writes the changed lines of d: deletions as "-" and
// insertions as "+", each prefixed with its 1-based line number.
func (e *Engine) WriteLineDiff(w io.Writer, d FileDiff) error {
	oldContent, ok := e.loadOld(d)
	if !ok {
		return nil
	}
	newContent, ok := e.loadNew(d)
	if !ok {
		return nil
	}

	oldText := decode(oldContent)
	newText := decode(newContent)
	if oldText == "" && newText == "" {
		return nil
	}

	if _, err := fmt.Fprintf(w, "--- %s\n", d.Path); err != nil {
		return err
	}
	for _, op := range LineOps(oldText, newText) {
		var err error
		switch op.Kind {
		case OpDelete:
			_, err = fmt.Fprintf(w, "-%d: %s\n", op.Line, op.Text)
		case OpInsert:
			_, err = fmt.Fprintf(w, "+%d: %s\n", op.Line, op.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteUnified writes d in unified format with the given context radius.
func (e *Engine) WriteUnified(w io.Writer, d FileDiff, context int) error {
	oldContent, ok := e.loadOld(d)
	if !ok {
		return nil
	}
	newContent, ok := e.loadNew(d)
	if !ok {
		return nil
	}

	oldText := decode(oldContent)
	newText := decode(newContent)
	if oldText == "" && newText == "" {
		return nil
	}

	if _, err := fmt.Fprintf(w, "diff --mote a/%s b/%s\n", d.Path, d.Path); err != nil {
		return err
	}
	ud := difflib.UnifiedDiff{
		A:        splitNonEmpty(oldText),
		B:        splitNonEmpty(newText),
		FromFile: "a/" + d.Path,
		ToFile:   "b/" + d.Path,
		Context:  context,
	}
	if err := difflib.WriteUnifiedDiff(w, ud); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// splitText splits text into lines with endings kept. difflib's splitter
// appends a sentinel blank line after a trailing newline; that would make
// LineOps number an operation one past the last real line, so it is not
// used here.
func splitText(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// splitNonEmpty splits text with difflib's own splitter, mapping empty
// text to no lines instead of a single blank line. Unified rendering keeps
// difflib's line form, sentinel included.
func splitNonEmpty(text string) []string {
	if text == "" {
		return nil
	}
	return difflib.SplitLines(text)
}

// decode converts raw bytes to text, substituting invalid UTF-8 so binary
// content never fails a diff.
func decode(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
