package editor

import (
	"bytes"
	"strings"
)

// Class tags one render byte with the syntax role it plays. The renderer
// maps each class to a style from the theme.
type Class uint8

const (
	ClassNormal Class = iota
	ClassComment
	ClassBlockComment
	ClassKeyword
	ClassType
	ClassString
	ClassNumber
	ClassMatch
)

const classCount = int(ClassMatch) + 1

const separators = ",.()+-/*=~%<>[];"

func isSeparator(b byte) bool {
	return b == ' ' || b == '\t' || b == 0 || strings.IndexByte(separators, b) >= 0
}

// updateHighlight rescans the row at the given index and walks downward,
// rescanning each following row whose open-comment state flips. The walk
// is a plain loop bounded by the number of rows, so a comment toggle near
// the top of a large file costs one pass and no stack depth.
func (e *Editor) updateHighlight(at int) {
	for at >= 0 && at < len(e.rows) {
		row := e.rows[at]
		open := e.scanRow(row)
		changed := open != row.openComment
		row.openComment = open
		if !changed {
			return
		}
		at++
	}
}

// rehighlightAll rescans every row top to bottom. Used when the active
// language changes, since every comment seed may differ.
func (e *Editor) rehighlightAll() {
	for _, row := range e.rows {
		row.openComment = e.scanRow(row)
	}
}

// scanRow classifies every render byte of the row and reports whether the
// row ends inside an unterminated block comment. The scan seeds its
// block-comment state from the previous row.
func (e *Editor) scanRow(row *Row) bool {
	row.highlight = make([]Class, len(row.render))
	syn := e.syntax
	if syn == nil {
		return false
	}

	scs := []byte(syn.LineComment)
	mcs := []byte(syn.BlockCommentStart)
	mce := []byte(syn.BlockCommentEnd)

	prevSep := true
	var inString byte
	inComment := row.idx > 0 && e.rows[row.idx-1].openComment

	i := 0
	for i < len(row.render) {
		c := row.render[i]
		prevClass := ClassNormal
		if i > 0 {
			prevClass = row.highlight[i-1]
		}

		if len(scs) > 0 && inString == 0 && !inComment {
			if bytes.HasPrefix(row.render[i:], scs) {
				for j := i; j < len(row.render); j++ {
					row.highlight[j] = ClassComment
				}
				break
			}
		}

		if len(mcs) > 0 && len(mce) > 0 && inString == 0 {
			if inComment {
				row.highlight[i] = ClassBlockComment
				if bytes.HasPrefix(row.render[i:], mce) {
					for j := i; j < i+len(mce); j++ {
						row.highlight[j] = ClassBlockComment
					}
					i += len(mce)
					inComment = false
					prevSep = true
					continue
				}
				i++
				continue
			}
			if bytes.HasPrefix(row.render[i:], mcs) {
				for j := i; j < i+len(mcs); j++ {
					row.highlight[j] = ClassBlockComment
				}
				i += len(mcs)
				inComment = true
				continue
			}
		}

		if syn.HighlightStrings {
			if inString != 0 {
				row.highlight[i] = ClassString
				if c == '\\' && i+1 < len(row.render) {
					row.highlight[i+1] = ClassString
					i += 2
					continue
				}
				if c == inString {
					inString = 0
				}
				i++
				prevSep = true
				continue
			}
			if c == '"' || c == '\'' {
				inString = c
				row.highlight[i] = ClassString
				i++
				continue
			}
		}

		if syn.HighlightNumbers {
			if ((c >= '0' && c <= '9') && (prevSep || prevClass == ClassNumber)) ||
				(c == '.' && prevClass == ClassNumber) {
				row.highlight[i] = ClassNumber
				i++
				prevSep = false
				continue
			}
		}

		if prevSep {
			matched := false
			for _, kw := range syn.Keywords {
				word := strings.TrimSuffix(kw, "|")
				if word == "" {
					continue
				}
				if !bytes.HasPrefix(row.render[i:], []byte(word)) {
					continue
				}
				end := i + len(word)
				if end < len(row.render) && !isSeparator(row.render[end]) {
					continue
				}
				cls := ClassKeyword
				if strings.HasSuffix(kw, "|") {
					cls = ClassType
				}
				for j := i; j < end; j++ {
					row.highlight[j] = cls
				}
				i = end
				matched = true
				break
			}
			if matched {
				prevSep = false
				continue
			}
		}

		prevSep = isSeparator(c)
		i++
	}
	return inComment
}
