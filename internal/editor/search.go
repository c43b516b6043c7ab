package editor

import (
	"bytes"

	"github.com/gdamore/tcell/v2"
)

// findState carries an incremental search session. lastMatch remembers
// the row of the previous hit so repeated searches continue from there,
// savedRow/savedHighlight hold the one-row highlight overlay to undo,
// and the saved cursor and offsets restore the view on cancel.
type findState struct {
	query     []byte
	lastMatch int
	direction int

	savedRow       int
	savedHighlight []Class

	savedCursor    Cursor
	savedRowOffset int
	savedColOffset int
}

func (e *Editor) startFind() {
	e.mode = ModeFind
	e.find = findState{
		lastMatch:      -1,
		direction:      1,
		savedRow:       -1,
		savedCursor:    e.cursor,
		savedRowOffset: e.rowOffset,
		savedColOffset: e.colOffset,
	}
	e.showFindPrompt()
}

func (e *Editor) showFindPrompt() {
	e.SetStatusMessage("Search: %s (Use ESC/Arrows/Enter)", e.find.query)
}

func (e *Editor) handleFind(ev *tcell.EventKey) {
	e.restoreFindHighlight()
	switch {
	case ev.Key() == tcell.KeyEscape:
		e.cursor = e.find.savedCursor
		e.rowOffset = e.find.savedRowOffset
		e.colOffset = e.find.savedColOffset
		e.mode = ModeEdit
		e.SetStatusMessage("")
		return
	case ev.Key() == tcell.KeyEnter:
		e.mode = ModeEdit
		e.SetStatusMessage("")
		return
	case ev.Key() == tcell.KeyRight || ev.Key() == tcell.KeyDown:
		e.find.direction = 1
	case ev.Key() == tcell.KeyLeft || ev.Key() == tcell.KeyUp:
		e.find.direction = -1
	case ev.Key() == tcell.KeyBackspace || ev.Key() == tcell.KeyBackspace2 ||
		ev.Key() == tcell.KeyDelete:
		if len(e.find.query) > 0 {
			e.find.query = e.find.query[:len(e.find.query)-1]
		}
		e.find.lastMatch = -1
		e.find.direction = 1
	case ev.Key() == tcell.KeyRune:
		e.find.query = append(e.find.query, []byte(string(ev.Rune()))...)
		e.find.lastMatch = -1
		e.find.direction = 1
	default:
		e.find.lastMatch = -1
		e.find.direction = 1
	}
	e.findStep()
	e.showFindPrompt()
}

// findStep advances the search one hit in the current direction,
// scanning every row at most once and wrapping around the buffer.
func (e *Editor) findStep() {
	if len(e.find.query) == 0 {
		return
	}
	if e.find.lastMatch == -1 {
		e.find.direction = 1
	}
	current := e.find.lastMatch
	for range e.rows {
		current += e.find.direction
		if current == -1 {
			current = len(e.rows) - 1
		} else if current == len(e.rows) {
			current = 0
		}
		row := e.rows[current]
		idx := bytes.Index(row.render, e.find.query)
		if idx < 0 {
			continue
		}
		e.find.lastMatch = current
		e.cursor.Row = current
		e.cursor.Col = row.RawCol(idx, e.tabWidth)
		// Push the offset past the end so the next scroll snaps the
		// match row to the top of the view.
		e.rowOffset = len(e.rows)

		e.find.savedRow = current
		e.find.savedHighlight = append([]Class(nil), row.highlight...)
		for j := idx; j < idx+len(e.find.query); j++ {
			row.highlight[j] = ClassMatch
		}
		return
	}
}

// restoreFindHighlight undoes the match overlay left by the previous
// findStep, if any.
func (e *Editor) restoreFindHighlight() {
	if e.find.savedRow < 0 || e.find.savedRow >= len(e.rows) {
		e.find.savedRow = -1
		e.find.savedHighlight = nil
		return
	}
	row := e.rows[e.find.savedRow]
	if len(e.find.savedHighlight) == len(row.highlight) {
		copy(row.highlight, e.find.savedHighlight)
	}
	e.find.savedRow = -1
	e.find.savedHighlight = nil
}
