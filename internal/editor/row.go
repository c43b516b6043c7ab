package editor

import "bytes"

// Row is a single line of the buffer. raw holds the bytes as they exist
// on disk, render holds the expanded form drawn on screen (tabs become
// spaces), and highlight carries one Class per render byte.
type Row struct {
	idx         int
	raw         []byte
	render      []byte
	highlight   []Class
	openComment bool
}

// updateRender rebuilds the render form from raw. Each tab expands to
// spaces up to the next tab stop, always at least one.
func (r *Row) updateRender(tabWidth int) {
	var buf bytes.Buffer
	col := 0
	for _, b := range r.raw {
		if b == '\t' {
			buf.WriteByte(' ')
			col++
			for col%tabWidth != 0 {
				buf.WriteByte(' ')
				col++
			}
			continue
		}
		buf.WriteByte(b)
		col++
	}
	r.render = buf.Bytes()
}

// VisualCol translates a raw byte index into a render column by walking
// the raw bytes and accounting for tab stops.
func (r *Row) VisualCol(col, tabWidth int) int {
	if col > len(r.raw) {
		col = len(r.raw)
	}
	x := 0
	for i := 0; i < col; i++ {
		if r.raw[i] == '\t' {
			x += tabWidth - x%tabWidth
			continue
		}
		x++
	}
	return x
}

// RawCol is the inverse of VisualCol: it maps a render column back to
// the raw byte index whose glyph covers that column.
func (r *Row) RawCol(visual, tabWidth int) int {
	x := 0
	for i, b := range r.raw {
		if b == '\t' {
			x += tabWidth - x%tabWidth
		} else {
			x++
		}
		if x > visual {
			return i
		}
	}
	return len(r.raw)
}

func (e *Editor) insertRow(at int, raw []byte) {
	if at < 0 || at > len(e.rows) {
		return
	}
	row := &Row{idx: at, raw: raw}
	e.rows = append(e.rows, nil)
	copy(e.rows[at+1:], e.rows[at:])
	e.rows[at] = row
	for i := at + 1; i < len(e.rows); i++ {
		e.rows[i].idx = i
	}
	e.dirty++
	e.updateRow(row)
}

func (e *Editor) deleteRow(at int) {
	if at < 0 || at >= len(e.rows) {
		return
	}
	copy(e.rows[at:], e.rows[at+1:])
	e.rows[len(e.rows)-1] = nil
	e.rows = e.rows[:len(e.rows)-1]
	for i := at; i < len(e.rows); i++ {
		e.rows[i].idx = i
	}
	e.dirty++
	if at < len(e.rows) {
		// The row now at the seam may inherit a different comment state.
		e.updateHighlight(at)
	}
}

func (e *Editor) rowInsertChar(row *Row, at int, b byte) {
	if at < 0 || at > len(row.raw) {
		at = len(row.raw)
	}
	row.raw = append(row.raw, 0)
	copy(row.raw[at+1:], row.raw[at:])
	row.raw[at] = b
	e.dirty++
	e.updateRow(row)
}

func (e *Editor) rowDeleteChar(row *Row, at int) {
	if at < 0 || at >= len(row.raw) {
		return
	}
	row.raw = append(row.raw[:at], row.raw[at+1:]...)
	e.dirty++
	e.updateRow(row)
}

func (e *Editor) rowAppend(row *Row, b []byte) {
	row.raw = append(row.raw, b...)
	e.dirty++
	e.updateRow(row)
}

// updateRow refreshes everything derived from raw: the render form and
// the highlight classes, including any comment cascade below.
func (e *Editor) updateRow(row *Row) {
	row.updateRender(e.tabWidth)
	e.updateHighlight(row.idx)
}

// Content serializes the buffer for saving, one trailing newline per row.
func (e *Editor) Content() []byte {
	var buf bytes.Buffer
	for _, row := range e.rows {
		buf.Write(row.raw)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
