package editor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

// scroll recomputes the visual cursor column and snaps the viewport
// offsets so the cursor stays on screen. Offsets move by exactly the
// distance needed, one edge at a time.
func (e *Editor) scroll() {
	e.visualX = 0
	if row := e.currentRow(); row != nil {
		e.visualX = row.VisualCol(e.cursor.Col, e.tabWidth)
	}
	if e.viewHeight > 0 {
		if e.cursor.Row < e.rowOffset {
			e.rowOffset = e.cursor.Row
		}
		if e.cursor.Row >= e.rowOffset+e.viewHeight {
			e.rowOffset = e.cursor.Row - e.viewHeight + 1
		}
	}
	if e.viewWidth > 0 {
		if e.visualX < e.colOffset {
			e.colOffset = e.visualX
		}
		if e.visualX >= e.colOffset+e.viewWidth {
			e.colOffset = e.visualX - e.viewWidth + 1
		}
	}
}

// Render draws the whole frame: text rows, status bar, message line and
// cursor, then flushes the screen once.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}

	statusY := h - 2
	messageY := h - 1
	viewHeight := h - 2
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewWidth = w
	e.viewHeight = viewHeight
	e.scroll()

	s.SetStyle(e.styleMain)
	s.Clear()

	for y := 0; y < viewHeight; y++ {
		idx := e.rowOffset + y
		if idx >= len(e.rows) {
			e.drawEmptyRow(s, y, w, viewHeight)
			continue
		}
		e.drawRow(s, y, w, e.rows[idx])
	}

	if statusY >= 0 {
		e.drawStatusBar(s, w, statusY)
	}
	if messageY >= 0 && messageY != statusY {
		e.drawMessageBar(s, w, messageY)
	}

	cx := e.visualX - e.colOffset
	cy := e.cursor.Row - e.rowOffset
	if cy >= 0 && cy < viewHeight && cx >= 0 && cx < w {
		s.ShowCursor(cx, cy)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func (e *Editor) drawRow(s tcell.Screen, y, w int, row *Row) {
	if e.colOffset >= len(row.render) {
		return
	}
	visible := row.render[e.colOffset:]
	classes := row.highlight[e.colOffset:]
	if len(visible) > w {
		visible = visible[:w]
		classes = classes[:w]
	}
	style := e.styleMain
	current := ClassNormal
	for x, b := range visible {
		if cls := classes[x]; cls != current {
			style = e.styleClass[cls]
			current = cls
		}
		if b < 32 || b == 127 {
			glyph := '?'
			if b <= 26 {
				glyph = rune('@' + b)
			}
			s.SetContent(x, y, glyph, nil, style.Reverse(true))
			continue
		}
		s.SetContent(x, y, rune(b), nil, style)
	}
}

func (e *Editor) drawEmptyRow(s tcell.Screen, y, w, viewHeight int) {
	if len(e.rows) == 0 && y == viewHeight/3 {
		msg := []rune(fmt.Sprintf("Cactus -- version %s", version))
		if len(msg) > w {
			msg = msg[:w]
		}
		padding := (w - len(msg)) / 2
		x := 0
		if padding > 0 {
			s.SetContent(0, y, '~', nil, e.styleMain)
			x = padding
		}
		for _, r := range msg {
			s.SetContent(x, y, r, nil, e.styleMain)
			x++
		}
		return
	}
	s.SetContent(0, y, '~', nil, e.styleMain)
}

func (e *Editor) drawStatusBar(s tcell.Screen, w, y int) {
	name := e.filename
	if name == "" {
		name = "[No Name]"
	}
	modified := ""
	if e.dirty > 0 {
		modified = "(modified)"
	}
	left := fmt.Sprintf("%.20s - %d lines %s", name, len(e.rows), modified)

	filetype := "no ft"
	if e.syntax != nil {
		filetype = e.syntax.Name
	}
	right := fmt.Sprintf("%s | %d/%d", filetype, e.cursor.Row+1, len(e.rows))
	if e.gitBranch != "" {
		right = formatGitBranch(e.gitBranchSymbol, e.gitBranch) + " | " + right
	}

	line := composeStatusLine(left, right, w)
	for x, r := range line {
		s.SetContent(x, y, r, nil, e.styleStatus)
	}
}

func (e *Editor) drawMessageBar(s tcell.Screen, w, y int) {
	if e.statusMessage == "" {
		return
	}
	// Prompts stay up as long as the prompt mode is active.
	if e.mode == ModeEdit && time.Since(e.statusTime) >= e.messageTimeout {
		return
	}
	msg := []rune(e.statusMessage)
	if len(msg) > w {
		msg = msg[:w]
	}
	for x, r := range msg {
		s.SetContent(x, y, r, nil, e.styleMain)
	}
}

func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	spaceCount := width - len(leftRunes) - len(rightRunes)
	if spaceCount < 0 {
		spaceCount = 0
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := 0; i < spaceCount; i++ {
		line = append(line, ' ')
	}
	line = append(line, rightRunes...)
	return line
}

func formatGitBranch(symbol, branch string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = "git:"
	}
	if strings.HasSuffix(symbol, ":") || strings.HasSuffix(symbol, " ") {
		return symbol + branch
	}
	return symbol + " " + branch
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
