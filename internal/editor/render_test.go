package editor

import (
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func simScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func rowText(cells []tcell.SimCell, w, y int) string {
	var sb strings.Builder
	for x := 0; x < w; x++ {
		cell := cells[y*w+x]
		if len(cell.Runes) > 0 {
			sb.WriteRune(cell.Runes[0])
		}
	}
	return sb.String()
}

func TestRenderWelcomeOnEmptyBuffer(t *testing.T) {
	e := newTestEditor()
	s := simScreen(t, 40, 10)
	e.Render(s)
	cells, w, _ := s.GetContents()

	if got := rowText(cells, w, 0); !strings.HasPrefix(got, "~") {
		t.Fatalf("row 0 = %q, want tilde", got)
	}
	welcomeRow := rowText(cells, w, 2)
	if !strings.HasPrefix(welcomeRow, "~") {
		t.Fatalf("welcome row = %q, want leading tilde", welcomeRow)
	}
	if !strings.Contains(welcomeRow, "Cactus -- version 0.0.1") {
		t.Fatalf("welcome row = %q, want version banner", welcomeRow)
	}
}

func TestRenderFillerTildes(t *testing.T) {
	e := newTestEditor("a")
	s := simScreen(t, 20, 8)
	e.Render(s)
	cells, w, _ := s.GetContents()
	if got := rowText(cells, w, 0); !strings.HasPrefix(got, "a") {
		t.Fatalf("row 0 = %q, want text row", got)
	}
	for y := 1; y < 6; y++ {
		if got := rowText(cells, w, y); !strings.HasPrefix(got, "~") {
			t.Fatalf("row %d = %q, want tilde", y, got)
		}
		if got := rowText(cells, w, y); strings.Contains(got, "Cactus") {
			t.Fatalf("row %d = %q, welcome shown with content", y, got)
		}
	}
}

func TestRenderTabExpansionCells(t *testing.T) {
	e := newTestEditor("ab\tc")
	s := simScreen(t, 20, 5)
	e.Render(s)
	cells, w, _ := s.GetContents()
	if got := rowText(cells, w, 0); !strings.HasPrefix(got, "ab      c") {
		t.Fatalf("row 0 = %q, want tab expanded", got)
	}
}

func TestRenderCursorWithTab(t *testing.T) {
	e := newTestEditor("a\tb")
	e.cursor = Cursor{Row: 0, Col: 2}
	s := simScreen(t, 20, 5)
	e.Render(s)
	x, y, visible := s.GetCursor()
	if !visible {
		t.Fatalf("cursor not visible")
	}
	if x != 8 || y != 0 {
		t.Fatalf("cursor = (%d,%d), want (8,0)", x, y)
	}
}

func TestRenderStatusBar(t *testing.T) {
	e := newTestEditor("hello")
	s := simScreen(t, 60, 10)
	e.Render(s)
	cells, w, h := s.GetContents()
	status := rowText(cells, w, h-2)
	if !strings.HasPrefix(status, "[No Name] - 1 lines") {
		t.Fatalf("status = %q", status)
	}
	if !strings.HasSuffix(status, "no ft | 1/1") {
		t.Fatalf("status right = %q", status)
	}
	if strings.Contains(status, "(modified)") {
		t.Fatalf("clean buffer marked modified: %q", status)
	}

	e.insertChar('!')
	e.SetGitBranch("main")
	e.Render(s)
	cells, w, h = s.GetContents()
	status = rowText(cells, w, h-2)
	if !strings.Contains(status, "(modified)") {
		t.Fatalf("dirty buffer status = %q", status)
	}
	if !strings.HasSuffix(status, "git:main | no ft | 1/1") {
		t.Fatalf("status with branch = %q", status)
	}
}

func TestRenderStatusBarFiletype(t *testing.T) {
	e := newCTestEditor("int x;")
	s := simScreen(t, 60, 10)
	e.Render(s)
	cells, w, h := s.GetContents()
	status := rowText(cells, w, h-2)
	if !strings.HasSuffix(status, "c | 1/1") {
		t.Fatalf("status = %q, want c filetype", status)
	}
}

func TestRenderMessageBarTimeout(t *testing.T) {
	e := newTestEditor("x")
	e.SetStatusMessage("hello there")
	s := simScreen(t, 40, 10)
	e.Render(s)
	cells, w, h := s.GetContents()
	if got := rowText(cells, w, h-1); !strings.HasPrefix(got, "hello there") {
		t.Fatalf("message row = %q", got)
	}

	e.statusTime = time.Now().Add(-6 * time.Second)
	e.Render(s)
	cells, w, h = s.GetContents()
	if got := strings.TrimRight(rowText(cells, w, h-1), " "); got != "" {
		t.Fatalf("expired message row = %q, want blank", got)
	}
}

func TestRenderViewportSnapVertical(t *testing.T) {
	lines := make([]string, 100)
	for i := range lines {
		lines[i] = "line"
	}
	e := newTestEditor(lines...)
	s := simScreen(t, 80, 22)

	e.cursor = Cursor{Row: 50, Col: 0}
	e.Render(s)
	if e.rowOffset != 31 {
		t.Fatalf("rowOffset = %d, want 31", e.rowOffset)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 0 || y != 19 {
		t.Fatalf("cursor = (%d,%d,%v), want (0,19,true)", x, y, visible)
	}

	e.cursor = Cursor{Row: 10, Col: 0}
	e.Render(s)
	if e.rowOffset != 10 {
		t.Fatalf("rowOffset = %d, want 10", e.rowOffset)
	}
	_, y, _ = s.GetCursor()
	if y != 0 {
		t.Fatalf("cursor y = %d, want 0", y)
	}
}

func TestRenderViewportSnapHorizontal(t *testing.T) {
	e := newTestEditor(strings.Repeat("a", 200))
	s := simScreen(t, 40, 10)

	e.cursor = Cursor{Row: 0, Col: 100}
	e.Render(s)
	if e.colOffset != 61 {
		t.Fatalf("colOffset = %d, want 61", e.colOffset)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 39 || y != 0 {
		t.Fatalf("cursor = (%d,%d,%v), want (39,0,true)", x, y, visible)
	}

	e.cursor = Cursor{Row: 0, Col: 5}
	e.Render(s)
	if e.colOffset != 5 {
		t.Fatalf("colOffset = %d, want 5", e.colOffset)
	}
}

func TestRenderSyntaxStyleCells(t *testing.T) {
	e := newCTestEditor("int x = 42; // c")
	s := simScreen(t, 40, 10)
	e.Render(s)
	cells, _, _ := s.GetContents()

	if got := cells[0].Style; got != e.styleClass[ClassType] {
		t.Fatalf("type cell style = %v", got)
	}
	if got := cells[4].Style; got != e.styleMain {
		t.Fatalf("identifier cell style = %v", got)
	}
	if got := cells[8].Style; got != e.styleClass[ClassNumber] {
		t.Fatalf("number cell style = %v", got)
	}
	if got := cells[12].Style; got != e.styleClass[ClassComment] {
		t.Fatalf("comment cell style = %v", got)
	}
}

func TestRenderControlCharGlyph(t *testing.T) {
	e := newTestEditor("\x01b")
	s := simScreen(t, 20, 5)
	e.Render(s)
	cells, _, _ := s.GetContents()
	if len(cells[0].Runes) == 0 || cells[0].Runes[0] != 'A' {
		t.Fatalf("control glyph = %q, want 'A'", cells[0].Runes)
	}
	if cells[0].Style != e.styleMain.Reverse(true) {
		t.Fatalf("control glyph not reversed")
	}
	if cells[1].Runes[0] != 'b' || cells[1].Style != e.styleMain {
		t.Fatalf("following cell = %q", cells[1].Runes)
	}
}

func TestRenderMatchOverlayCells(t *testing.T) {
	e := newTestEditor("foo", "bar", "foo")
	e.startFind()
	e.HandleKey(keyEvent('f'))
	s := simScreen(t, 40, 10)
	e.Render(s)
	cells, _, _ := s.GetContents()
	if cells[0].Style != e.styleClass[ClassMatch] {
		t.Fatalf("match cell style mismatch")
	}
	if cells[1].Style != e.styleMain {
		t.Fatalf("cell after match styled as match")
	}
}
