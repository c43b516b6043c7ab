package editor

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fadelakin/cactus/internal/config"
	"github.com/fadelakin/cactus/internal/logger"
	"github.com/fadelakin/cactus/internal/session"
)

const version = "0.0.1"

type Mode int

const (
	ModeEdit Mode = iota
	ModeFind
	ModeSaveAs
)

const (
	actionMoveLeft       = "move_left"
	actionMoveRight      = "move_right"
	actionMoveUp         = "move_up"
	actionMoveDown       = "move_down"
	actionLineStart      = "line_start"
	actionLineEnd        = "line_end"
	actionPageUp         = "page_up"
	actionPageDown       = "page_down"
	actionInsertNewline  = "insert_newline"
	actionInsertTab      = "insert_tab"
	actionDeleteBackward = "delete_backward"
	actionDeleteForward  = "delete_forward"
	actionSave           = "save"
	actionQuit           = "quit"
	actionFind           = "find"
	actionRefresh        = "refresh"
)

// Cursor addresses a position in the buffer: Row is the row index and
// Col the byte index into that row's raw bytes. Row may equal the row
// count, meaning the virtual line past the end of the buffer.
type Cursor struct {
	Row int
	Col int
}

type Editor struct {
	rows   []*Row
	cursor Cursor

	visualX   int
	rowOffset int
	colOffset int

	viewWidth  int
	viewHeight int

	filename string
	dirty    int
	mode     Mode

	syntax *config.Language
	langs  config.Languages

	keymap          map[string]string
	tabWidth        int
	quitTimes       int
	quitLeft        int
	messageTimeout  time.Duration
	gitBranchSymbol string
	gitBranch       string

	statusMessage string
	statusTime    time.Time

	find   findState
	prompt []byte

	session *session.Manager

	styleMain   tcell.Style
	styleStatus tcell.Style
	styleClass  [classCount]tcell.Style
}

func New(cfg config.Config, langs config.Languages) *Editor {
	bindings := make(map[string]string, len(cfg.Keymap.Bindings))
	for k, v := range cfg.Keymap.Bindings {
		bindings[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	quitTimes := cfg.Editor.QuitTimes
	if quitTimes < 0 {
		quitTimes = 0
	}
	messageTimeout := time.Duration(cfg.Editor.MessageTimeout) * time.Second
	if messageTimeout <= 0 {
		messageTimeout = 5 * time.Second
	}
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorDefault)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorDefault)
	styleMain := tcell.StyleDefault.Foreground(mainFg).Background(mainBg)
	styleStatus := styleMain.Reverse(true)
	if cfg.Theme.StatuslineForeground != "" || cfg.Theme.StatuslineBackground != "" {
		statusFg := parseColor(cfg.Theme.StatuslineForeground, mainBg)
		statusBg := parseColor(cfg.Theme.StatuslineBackground, mainFg)
		styleStatus = tcell.StyleDefault.Foreground(statusFg).Background(statusBg)
	}
	comment := styleMain.Foreground(parseColor(cfg.Theme.SyntaxComment, tcell.ColorTeal))
	match := styleMain.Foreground(parseColor(cfg.Theme.SearchMatchForeground, tcell.ColorNavy))
	if cfg.Theme.SearchMatchBackground != "" {
		match = match.Background(parseColor(cfg.Theme.SearchMatchBackground, mainBg))
	}
	var styleClass [classCount]tcell.Style
	styleClass[ClassNormal] = styleMain
	styleClass[ClassComment] = comment
	styleClass[ClassBlockComment] = comment
	styleClass[ClassKeyword] = styleMain.Foreground(parseColor(cfg.Theme.SyntaxKeyword, tcell.ColorOlive))
	styleClass[ClassType] = styleMain.Foreground(parseColor(cfg.Theme.SyntaxType, tcell.ColorGreen))
	styleClass[ClassString] = styleMain.Foreground(parseColor(cfg.Theme.SyntaxString, tcell.ColorPurple))
	styleClass[ClassNumber] = styleMain.Foreground(parseColor(cfg.Theme.SyntaxNumber, tcell.ColorMaroon))
	styleClass[ClassMatch] = match
	return &Editor{
		rows:            []*Row{},
		mode:            ModeEdit,
		keymap:          bindings,
		langs:           langs,
		tabWidth:        tabWidth,
		quitTimes:       quitTimes,
		quitLeft:        quitTimes,
		messageTimeout:  messageTimeout,
		gitBranchSymbol: strings.TrimSpace(cfg.Editor.GitBranchSymbol),
		viewWidth:       80,
		viewHeight:      22,
		styleMain:       styleMain,
		styleStatus:     styleStatus,
		styleClass:      styleClass,
		find:            findState{savedRow: -1},
	}
}

// OpenFile replaces the buffer with the contents of path. The file must
// exist; a missing or unreadable file is an error for the caller to
// treat as fatal.
func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	e.filename = path
	e.rows = e.rows[:0]
	e.cursor = Cursor{}
	e.rowOffset = 0
	e.colOffset = 0
	e.selectSyntax()
	for _, line := range splitLines(data) {
		e.insertRow(len(e.rows), line)
	}
	e.dirty = 0
	e.restoreSession()
	logger.Info("opened file", "path", path, "lines", len(e.rows))
	return nil
}

// splitLines turns file bytes into per-row raw bytes. A final newline
// terminates the last row rather than opening an empty one, and a
// carriage return before a newline is dropped. Each row gets its own
// backing array so later edits cannot bleed into neighbours.
func splitLines(data []byte) [][]byte {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	parts := bytes.Split(data, []byte("\n"))
	lines := make([][]byte, len(parts))
	for i, part := range parts {
		part = bytes.TrimSuffix(part, []byte("\r"))
		lines[i] = append([]byte(nil), part...)
	}
	return lines
}

func (e *Editor) selectSyntax() {
	e.syntax = nil
	if e.filename != "" {
		e.syntax = e.langs.Match(e.filename)
	}
	e.rehighlightAll()
}

func (e *Editor) save() {
	if e.filename == "" {
		e.mode = ModeSaveAs
		e.prompt = e.prompt[:0]
		e.showSavePrompt()
		return
	}
	buf := e.Content()
	if err := writeFileExact(e.filename, buf); err != nil {
		logger.Error("save failed", "path", e.filename, "error", err)
		e.SetStatusMessage("Can't save! I/o error: %v", err)
		return
	}
	e.dirty = 0
	e.SetStatusMessage("%d bytes written to disk.", len(buf))
	logger.Info("saved file", "path", e.filename, "bytes", len(buf))
	e.recordSession()
}

// writeFileExact opens the file read-write, sizes it to the buffer and
// writes in place. Unlike a create-with-truncate, a failed open leaves
// the old contents untouched, and a partial write keeps most of them.
func writeFileExact(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	if err := f.Truncate(int64(len(data))); err != nil {
		f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *Editor) insertChar(b byte) {
	if e.cursor.Row == len(e.rows) {
		e.insertRow(len(e.rows), nil)
	}
	e.rowInsertChar(e.rows[e.cursor.Row], e.cursor.Col, b)
	e.cursor.Col++
}

func (e *Editor) insertRune(r rune) {
	for _, b := range []byte(string(r)) {
		e.insertChar(b)
	}
}

func (e *Editor) insertNewline() {
	if e.cursor.Col == 0 {
		e.insertRow(e.cursor.Row, nil)
	} else {
		row := e.rows[e.cursor.Row]
		tail := append([]byte(nil), row.raw[e.cursor.Col:]...)
		e.insertRow(e.cursor.Row+1, tail)
		row = e.rows[e.cursor.Row]
		row.raw = row.raw[:e.cursor.Col]
		e.updateRow(row)
	}
	e.cursor.Row++
	e.cursor.Col = 0
}

func (e *Editor) deleteChar() {
	if e.cursor.Row == len(e.rows) {
		return
	}
	if e.cursor.Col == 0 && e.cursor.Row == 0 {
		return
	}
	row := e.rows[e.cursor.Row]
	if e.cursor.Col > 0 {
		e.rowDeleteChar(row, e.cursor.Col-1)
		e.cursor.Col--
		return
	}
	prev := e.rows[e.cursor.Row-1]
	e.cursor.Col = len(prev.raw)
	e.rowAppend(prev, row.raw)
	e.deleteRow(e.cursor.Row)
	e.cursor.Row--
}

func (e *Editor) currentRow() *Row {
	if e.cursor.Row >= len(e.rows) {
		return nil
	}
	return e.rows[e.cursor.Row]
}

func (e *Editor) moveLeft() {
	if e.cursor.Col > 0 {
		e.cursor.Col--
	} else if e.cursor.Row > 0 {
		e.cursor.Row--
		e.cursor.Col = len(e.rows[e.cursor.Row].raw)
	}
}

func (e *Editor) moveRight() {
	row := e.currentRow()
	if row == nil {
		return
	}
	if e.cursor.Col < len(row.raw) {
		e.cursor.Col++
	} else {
		e.cursor.Row++
		e.cursor.Col = 0
	}
}

func (e *Editor) moveUp() {
	if e.cursor.Row > 0 {
		e.cursor.Row--
	}
	e.clampCol()
}

func (e *Editor) moveDown() {
	if e.cursor.Row < len(e.rows) {
		e.cursor.Row++
	}
	e.clampCol()
}

// clampCol snaps the cursor back inside the current row after a
// vertical move lands on a shorter line.
func (e *Editor) clampCol() {
	rowLen := 0
	if row := e.currentRow(); row != nil {
		rowLen = len(row.raw)
	}
	if e.cursor.Col > rowLen {
		e.cursor.Col = rowLen
	}
}

func (e *Editor) pageMove(dir int) {
	if dir < 0 {
		e.cursor.Row = e.rowOffset
	} else {
		e.cursor.Row = e.rowOffset + e.viewHeight - 1
		if e.cursor.Row > len(e.rows) {
			e.cursor.Row = len(e.rows)
		}
	}
	for times := e.viewHeight; times > 0; times-- {
		if dir < 0 {
			e.moveUp()
		} else {
			e.moveDown()
		}
	}
}

// HandleKey processes one key event and reports whether the editor
// should exit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	switch e.mode {
	case ModeFind:
		e.handleFind(ev)
		return false
	case ModeSaveAs:
		e.handleSaveAs(ev)
		return false
	}
	action, bound := e.keymap[keyString(ev)]
	if action != actionQuit {
		// Every key except the quit chord resets the unsaved-changes
		// countdown, bound or not.
		e.quitLeft = e.quitTimes
	}
	if bound {
		return e.execAction(action)
	}
	if ev.Key() == tcell.KeyRune {
		e.insertRune(ev.Rune())
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	switch action {
	case actionQuit:
		if e.dirty > 0 && e.quitLeft > 0 {
			e.SetStatusMessage("WARNING!!! File has unsaved changes. "+
				"Press Ctrl-Q %d more times to quit.", e.quitLeft)
			e.quitLeft--
			return false
		}
		return true
	case actionSave:
		e.save()
	case actionFind:
		e.startFind()
	case actionMoveLeft:
		e.moveLeft()
	case actionMoveRight:
		e.moveRight()
	case actionMoveUp:
		e.moveUp()
	case actionMoveDown:
		e.moveDown()
	case actionLineStart:
		e.cursor.Col = 0
	case actionLineEnd:
		if row := e.currentRow(); row != nil {
			e.cursor.Col = len(row.raw)
		}
	case actionPageUp:
		e.pageMove(-1)
	case actionPageDown:
		e.pageMove(1)
	case actionInsertNewline:
		e.insertNewline()
	case actionInsertTab:
		e.insertChar('\t')
	case actionDeleteBackward:
		e.deleteChar()
	case actionDeleteForward:
		e.moveRight()
		e.deleteChar()
	case actionRefresh:
		// Every event repaints the whole screen already.
	}
	return false
}

func (e *Editor) showSavePrompt() {
	e.SetStatusMessage("Save as: %s (ESC to cancel)", e.prompt)
}

func (e *Editor) handleSaveAs(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		e.mode = ModeEdit
		e.prompt = nil
		e.SetStatusMessage("Save aborted")
	case tcell.KeyEnter:
		if len(e.prompt) == 0 {
			return
		}
		e.filename = string(e.prompt)
		e.prompt = nil
		e.mode = ModeEdit
		e.selectSyntax()
		e.save()
	case tcell.KeyBackspace, tcell.KeyBackspace2, tcell.KeyDelete:
		if len(e.prompt) > 0 {
			e.prompt = e.prompt[:len(e.prompt)-1]
		}
		e.showSavePrompt()
	default:
		if ev.Key() == tcell.KeyRune {
			e.prompt = append(e.prompt, []byte(string(ev.Rune()))...)
		}
		e.showSavePrompt()
	}
}

// SetStatusMessage formats a message for the bottom line. It stays
// visible until the message timeout elapses.
func (e *Editor) SetStatusMessage(format string, args ...interface{}) {
	e.statusMessage = fmt.Sprintf(format, args...)
	e.statusTime = time.Now()
}

// SetGitBranch updates the branch segment of the status bar. An empty
// branch hides the segment.
func (e *Editor) SetGitBranch(branch string) {
	e.gitBranch = branch
}

// AttachSession wires a session manager so cursor positions persist
// across runs. Must be called before OpenFile to restore state.
func (e *Editor) AttachSession(sm *session.Manager) {
	e.session = sm
}

func (e *Editor) restoreSession() {
	if e.session == nil || e.filename == "" {
		return
	}
	abs, err := filepath.Abs(e.filename)
	if err != nil {
		return
	}
	st, ok := e.session.GetFileState(abs)
	if !ok {
		return
	}
	row := st.CursorRow
	if row < 0 {
		row = 0
	}
	if row > len(e.rows) {
		row = len(e.rows)
	}
	e.cursor.Row = row
	e.cursor.Col = st.CursorCol
	if e.cursor.Col < 0 {
		e.cursor.Col = 0
	}
	e.clampCol()
	if st.RowOffset >= 0 {
		e.rowOffset = st.RowOffset
	}
	if st.ColOffset >= 0 {
		e.colOffset = st.ColOffset
	}
}

func (e *Editor) recordSession() {
	if e.session == nil || e.filename == "" {
		return
	}
	abs, err := filepath.Abs(e.filename)
	if err != nil {
		return
	}
	e.session.SetFileState(abs, session.FileState{
		CursorRow: e.cursor.Row,
		CursorCol: e.cursor.Col,
		RowOffset: e.rowOffset,
		ColOffset: e.colOffset,
	})
}

// Shutdown records the final cursor position and stops the session
// manager. Safe to call when no session is attached.
func (e *Editor) Shutdown() {
	e.recordSession()
	if e.session != nil {
		e.session.Stop()
	}
}

func keyString(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space"
		}
		return string(r)
	}
	// Tab, Enter and Backspace share key codes with ctrl+i, ctrl+m and
	// ctrl+h, so resolve them before the ctrl names.
	switch ev.Key() {
	case tcell.KeyTab:
		return "tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "backspace"
	case tcell.KeyEscape:
		return "esc"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "up"
	case tcell.KeyDown:
		return "down"
	case tcell.KeyLeft:
		return "left"
	case tcell.KeyRight:
		return "right"
	case tcell.KeyPgUp:
		return "pgup"
	case tcell.KeyPgDn:
		return "pgdn"
	case tcell.KeyHome:
		return "home"
	case tcell.KeyEnd:
		return "end"
	case tcell.KeyDelete:
		return "del"
	}
	return ""
}

func ctrlKeyName(key tcell.Key) string {
	switch key {
	case tcell.KeyCtrlA:
		return "ctrl+a"
	case tcell.KeyCtrlB:
		return "ctrl+b"
	case tcell.KeyCtrlC:
		return "ctrl+c"
	case tcell.KeyCtrlD:
		return "ctrl+d"
	case tcell.KeyCtrlE:
		return "ctrl+e"
	case tcell.KeyCtrlF:
		return "ctrl+f"
	case tcell.KeyCtrlG:
		return "ctrl+g"
	case tcell.KeyCtrlJ:
		return "ctrl+j"
	case tcell.KeyCtrlK:
		return "ctrl+k"
	case tcell.KeyCtrlL:
		return "ctrl+l"
	case tcell.KeyCtrlN:
		return "ctrl+n"
	case tcell.KeyCtrlO:
		return "ctrl+o"
	case tcell.KeyCtrlP:
		return "ctrl+p"
	case tcell.KeyCtrlQ:
		return "ctrl+q"
	case tcell.KeyCtrlR:
		return "ctrl+r"
	case tcell.KeyCtrlS:
		return "ctrl+s"
	case tcell.KeyCtrlT:
		return "ctrl+t"
	case tcell.KeyCtrlU:
		return "ctrl+u"
	case tcell.KeyCtrlV:
		return "ctrl+v"
	case tcell.KeyCtrlW:
		return "ctrl+w"
	case tcell.KeyCtrlX:
		return "ctrl+x"
	case tcell.KeyCtrlY:
		return "ctrl+y"
	case tcell.KeyCtrlZ:
		return "ctrl+z"
	}
	return ""
}
