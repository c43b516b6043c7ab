package app

import (
	"os"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/fadelakin/cactus/internal/config"
	"github.com/fadelakin/cactus/internal/editor"
	"github.com/fadelakin/cactus/internal/gitinfo"
	"github.com/fadelakin/cactus/internal/logger"
	"github.com/fadelakin/cactus/internal/session"
)

// App is the top-level runtime for cactus.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Editor.Debug); err != nil {
		return err
	}
	defer logger.Close()
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	stopRedraw := make(chan struct{})
	defer close(stopRedraw)
	go func() {
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stopRedraw:
				return
			case <-ticker.C:
				_ = s.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	ed := editor.New(cfg, langs)
	defer ed.Shutdown()
	sm, err := session.NewManager()
	if err == nil {
		ed.AttachSession(sm)
	} else {
		logger.Warn("session state unavailable", "error", err)
	}

	gitPath := ""
	if len(a.args) > 0 {
		openPath := a.args[0]
		if err := ed.OpenFile(openPath); err != nil {
			return err
		}
		gitPath = openPath
	} else if sm != nil {
		// Bare start: pick up the file from the previous session.
		if last := sm.GetActiveFile(); last != "" {
			if err := ed.OpenFile(last); err == nil {
				gitPath = last
			} else {
				logger.Debug("previous session file unavailable", "path", last, "error", err)
			}
		}
	}
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	if root := gitinfo.Root(gitPath); root != "" {
		logger.Debug("git repository", "root", root)
	}
	ed.SetGitBranch(gitinfo.Branch(gitPath))
	ed.SetStatusMessage("HELP: Ctrl-S = save | Ctrl-Q = quit | Ctrl-F = find")

	lastGitCheck := time.Now()
	ed.Render(s)
	for {
		ev := s.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if ed.HandleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventInterrupt:
			// Idle tick: fall through to the repaint so timed status
			// messages disappear without a keypress.
		}
		if gitPath != "" && time.Since(lastGitCheck) > 2*time.Second {
			lastGitCheck = time.Now()
			ed.SetGitBranch(gitinfo.Branch(gitPath))
		}
		ed.Render(s)
	}
}
