// Package tui is the terminal front end for a round: difficulty menu, intro,
// live board, and summary. It only reads game state through Poll and only
// writes it through SubmitInput.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/danmuck/whackctl/internal/game"
	"github.com/danmuck/whackctl/internal/score"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
)

var ErrAborted = errors.New("tui: aborted")

// Game is the slice of game.Handle the board needs.
type Game interface {
	Poll() game.Status
	SubmitInput(token rune) error
}

const defaultFrame = time.Second / 30

var (
	styleBase   = tcell.StyleDefault
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorLightSkyBlue)
	styleHole   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleMole   = tcell.StyleDefault.Foreground(tcell.ColorSaddleBrown).Background(tcell.ColorWheat).Bold(true)
	styleSelect = tcell.StyleDefault.Reverse(true)
	styleOver   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorMaroon).Bold(true)
)

// UI owns the screen. A single goroutine pumps screen events into a channel
// so every screen is driven from one select loop.
type UI struct {
	screen tcell.Screen
	events chan tcell.Event
	quit   chan struct{}
	frame  time.Duration

	closeOnce sync.Once
}

// New initializes screen and starts the event pump.
func New(screen tcell.Screen) (*UI, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("tui: init screen: %w", err)
	}
	screen.Clear()
	screen.HideCursor()
	u := &UI{
		screen: screen,
		events: make(chan tcell.Event, 32),
		quit:   make(chan struct{}),
		frame:  defaultFrame,
	}
	go u.pump()
	return u, nil
}

func NewTerminal() (*UI, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("tui: new screen: %w", err)
	}
	return New(s)
}

// Close restores the terminal and stops the pump.
func (u *UI) Close() {
	u.closeOnce.Do(func() {
		close(u.quit)
		u.screen.Fini()
	})
}

func (u *UI) pump() {
	for {
		ev := u.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case u.events <- ev:
		case <-u.quit:
			return
		}
	}
}

// next blocks for the next key press, redrawing on resize.
func (u *UI) next(ctx context.Context, redraw func()) (*tcell.EventKey, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-u.events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				u.screen.Sync()
				redraw()
			case *tcell.EventKey:
				return e, nil
			}
		}
	}
}

func isQuit(e *tcell.EventKey) bool {
	return e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC
}

// SelectDifficulty shows the welcome menu. Up and Down move the highlight,
// clamped at either end, and Enter confirms.
func (u *UI) SelectDifficulty(ctx context.Context, names []string, initial int) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("tui: no difficulties to choose from")
	}
	highlight := min(max(initial, 0), len(names)-1)
	draw := func() {
		u.screen.Clear()
		w, h := u.screen.Size()
		top := max(h/2-len(names)-2, 0)
		drawCentered(u.screen, w/2, top, "WELCOME TO WHACK A MOLE", styleTitle)
		drawCentered(u.screen, w/2, top+2, "Select a difficulty:", styleBase)
		for i, name := range names {
			st := styleBase
			if i == highlight {
				st = styleSelect
			}
			drawCentered(u.screen, w/2, top+3+i, strings.ToUpper(name), st)
		}
		u.screen.Show()
	}

	for {
		draw()
		e, err := u.next(ctx, draw)
		if err != nil {
			return "", err
		}
		switch {
		case isQuit(e):
			return "", ErrAborted
		case e.Key() == tcell.KeyUp:
			highlight = max(highlight-1, 0)
		case e.Key() == tcell.KeyDown:
			highlight = min(highlight+1, len(names)-1)
		case e.Key() == tcell.KeyEnter:
			log.Debug().Str("difficulty", names[highlight]).Msg("tui.UI.SelectDifficulty chosen")
			return names[highlight], nil
		}
	}
}

// Intro describes the round about to start.
type Intro struct {
	Difficulty string
	Height     int
	Width      int
	Moles      int
	WinTarget  uint64
}

// ShowIntro echoes the chosen settings and waits for any key.
func (u *UI) ShowIntro(ctx context.Context, in Intro) error {
	draw := func() {
		u.screen.Clear()
		w, h := u.screen.Size()
		top := max(h/2-3, 0)
		drawCentered(u.screen, w/2, top, fmt.Sprintf("Your difficulty is: %s", strings.ToUpper(in.Difficulty)), styleTitle)
		drawCentered(u.screen, w/2, top+1, fmt.Sprintf("Board size is %dx%d with %d moles", in.Height, in.Width, in.Moles), styleBase)
		goal := "Whack moles by typing their letter. Esc quits."
		if in.WinTarget > 0 {
			goal = fmt.Sprintf("Whack %d moles by typing their letter. Esc quits.", in.WinTarget)
		}
		drawCentered(u.screen, w/2, top+2, goal, styleBase)
		drawCentered(u.screen, w/2, top+4, "Press any key to start", styleSelect)
		u.screen.Show()
	}
	draw()
	e, err := u.next(ctx, draw)
	if err != nil {
		return err
	}
	if isQuit(e) {
		return ErrAborted
	}
	return nil
}

// Play renders g every frame and forwards key presses until the round is
// over. Esc and Ctrl-C submit the quit token.
func (u *UI) Play(ctx context.Context, g Game) error {
	ticker := time.NewTicker(u.frame)
	defer ticker.Stop()

	var st game.Status
	redraw := func() {
		st = g.Poll()
		u.drawBoard(st)
	}
	redraw()
	for !st.Over {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			redraw()
		case ev := <-u.events:
			switch e := ev.(type) {
			case *tcell.EventResize:
				u.screen.Sync()
				redraw()
			case *tcell.EventKey:
				if err := u.forward(g, e); err != nil {
					return err
				}
			}
		}
	}
	log.Debug().Str("reason", st.Reason.String()).Msg("tui.UI.Play over")
	return nil
}

func (u *UI) forward(g Game, e *tcell.EventKey) error {
	token := rune(0)
	switch {
	case isQuit(e):
		token = game.QuitToken
	case e.Key() == tcell.KeyRune && e.Rune() != ' ':
		token = e.Rune()
	default:
		return nil
	}
	if err := g.SubmitInput(token); err != nil && !errors.Is(err, game.ErrGameOver) {
		return err
	}
	return nil
}

func (u *UI) drawBoard(st game.Status) {
	u.screen.Clear()
	w, _ := u.screen.Size()

	hud := fmt.Sprintf(" hits %d  misses %d  wasted %d  up %d ", st.Hits, st.Misses, st.WastedInputs, st.Active)
	drawText(u.screen, 0, 0, padRight(hud, w), styleHUD)

	for _, c := range st.Cells {
		x := 2 + c.Col*6
		y := 2 + c.Row*2
		if c.Cell.Empty() {
			drawText(u.screen, x, y, "[   ]", styleHole)
			continue
		}
		drawText(u.screen, x, y, "[", styleHole)
		drawText(u.screen, x+1, y, " "+string(c.Cell.Symbol)+" ", styleMole)
		drawText(u.screen, x+4, y, "]", styleHole)
	}
	if st.Over {
		drawText(u.screen, 0, 1, fmt.Sprintf(" game over: %s ", st.Reason), styleOver)
	}
	u.screen.Show()
}

// ShowSummary renders the final stats and waits for any key.
func (u *UI) ShowSummary(ctx context.Context, difficulty string, final game.FinalStats) error {
	lines := SummaryLines(difficulty, final)
	draw := func() {
		u.screen.Clear()
		w, h := u.screen.Size()
		top := max(h/2-len(lines)/2-1, 0)
		drawCentered(u.screen, w/2, top, "GAME OVER", styleOver)
		for i, line := range lines {
			drawCentered(u.screen, w/2, top+2+i, line, styleBase)
		}
		drawCentered(u.screen, w/2, top+3+len(lines), "Press any key to exit", styleSelect)
		u.screen.Show()
	}
	draw()
	_, err := u.next(ctx, draw)
	return err
}

// SummaryLines is the final report shared by the UI and headless output.
func SummaryLines(difficulty string, final game.FinalStats) []string {
	acc, accOK := final.Accuracy()
	rate, rateOK := final.WhackRate()
	return []string{
		fmt.Sprintf("difficulty: %s", strings.ToUpper(difficulty)),
		fmt.Sprintf("ended by:   %s", final.Reason),
		fmt.Sprintf("hits:       %d", final.Hits),
		fmt.Sprintf("misses:     %d", final.Misses),
		fmt.Sprintf("wasted:     %d", final.WastedInputs),
		fmt.Sprintf("accuracy:   %s", score.FormatRatio(acc, accOK)),
		fmt.Sprintf("whack rate: %s", score.FormatRatio(rate, rateOK)),
		fmt.Sprintf("elapsed:    %s", final.Elapsed.Round(10*time.Millisecond)),
	}
}

func drawText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, nil, st)
	}
}

func drawCentered(s tcell.Screen, cx, cy int, text string, st tcell.Style) {
	x := max(cx-len([]rune(text))/2, 0)
	drawText(s, x, cy, text, st)
}

func padRight(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
