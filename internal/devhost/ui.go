package devhost

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// ConsoleUI renders the disabled indicator and job progress on the
// terminal. It stands in for the menu and progress bar a real host
// would provide.
type ConsoleUI struct {
	out io.Writer

	mu       sync.Mutex
	disabled bool
	label    string
	percent  int
}

// NewConsoleUI creates a console UI writing to stdout
func NewConsoleUI() *ConsoleUI {
	return &ConsoleUI{out: os.Stdout}
}

// NewConsoleUIWithOutput creates a console UI writing to the given writer
func NewConsoleUIWithOutput(out io.Writer) *ConsoleUI {
	return &ConsoleUI{out: out}
}

// ShowDisabledIndicator renders the disabled banner. Repeated calls
// while already shown are a no-op.
func (u *ConsoleUI) ShowDisabledIndicator() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.disabled {
		return
	}
	u.disabled = true

	yellow := color.New(color.FgYellow, color.Bold)
	fmt.Fprintln(u.out, yellow.Sprint("⚠️  Stagehand (disabled)"))
}

// ClearDisabledIndicator removes the disabled banner state
func (u *ConsoleUI) ClearDisabledIndicator() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.disabled = false
}

// Disabled reports whether the indicator is currently shown
func (u *ConsoleUI) Disabled() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.disabled
}

// BeginProgress starts a progress bar for one job
func (u *ConsoleUI) BeginProgress(label string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.label = label
	u.percent = 0
	u.render()
}

// Step advances the progress bar by delta percent
func (u *ConsoleUI) Step(delta int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.percent += delta
	if u.percent > 100 {
		u.percent = 100
	}
	u.render()
}

// EndProgress completes and clears the progress bar
func (u *ConsoleUI) EndProgress() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.percent = 100
	u.render()
	fmt.Fprintln(u.out)
	u.label = ""
	u.percent = 0
}

func (u *ConsoleUI) render() {
	const width = 20
	filled := u.percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	cyan := color.New(color.FgCyan)
	fmt.Fprintf(u.out, "\r%s [%s] %3d%%", cyan.Sprint(u.label), bar, u.percent)
}
