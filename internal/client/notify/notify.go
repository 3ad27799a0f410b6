// Package notify delivers user-facing notifications. Delivery is
// fire-and-forget: sinks swallow their own failures.
package notify

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/carekeeper/internal/logging"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Notifier interface {
	Success(ctx context.Context, text string)
	Info(ctx context.Context, text string)
	Warning(ctx context.Context, text string)
}

// Console prints "[level] text" lines.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) write(level Level, text string) {
	_, _ = fmt.Fprintf(c.w, "[%s] %s\n", level, text)
}

func (c *Console) Success(_ context.Context, text string) { c.write(LevelSuccess, text) }
func (c *Console) Info(_ context.Context, text string)    { c.write(LevelInfo, text) }
func (c *Console) Warning(_ context.Context, text string) { c.write(LevelWarning, text) }

// LogNotifier records notifications in the structured log.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{log: l.With("component", "notify")}
}

func (n *LogNotifier) Success(ctx context.Context, text string) {
	n.log.Info(ctx, text, "kind", LevelSuccess)
}

func (n *LogNotifier) Info(ctx context.Context, text string) {
	n.log.Info(ctx, text, "kind", LevelInfo)
}

func (n *LogNotifier) Warning(ctx context.Context, text string) {
	n.log.Warn(ctx, text, "kind", LevelWarning)
}

// Multi fans a notification out to every sink in order.
type Multi []Notifier

func (m Multi) Success(ctx context.Context, text string) {
	for _, n := range m {
		n.Success(ctx, text)
	}
}

func (m Multi) Info(ctx context.Context, text string) {
	for _, n := range m {
		n.Info(ctx, text)
	}
}

func (m Multi) Warning(ctx context.Context, text string) {
	for _, n := range m {
		n.Warning(ctx, text)
	}
}
