package notify

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/gen2brain/beeep"
)

const (
	defaultTitle = "nirctl"
	maxMessage   = 800
)

// Notifier posts desktop notifications when enabled.
type Notifier struct {
	enabled bool
	log     *slog.Logger
	send    func(title, message string, icon any) error
}

// New returns a Notifier. A disabled Notifier drops every message.
func New(enabled bool, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.Default()
	}
	return &Notifier{enabled: enabled, log: log, send: beeep.Notify}
}

// Enabled reports whether messages are delivered.
func (n *Notifier) Enabled() bool { return n != nil && n.enabled }

// Notify sends message under title. Delivery failures are logged only.
func (n *Notifier) Notify(title, message string) {
	if !n.Enabled() {
		return
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = defaultTitle
	}
	message = strings.TrimSpace(message)
	message = truncate(message, maxMessage)
	if err := n.send(title, message, ""); err != nil {
		n.log.Debug("desktop notification failed", "err", err)
	}
}

// truncate cuts s to at most limit bytes on a rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
