// Package notifier surfaces user-visible messages from the shim
package notifier

import (
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/stagehand/stagehand/pkg/logger"
)

// Notifier delivers informational messages to the user via desktop
// notifications, falling back to the log when delivery fails or
// notifications are disabled.
type Notifier struct {
	enabled bool
	logger  logger.Logger
}

// Config represents notification configuration
type Config struct {
	Enabled bool
}

// New creates a new notifier
func New(config Config, log logger.Logger) *Notifier {
	return &Notifier{
		enabled: config.Enabled,
		logger:  log.WithScope("notifier"),
	}
}

// Info delivers an informational message
func (n *Notifier) Info(title, message string) {
	if !n.enabled {
		n.logger.Info(fmt.Sprintf("%s: %s", title, message))
		return
	}

	if err := beeep.Notify(title, message, ""); err != nil {
		n.logger.Debug("failed to send notification", logger.WithField("error", err))
		n.logger.Info(fmt.Sprintf("%s: %s", title, message))
	}
}

// EngineStartFailed reports that the engine could not be started for a
// resolved context
func (n *Notifier) EngineStartFailed(engineName, reason string) {
	n.Info("🎬 Stagehand", fmt.Sprintf("Engine %q cannot be started: %s", engineName, reason))
}

// IntegrationDisabled explains why the integration entered disabled mode
func (n *Notifier) IntegrationDisabled() {
	n.Info("🎬 Stagehand is disabled", DisabledMessage)
}

// DisabledMessage explains disabled mode to the user
const DisabledMessage = "Stagehand is disabled because it cannot recognize the currently " +
	"opened document. Try opening another document or restarting the host application."
