package logging

// Icons used by pretty console output.
const (
	IconSuccess = "✓"
	IconError   = "✗"
	IconWarning = "⚠"
	IconInfo    = "ℹ"
	IconRunning = "↻"
	IconBullet  = "•"
	IconWatch   = "◉"
)
