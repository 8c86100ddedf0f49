package colorize

import (
	"fmt"
	"runtime"
)

const (
	// AnsiEscape opens an ANSI formatting sequence.
	AnsiEscape = "\033["
	// AnsiClear resets all ANSI formatting.
	AnsiClear = "\033[0m"

	colorizedMessageTemplateConstant = "%s%s;%s%s%s"
	windowsOperatingSystemConstant   = "windows"
)

// Color is an ANSI foreground color code.
type Color string

// The core ANSI color codes.
const (
	ColorBlack   Color = "30"
	ColorRed     Color = "31"
	ColorGreen   Color = "32"
	ColorYellow  Color = "33"
	ColorBlue    Color = "34"
	ColorMagenta Color = "35"
	ColorCyan    Color = "36"
	ColorWhite   Color = "37"
)

// Style is an ANSI style code. Only styles that render reliably across
// terminals are included; exotic styles such as blinking are not.
type Style string

// The supported ANSI styles.
const (
	StyleRegular   Style = "0m"
	StyleBold      Style = "1m"
	StyleDim       Style = "2m"
	StyleUnderline Style = "4m"
	StyleInverted  Style = "7m"
)

// Options select the color and style applied to a message.
type Options struct {
	Color Color
	Style Style
	// Force applies color even on Windows, where some CI providers drop
	// log lines containing escape sequences.
	Force bool
}

// Formatter colorizes messages, suppressing escape sequences on Windows
// unless forced.
type Formatter struct {
	operatingSystem string
}

// NewFormatter constructs a Formatter for the host operating system.
func NewFormatter() Formatter {
	return Formatter{operatingSystem: runtime.GOOS}
}

// NewFormatterForOperatingSystem constructs a Formatter for an explicit operating system identifier.
func NewFormatterForOperatingSystem(operatingSystem string) Formatter {
	return Formatter{operatingSystem: operatingSystem}
}

// Colorize wraps the message in the requested color and style escape sequences.
func (formatter Formatter) Colorize(message string, options Options) string {
	if formatter.operatingSystem == windowsOperatingSystemConstant && !options.Force {
		return message
	}

	appliedStyle := options.Style
	if len(appliedStyle) == 0 {
		appliedStyle = StyleRegular
	}

	return fmt.Sprintf(colorizedMessageTemplateConstant, AnsiEscape, options.Color, appliedStyle, message, AnsiClear)
}
