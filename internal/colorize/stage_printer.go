package colorize

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const (
	stageBannerPrefixConstant      = "==> "
	stageBannerTemplateConstant    = "%s%s\n"
	defaultTerminalDescriptorValue = -1
)

// TerminalProbe reports whether a file descriptor is attached to a terminal.
type TerminalProbe func(fileDescriptor int) bool

// fileDescriptorProvider is implemented by writers backed by a file descriptor.
type fileDescriptorProvider interface {
	Fd() uintptr
}

// StagePrinter writes stage banners of the form "==> <stage>" with a bold
// green prefix, so build phases can be located by searching the log.
type StagePrinter struct {
	writer        io.Writer
	formatter     Formatter
	forceColor    bool
	terminalProbe TerminalProbe
}

// NewStagePrinter constructs a printer writing to standard output.
func NewStagePrinter(forceColor bool) *StagePrinter {
	return NewStagePrinterWithWriter(os.Stdout, NewFormatter(), forceColor, term.IsTerminal)
}

// NewStagePrinterWithWriter constructs a printer with explicit writer, formatter, and terminal probe.
func NewStagePrinterWithWriter(writer io.Writer, formatter Formatter, forceColor bool, terminalProbe TerminalProbe) *StagePrinter {
	if terminalProbe == nil {
		terminalProbe = term.IsTerminal
	}
	return &StagePrinter{
		writer:        writer,
		formatter:     formatter,
		forceColor:    forceColor,
		terminalProbe: terminalProbe,
	}
}

// PrintStage writes the stage banner, colorizing the prefix when appropriate.
func (printer *StagePrinter) PrintStage(stage string) error {
	bannerPrefix := stageBannerPrefixConstant
	if printer.colorEnabled() {
		bannerPrefix = printer.formatter.Colorize(stageBannerPrefixConstant, Options{Color: ColorGreen, Style: StyleBold, Force: true})
	}

	_, writeError := fmt.Fprintf(printer.writer, stageBannerTemplateConstant, bannerPrefix, stage)
	return writeError
}

func (printer *StagePrinter) colorEnabled() bool {
	if printer.forceColor {
		return true
	}
	return printer.terminalProbe(printer.writerFileDescriptor())
}

func (printer *StagePrinter) writerFileDescriptor() int {
	if descriptorProvider, providesDescriptor := printer.writer.(fileDescriptorProvider); providesDescriptor {
		return int(descriptorProvider.Fd())
	}
	return defaultTerminalDescriptorValue
}
