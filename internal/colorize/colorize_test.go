package colorize_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cixtool/cix/internal/colorize"
)

const (
	testColorizedMessageConstant          = "build succeeded"
	testLinuxOperatingSystemConstant      = "linux"
	testWindowsOperatingSystemConstant    = "windows"
	testRegularStyleCaseNameConstant      = "regular_style_default"
	testBoldRedCaseNameConstant           = "bold_red"
	testWindowsSuppressedCaseNameConstant = "windows_suppressed"
	testWindowsForcedCaseNameConstant     = "windows_forced"
	testStageMessageConstant              = "configure"
)

func TestFormatterColorize(testInstance *testing.T) {
	testCases := []struct {
		name            string
		operatingSystem string
		options         colorize.Options
		expectedOutput  string
	}{
		{
			name:            testRegularStyleCaseNameConstant,
			operatingSystem: testLinuxOperatingSystemConstant,
			options:         colorize.Options{Color: colorize.ColorGreen},
			expectedOutput:  fmt.Sprintf("%s%s;%s%s%s", colorize.AnsiEscape, colorize.ColorGreen, colorize.StyleRegular, testColorizedMessageConstant, colorize.AnsiClear),
		},
		{
			name:            testBoldRedCaseNameConstant,
			operatingSystem: testLinuxOperatingSystemConstant,
			options:         colorize.Options{Color: colorize.ColorRed, Style: colorize.StyleBold},
			expectedOutput:  fmt.Sprintf("%s%s;%s%s%s", colorize.AnsiEscape, colorize.ColorRed, colorize.StyleBold, testColorizedMessageConstant, colorize.AnsiClear),
		},
		{
			name:            testWindowsSuppressedCaseNameConstant,
			operatingSystem: testWindowsOperatingSystemConstant,
			options:         colorize.Options{Color: colorize.ColorRed, Style: colorize.StyleBold},
			expectedOutput:  testColorizedMessageConstant,
		},
		{
			name:            testWindowsForcedCaseNameConstant,
			operatingSystem: testWindowsOperatingSystemConstant,
			options:         colorize.Options{Color: colorize.ColorRed, Style: colorize.StyleBold, Force: true},
			expectedOutput:  fmt.Sprintf("%s%s;%s%s%s", colorize.AnsiEscape, colorize.ColorRed, colorize.StyleBold, testColorizedMessageConstant, colorize.AnsiClear),
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			formatter := colorize.NewFormatterForOperatingSystem(testCase.operatingSystem)
			require.Equal(testInstance, testCase.expectedOutput, formatter.Colorize(testColorizedMessageConstant, testCase.options))
		})
	}
}

func TestStagePrinterColorsWhenForced(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	formatter := colorize.NewFormatterForOperatingSystem(testLinuxOperatingSystemConstant)
	stagePrinter := colorize.NewStagePrinterWithWriter(&outputBuffer, formatter, true, func(int) bool { return false })

	require.NoError(testInstance, stagePrinter.PrintStage(testStageMessageConstant))

	expectedPrefix := formatter.Colorize("==> ", colorize.Options{Color: colorize.ColorGreen, Style: colorize.StyleBold, Force: true})
	require.Equal(testInstance, expectedPrefix+testStageMessageConstant+"\n", outputBuffer.String())
}

func TestStagePrinterPlainWhenNotTerminal(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	formatter := colorize.NewFormatterForOperatingSystem(testLinuxOperatingSystemConstant)
	stagePrinter := colorize.NewStagePrinterWithWriter(&outputBuffer, formatter, false, func(int) bool { return false })

	require.NoError(testInstance, stagePrinter.PrintStage(testStageMessageConstant))
	require.Equal(testInstance, "==> "+testStageMessageConstant+"\n", outputBuffer.String())
}

func TestStagePrinterColorsOnTerminal(testInstance *testing.T) {
	var outputBuffer bytes.Buffer
	formatter := colorize.NewFormatterForOperatingSystem(testLinuxOperatingSystemConstant)
	stagePrinter := colorize.NewStagePrinterWithWriter(&outputBuffer, formatter, false, func(int) bool { return true })

	require.NoError(testInstance, stagePrinter.PrintStage(testStageMessageConstant))
	require.Contains(testInstance, outputBuffer.String(), colorize.AnsiEscape)
}
