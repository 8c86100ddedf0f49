package lookup_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/cixtool/cix/internal/lookup"
)

const (
	testResolvedProgramCaseNameConstant      = "resolved_program"
	testSearchOrderCaseNameConstant          = "search_order_respected"
	testMissingProgramCaseNameConstant       = "missing_program"
	testBestEffortCaseNameConstant           = "best_effort_placeholder"
	testNonExecutableCaseNameConstant        = "non_executable_skipped"
	testEmptyNameCaseNameConstant            = "empty_name_rejected"
	testDirectPathCaseNameConstant           = "direct_path_probe"
	testProgramNameConstant                  = "ninja"
	testFirstSearchDirectoryConstant         = "/opt/tools/bin"
	testSecondSearchDirectoryConstant        = "/usr/local/bin"
	testExecutableFileModeConstant           = 0o755
	testPlainFileModeConstant                = 0o644
)

func newSearchPathLookup(searchPath string) lookup.EnvironmentLookup {
	return func(variableName string) (string, bool) {
		if variableName == "PATH" {
			return searchPath, true
		}
		return "", false
	}
}

func writeProgramFile(testInstance *testing.T, fileSystem afero.Fs, programPath string, fileMode os.FileMode) {
	require.NoError(testInstance, fileSystem.MkdirAll(filepath.Dir(programPath), 0o755))
	require.NoError(testInstance, afero.WriteFile(fileSystem, programPath, []byte("#!/bin/sh\n"), fileMode))
	require.NoError(testInstance, fileSystem.Chmod(programPath, fileMode))
}

func TestResolverResolve(testInstance *testing.T) {
	searchPath := strings.Join([]string{testFirstSearchDirectoryConstant, testSecondSearchDirectoryConstant}, string(os.PathListSeparator))

	testCases := []struct {
		name            string
		prepare         func(fileSystem afero.Fs)
		programName     string
		options         lookup.ResolutionOptions
		expectedPath    string
		expectedFound   bool
		expectedError   error
		expectNotFound  bool
	}{
		{
			name: testResolvedProgramCaseNameConstant,
			prepare: func(fileSystem afero.Fs) {
				writeProgramFile(testInstance, fileSystem, filepath.Join(testSecondSearchDirectoryConstant, testProgramNameConstant), testExecutableFileModeConstant)
			},
			programName:   testProgramNameConstant,
			expectedPath:  filepath.Join(testSecondSearchDirectoryConstant, testProgramNameConstant),
			expectedFound: true,
		},
		{
			name: testSearchOrderCaseNameConstant,
			prepare: func(fileSystem afero.Fs) {
				writeProgramFile(testInstance, fileSystem, filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant), testExecutableFileModeConstant)
				writeProgramFile(testInstance, fileSystem, filepath.Join(testSecondSearchDirectoryConstant, testProgramNameConstant), testExecutableFileModeConstant)
			},
			programName:   testProgramNameConstant,
			expectedPath:  filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant),
			expectedFound: true,
		},
		{
			name:           testMissingProgramCaseNameConstant,
			prepare:        func(fileSystem afero.Fs) {},
			programName:    testProgramNameConstant,
			expectNotFound: true,
		},
		{
			name:          testBestEffortCaseNameConstant,
			prepare:       func(fileSystem afero.Fs) {},
			programName:   testProgramNameConstant,
			options:       lookup.ResolutionOptions{BestEffort: true},
			expectedFound: false,
		},
		{
			name: testNonExecutableCaseNameConstant,
			prepare: func(fileSystem afero.Fs) {
				writeProgramFile(testInstance, fileSystem, filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant), testPlainFileModeConstant)
			},
			programName:    testProgramNameConstant,
			expectNotFound: true,
		},
		{
			name:          testEmptyNameCaseNameConstant,
			prepare:       func(fileSystem afero.Fs) {},
			programName:   "   ",
			expectedError: lookup.ErrProgramNameRequired,
		},
		{
			name: testDirectPathCaseNameConstant,
			prepare: func(fileSystem afero.Fs) {
				writeProgramFile(testInstance, fileSystem, filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant), testExecutableFileModeConstant)
			},
			programName:   filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant),
			expectedPath:  filepath.Join(testFirstSearchDirectoryConstant, testProgramNameConstant),
			expectedFound: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			memoryFileSystem := afero.NewMemMapFs()
			testCase.prepare(memoryFileSystem)

			resolver := lookup.NewResolver(memoryFileSystem, newSearchPathLookup(searchPath))
			resolution, resolutionError := resolver.Resolve(testCase.programName, testCase.options)

			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, resolutionError, testCase.expectedError)
				return
			}
			if testCase.expectNotFound {
				require.Error(testInstance, resolutionError)
				notFoundFailure := lookup.ProgramNotFoundError{}
				require.ErrorAs(testInstance, resolutionError, &notFoundFailure)
				require.Equal(testInstance, strings.TrimSpace(testCase.programName), notFoundFailure.ProgramName)
				return
			}

			require.NoError(testInstance, resolutionError)
			require.Equal(testInstance, testCase.expectedFound, resolution.Found)
			require.Equal(testInstance, testCase.expectedPath, resolution.ResolvedPath)
		})
	}
}

func TestResolverSearchPathOverride(testInstance *testing.T) {
	memoryFileSystem := afero.NewMemMapFs()
	overrideDirectory := "/override/bin"
	writeProgramFile(testInstance, memoryFileSystem, filepath.Join(overrideDirectory, testProgramNameConstant), testExecutableFileModeConstant)

	resolver := lookup.NewResolver(memoryFileSystem, newSearchPathLookup(testFirstSearchDirectoryConstant))
	resolution, resolutionError := resolver.Resolve(testProgramNameConstant, lookup.ResolutionOptions{SearchPath: overrideDirectory})

	require.NoError(testInstance, resolutionError)
	require.True(testInstance, resolution.Found)
	require.Equal(testInstance, filepath.Join(overrideDirectory, testProgramNameConstant), resolution.ResolvedPath)
}
