package cmakeargs

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
)

const (
	defaultGeneratorConstant               = "Ninja"
	defaultBuildTypeConstant               = "Release"
	windowsOperatingSystemConstant         = "windows"
	darwinOperatingSystemConstant          = "darwin"
	cCompilerEnvironmentVariableConstant   = "CC"
	cxxCompilerEnvironmentVariableConstant = "CXX"
	windowsCompilerConstant                = "cl.exe"
	darwinCCompilerConstant                = "clang"
	darwinCXXCompilerConstant              = "clang++"
	otherCCompilerConstant                 = "gcc"
	otherCXXCompilerConstant               = "g++"
	generatorArgumentConstant              = "-G"
	architectureArgumentConstant           = "-A"
	toolsetArgumentConstant                = "-T"
	buildConfigArgumentConstant            = "--config"
	sharedLibrariesDefineConstant          = "-DBUILD_SHARED_LIBS=ON"
	staticLibrariesDefineConstant          = "-DBUILD_SHARED_LIBS=OFF"
	cCompilerDefineTemplateConstant        = "-DCMAKE_C_COMPILER=%s"
	cxxCompilerDefineTemplateConstant      = "-DCMAKE_CXX_COMPILER=%s"
	buildTypeDefineTemplateConstant        = "-DCMAKE_BUILD_TYPE=%s"
	win64GeneratorSuffixConstant           = " Win64"
	flagGeneratorNameConstant              = "generator"
	flagGeneratorShorthandConstant         = "G"
	flagGeneratorDescriptionConstant       = "CMake generator (cmake -G flag)"
	flagArchitectureNameConstant           = "architecture"
	flagArchitectureShorthandConstant      = "A"
	flagArchitectureDescriptionConstant    = "Target architecture (cmake -A flag), not validated"
	flagToolsetNameConstant                = "toolset"
	flagToolsetShorthandConstant           = "T"
	flagToolsetDescriptionConstant         = "Toolset (cmake -T flag), not validated"
	flagSharedNameConstant                 = "shared"
	flagSharedDescriptionConstant          = "Build shared libraries (adds -DBUILD_SHARED_LIBS=ON)"
	flagStaticNameConstant                 = "static"
	flagStaticDescriptionConstant          = "Build static libraries (adds -DBUILD_SHARED_LIBS=OFF)"
	flagCCompilerNameConstant              = "cc"
	flagCCompilerDescriptionConstant       = "C compiler for single-config generators"
	flagCXXCompilerNameConstant            = "cxx"
	flagCXXCompilerDescriptionConstant     = "C++ compiler for single-config generators"
	flagBuildTypeNameConstant              = "build-type"
	flagBuildTypeDescriptionConstant       = "Build type: configure define for single-config generators, --config build argument otherwise"
	sharedStaticConflictMessageConstant    = "--shared and --static are mutually exclusive"
	unknownGeneratorTemplateConstant       = "unknown generator %q"
	win64GeneratorTemplateConstant         = "generator %q is not supported: select the architecture with -A instead"
	unknownBuildTypeTemplateConstant       = "unknown build type %q"
)

// ErrSharedStaticConflict indicates both library linkage flags were requested.
var ErrSharedStaticConflict = errors.New(sharedStaticConflictMessageConstant)

// UnknownGeneratorError reports a generator name outside the known generator sets.
type UnknownGeneratorError struct {
	Generator string
}

// Error describes the unknown generator.
func (failure UnknownGeneratorError) Error() string {
	return fmt.Sprintf(unknownGeneratorTemplateConstant, failure.Generator)
}

// DeprecatedGeneratorError reports the retired "Visual Studio ... Win64" generator form.
type DeprecatedGeneratorError struct {
	Generator string
}

// Error points at the architecture flag replacing the Win64 suffix.
func (failure DeprecatedGeneratorError) Error() string {
	return fmt.Sprintf(win64GeneratorTemplateConstant, failure.Generator)
}

// UnknownBuildTypeError reports a build type outside the standard CMake set.
type UnknownBuildTypeError struct {
	BuildType string
}

// Error describes the unknown build type.
func (failure UnknownBuildTypeError) Error() string {
	return fmt.Sprintf(unknownBuildTypeTemplateConstant, failure.BuildType)
}

var makefileGeneratorNames = []string{
	"Borland Makefiles",
	"MSYS Makefiles",
	"MinGW Makefiles",
	"NMake Makefiles",
	"NMake Makefiles JOM",
	"Unix Makefiles",
	"Watcom WMake",
}

var ninjaGeneratorNames = []string{"Ninja"}

var ninjaMultiConfigGeneratorNames = []string{"Ninja Multi-Config"}

var visualStudioGeneratorNames = []string{
	"Visual Studio 9 2008",
	"Visual Studio 10 2010",
	"Visual Studio 11 2012",
	"Visual Studio 12 2013",
	"Visual Studio 14 2015",
	"Visual Studio 15 2017",
	"Visual Studio 16 2019",
	"Visual Studio 17 2022",
}

var otherMultiConfigGeneratorNames = []string{"Green Hills MULTI", "Xcode"}

var buildTypeNames = []string{"Release", "Debug", "RelWithDebInfo", "MinSizeRel"}

func containsName(names []string, candidate string) bool {
	for _, name := range names {
		if name == candidate {
			return true
		}
	}
	return false
}

// IsSingleConfigGenerator reports whether the generator fixes the build type at configure time.
func IsSingleConfigGenerator(generator string) bool {
	return containsName(makefileGeneratorNames, generator) || containsName(ninjaGeneratorNames, generator)
}

// IsMultiConfigGenerator reports whether the generator selects the build type at build time.
func IsMultiConfigGenerator(generator string) bool {
	return containsName(ninjaMultiConfigGeneratorNames, generator) ||
		containsName(visualStudioGeneratorNames, generator) ||
		containsName(otherMultiConfigGeneratorNames, generator)
}

// KnownGenerators lists every accepted generator name in sorted order.
func KnownGenerators() []string {
	knownGenerators := make([]string, 0,
		len(makefileGeneratorNames)+len(ninjaGeneratorNames)+len(ninjaMultiConfigGeneratorNames)+
			len(visualStudioGeneratorNames)+len(otherMultiConfigGeneratorNames))
	knownGenerators = append(knownGenerators, makefileGeneratorNames...)
	knownGenerators = append(knownGenerators, ninjaGeneratorNames...)
	knownGenerators = append(knownGenerators, ninjaMultiConfigGeneratorNames...)
	knownGenerators = append(knownGenerators, visualStudioGeneratorNames...)
	knownGenerators = append(knownGenerators, otherMultiConfigGeneratorNames...)
	sort.Strings(knownGenerators)
	return knownGenerators
}

// EnvironmentLookup reports the value of an environment variable and whether it is set.
type EnvironmentLookup func(variableName string) (string, bool)

// ArgumentSet holds the flag values folded into CMake argument lists.
type ArgumentSet struct {
	Generator               string
	Architecture            string
	Toolset                 string
	SharedLibraries         bool
	StaticLibraries         bool
	CCompiler               string
	CXXCompiler             string
	BuildType               string
	ExtraConfigureArguments []string
}

// NewArgumentSet constructs an ArgumentSet with host-platform compiler defaults.
func NewArgumentSet() *ArgumentSet {
	return NewArgumentSetForPlatform(os.LookupEnv, runtime.GOOS)
}

// NewArgumentSetForPlatform constructs an ArgumentSet with compiler defaults
// taken from the CC/CXX environment variables when set, falling back to the
// conventional compiler for the identified operating system.
func NewArgumentSetForPlatform(environmentLookup EnvironmentLookup, operatingSystem string) *ArgumentSet {
	return &ArgumentSet{
		Generator: defaultGeneratorConstant,
		BuildType: defaultBuildTypeConstant,
		CCompiler: environmentOrPlatformDefault(environmentLookup, cCompilerEnvironmentVariableConstant,
			windowsCompilerConstant, darwinCCompilerConstant, otherCCompilerConstant, operatingSystem),
		CXXCompiler: environmentOrPlatformDefault(environmentLookup, cxxCompilerEnvironmentVariableConstant,
			windowsCompilerConstant, darwinCXXCompilerConstant, otherCXXCompilerConstant, operatingSystem),
	}
}

func environmentOrPlatformDefault(environmentLookup EnvironmentLookup, variableName string, windowsDefault string, darwinDefault string, otherDefault string, operatingSystem string) string {
	if environmentLookup != nil {
		if variableValue, variablePresent := environmentLookup(variableName); variablePresent && len(variableValue) > 0 {
			return variableValue
		}
	}
	switch operatingSystem {
	case windowsOperatingSystemConstant:
		return windowsDefault
	case darwinOperatingSystemConstant:
		return darwinDefault
	}
	return otherDefault
}

// BindFlags registers the argument set on the provided flag set, using the
// current field values as defaults.
func (argumentSet *ArgumentSet) BindFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&argumentSet.Generator, flagGeneratorNameConstant, flagGeneratorShorthandConstant, argumentSet.Generator, flagGeneratorDescriptionConstant)
	flagSet.StringVarP(&argumentSet.Architecture, flagArchitectureNameConstant, flagArchitectureShorthandConstant, argumentSet.Architecture, flagArchitectureDescriptionConstant)
	flagSet.StringVarP(&argumentSet.Toolset, flagToolsetNameConstant, flagToolsetShorthandConstant, argumentSet.Toolset, flagToolsetDescriptionConstant)
	flagSet.BoolVar(&argumentSet.SharedLibraries, flagSharedNameConstant, argumentSet.SharedLibraries, flagSharedDescriptionConstant)
	flagSet.BoolVar(&argumentSet.StaticLibraries, flagStaticNameConstant, argumentSet.StaticLibraries, flagStaticDescriptionConstant)
	flagSet.StringVar(&argumentSet.CCompiler, flagCCompilerNameConstant, argumentSet.CCompiler, flagCCompilerDescriptionConstant)
	flagSet.StringVar(&argumentSet.CXXCompiler, flagCXXCompilerNameConstant, argumentSet.CXXCompiler, flagCXXCompilerDescriptionConstant)
	flagSet.StringVar(&argumentSet.BuildType, flagBuildTypeNameConstant, argumentSet.BuildType, flagBuildTypeDescriptionConstant)
}

// Validate rejects conflicting linkage flags and unknown generator or build
// type names before any cmake process is spawned.
func (argumentSet *ArgumentSet) Validate() error {
	if argumentSet.SharedLibraries && argumentSet.StaticLibraries {
		return ErrSharedStaticConflict
	}
	if strings.HasSuffix(argumentSet.Generator, win64GeneratorSuffixConstant) {
		return DeprecatedGeneratorError{Generator: argumentSet.Generator}
	}
	if !IsSingleConfigGenerator(argumentSet.Generator) && !IsMultiConfigGenerator(argumentSet.Generator) {
		return UnknownGeneratorError{Generator: argumentSet.Generator}
	}
	if len(argumentSet.BuildType) > 0 && !containsName(buildTypeNames, argumentSet.BuildType) {
		return UnknownBuildTypeError{BuildType: argumentSet.BuildType}
	}
	return nil
}

// ConfigureArguments renders the cmake configure argument list. Compiler
// defines and the build-type define apply only to single-config generators;
// extra configure arguments are appended last.
func (argumentSet *ArgumentSet) ConfigureArguments() []string {
	configureArguments := []string{generatorArgumentConstant, argumentSet.Generator}
	if len(argumentSet.Architecture) > 0 {
		configureArguments = append(configureArguments, architectureArgumentConstant, argumentSet.Architecture)
	}
	if len(argumentSet.Toolset) > 0 {
		configureArguments = append(configureArguments, toolsetArgumentConstant, argumentSet.Toolset)
	}

	if argumentSet.SharedLibraries {
		configureArguments = append(configureArguments, sharedLibrariesDefineConstant)
	} else if argumentSet.StaticLibraries {
		configureArguments = append(configureArguments, staticLibrariesDefineConstant)
	}

	if IsSingleConfigGenerator(argumentSet.Generator) {
		if len(argumentSet.CCompiler) > 0 {
			configureArguments = append(configureArguments, fmt.Sprintf(cCompilerDefineTemplateConstant, argumentSet.CCompiler))
		}
		if len(argumentSet.CXXCompiler) > 0 {
			configureArguments = append(configureArguments, fmt.Sprintf(cxxCompilerDefineTemplateConstant, argumentSet.CXXCompiler))
		}
		if len(argumentSet.BuildType) > 0 {
			configureArguments = append(configureArguments, fmt.Sprintf(buildTypeDefineTemplateConstant, argumentSet.BuildType))
		}
	}

	return append(configureArguments, argumentSet.ExtraConfigureArguments...)
}

// BuildArguments renders the cmake --build argument list: multi-config
// generators receive the build type as --config here instead of at configure.
func (argumentSet *ArgumentSet) BuildArguments() []string {
	if IsMultiConfigGenerator(argumentSet.Generator) && len(argumentSet.BuildType) > 0 {
		return []string{buildConfigArgumentConstant, argumentSet.BuildType}
	}
	return nil
}
