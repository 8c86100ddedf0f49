package provider

import (
	"os"
	"strings"
)

const (
	trueEnvironmentValueConstant = "true"

	genericCIVariableConstant                    = "CI"
	genericContinuousIntegrationVariableConstant = "CONTINUOUS_INTEGRATION"

	appVeyorVariableConstant           = "APPVEYOR"
	azureUserAgentVariableConstant     = "AZURE_HTTP_USER_AGENT"
	azureAgentNameVariableConstant     = "AGENT_NAME"
	azureBuildReasonVariableConstant   = "BUILD_REASON"
	circleCIVariableConstant           = "CIRCLECI"
	githubActionsVariableConstant      = "GITHUB_ACTIONS"
	jenkinsURLVariableConstant         = "JENKINS_URL"
	jenkinsBuildNumberVariableConstant = "BUILD_NUMBER"
	travisVariableConstant             = "TRAVIS"
)

// Name identifies a supported CI provider.
type Name string

// The supported CI providers.
const (
	NameAppVeyor       Name = "appveyor"
	NameAzurePipelines Name = "azure-pipelines"
	NameCircleCI       Name = "circleci"
	NameGitHubActions  Name = "github-actions"
	NameJenkins        Name = "jenkins"
	NameTravis         Name = "travis"
)

// EnvironmentLookup reads a single environment variable.
type EnvironmentLookup func(variableName string) (string, bool)

// Detector answers provider-detection queries against an environment.
type Detector struct {
	environmentLookup EnvironmentLookup
}

// NewDetector constructs a Detector reading the process environment.
func NewDetector() Detector {
	return NewDetectorWithLookup(os.LookupEnv)
}

// NewDetectorWithLookup constructs a Detector with an explicit environment lookup.
func NewDetectorWithLookup(environmentLookup EnvironmentLookup) Detector {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	return Detector{environmentLookup: environmentLookup}
}

type providerRule struct {
	providerName Name
	detect       func(detector Detector) bool
}

var providerRules = []providerRule{
	{providerName: NameAppVeyor, detect: Detector.IsAppVeyor},
	{providerName: NameAzurePipelines, detect: Detector.IsAzurePipelines},
	{providerName: NameCircleCI, detect: Detector.IsCircleCI},
	{providerName: NameGitHubActions, detect: Detector.IsGitHubActions},
	{providerName: NameJenkins, detect: Detector.IsJenkins},
	{providerName: NameTravis, detect: Detector.IsTravis},
}

// IsContinuousIntegration reports whether any CI service is detected, either
// through the generic CI variables or any specific provider.
func (detector Detector) IsContinuousIntegration() bool {
	if detector.booleanVariableSet(genericCIVariableConstant) {
		return true
	}
	if detector.booleanVariableSet(genericContinuousIntegrationVariableConstant) {
		return true
	}
	for _, rule := range providerRules {
		if rule.detect(detector) {
			return true
		}
	}
	return false
}

// DetectedProviders lists every specific provider whose environment markers are present.
func (detector Detector) DetectedProviders() []Name {
	var detectedProviders []Name
	for _, rule := range providerRules {
		if rule.detect(detector) {
			detectedProviders = append(detectedProviders, rule.providerName)
		}
	}
	return detectedProviders
}

// IsAppVeyor reports whether the AppVeyor environment markers are present.
func (detector Detector) IsAppVeyor() bool {
	return detector.booleanVariableSet(appVeyorVariableConstant)
}

// IsAzurePipelines reports whether all Azure Pipelines environment markers are present.
func (detector Detector) IsAzurePipelines() bool {
	return detector.variablePresent(azureUserAgentVariableConstant) &&
		detector.variablePresent(azureAgentNameVariableConstant) &&
		detector.variablePresent(azureBuildReasonVariableConstant)
}

// IsCircleCI reports whether the CircleCI environment markers are present.
func (detector Detector) IsCircleCI() bool {
	return detector.booleanVariableSet(circleCIVariableConstant)
}

// IsGitHubActions reports whether the GitHub Actions environment markers are present.
func (detector Detector) IsGitHubActions() bool {
	return detector.booleanVariableSet(githubActionsVariableConstant)
}

// IsJenkins reports whether both Jenkins environment markers are present.
func (detector Detector) IsJenkins() bool {
	return detector.variablePresent(jenkinsURLVariableConstant) &&
		detector.variablePresent(jenkinsBuildNumberVariableConstant)
}

// IsTravis reports whether the Travis environment markers are present.
func (detector Detector) IsTravis() bool {
	return detector.booleanVariableSet(travisVariableConstant)
}

func (detector Detector) booleanVariableSet(variableName string) bool {
	variableValue, variablePresent := detector.environmentLookup(variableName)
	if !variablePresent {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(variableValue), trueEnvironmentValueConstant)
}

func (detector Detector) variablePresent(variableName string) bool {
	_, variablePresent := detector.environmentLookup(variableName)
	return variablePresent
}
