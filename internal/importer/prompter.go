package importer

import (
	"github.com/AlecAivazis/survey/v2"
)

// ConfirmationPrompter asks the operator to approve a pending import run.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
}

// SecretPrompter collects sensitive values without echoing them.
type SecretPrompter interface {
	PromptSecret(question string) (string, error)
}

// SurveyPrompter collects operator input through interactive terminal prompts.
type SurveyPrompter struct{}

// NewSurveyPrompter constructs an interactive prompter.
func NewSurveyPrompter() SurveyPrompter {
	return SurveyPrompter{}
}

// Confirm presents a yes/no prompt and reports the operator's answer.
func (prompter SurveyPrompter) Confirm(question string) (bool, error) {
	confirmed := false
	askError := survey.AskOne(&survey.Confirm{Message: question, Default: false}, &confirmed)
	if askError != nil {
		return false, askError
	}
	return confirmed, nil
}

// PromptSecret presents a hidden-input prompt and returns the entered value.
func (prompter SurveyPrompter) PromptSecret(question string) (string, error) {
	secretValue := ""
	askError := survey.AskOne(&survey.Password{Message: question}, &secretValue)
	if askError != nil {
		return "", askError
	}
	return secretValue, nil
}
