// Package prompt collects interactive confirmations before destructive bulk actions.
package prompt

import (
	"bufio"
	"io"
	"strings"

	"github.com/AJacquin/ManaHg/internal/repos/shared"
)

const (
	affirmativeShortResponseConstant = "y"
	affirmativeLongResponseConstant  = "yes"
	applyToAllShortResponseConstant  = "a"
	applyToAllLongResponseConstant   = "all"
	responseDelimiterConstant        = '\n'
)

// IOConfirmationPrompter reads confirmation responses from an io.Reader.
type IOConfirmationPrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewIOConfirmationPrompter constructs a prompter from the provided reader and writer.
func NewIOConfirmationPrompter(input io.Reader, output io.Writer) *IOConfirmationPrompter {
	return &IOConfirmationPrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt and interprets affirmative responses (y/yes) and
// the apply-to-all response (a/all) covering every remaining repository.
func (prompter *IOConfirmationPrompter) Confirm(promptText string) (shared.ConfirmationResult, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, promptText); writeError != nil {
			return shared.ConfirmationResult{}, writeError
		}
	}

	response, readError := prompter.reader.ReadString(responseDelimiterConstant)
	if readError != nil && readError != io.EOF {
		return shared.ConfirmationResult{}, readError
	}

	switch strings.TrimSpace(strings.ToLower(response)) {
	case affirmativeShortResponseConstant, affirmativeLongResponseConstant:
		return shared.ConfirmationResult{Confirmed: true}, nil
	case applyToAllShortResponseConstant, applyToAllLongResponseConstant:
		return shared.ConfirmationResult{Confirmed: true, ApplyToAll: true}, nil
	default:
		return shared.ConfirmationResult{}, nil
	}
}
