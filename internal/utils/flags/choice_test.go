package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "path",
			choices:        []string{"path", "branch", "phase"},
			description:    "Column to order the dashboard by.",
			expectedOutput: "`<PATH|branch|phase>` Column to order the dashboard by.",
		},
		{
			name:           "DefaultMiddleChoice",
			defaultChoice:  "branch",
			choices:        []string{"path", "branch", "phase"},
			description:    "Column to order the dashboard by.",
			expectedOutput: "`<path|BRANCH|phase>` Column to order the dashboard by.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "revision",
			choices:        []string{"revision", "modified"},
			description:    "",
			expectedOutput: "`<REVISION|modified>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "phase",
			choices:        []string{"phase", "phase", "result", "result"},
			description:    "Select a column.",
			expectedOutput: "`<PHASE|result>` Select a column.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "path",
			choices:        []string{" path ", " result "},
			description:    "Select a column.",
			expectedOutput: "`<PATH|result>` Select a column.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}
