package flags_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/snykaudit/internal/utils/flags"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expectedUsage string
	}{
		{
			name:          "default_capitalized",
			defaultChoice: "snyk-us-01",
			choices:       []string{"snyk-us-01", "snyk-eu-01"},
			description:   "Snyk region",
			expectedUsage: "`<SNYK-US-01|snyk-eu-01>` Snyk region",
		},
		{
			name:          "blank_choices_skipped",
			defaultChoice: "a",
			choices:       []string{"a", "  ", "b"},
			description:   "option",
			expectedUsage: "`<A|b>` option",
		},
		{
			name:          "empty_description",
			defaultChoice: "a",
			choices:       []string{"a", "b"},
			description:   "",
			expectedUsage: "`<A|b>`",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			formattedUsage := flags.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(subtest, testCase.expectedUsage, formattedUsage)
		})
	}
}
