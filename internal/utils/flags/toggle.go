package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
)

var (
	affirmativeToggleLiterals = map[string]struct{}{
		toggleTrueCanonicalValue: {},
		"yes":                    {},
		"on":                     {},
		"1":                      {},
		"t":                      {},
		"y":                      {},
	}
	negativeToggleLiterals = map[string]struct{}{
		toggleFalseCanonicalValue: {},
		"no":                      {},
		"off":                     {},
		"0":                       {},
		"f":                       {},
		"n":                       {},
	}

	toggleFlagRegistryMutex sync.RWMutex
	toggleFlagNames         = map[string]struct{}{}
	toggleFlagShorthands    = map[string]struct{}{}
)

// AddToggleFlag registers a boolean toggle flag that accepts yes/no style values.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil {
		return
	}
	if len(name) == 0 {
		return
	}

	value := newToggleValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(value, name, shorthand, usage)
	} else {
		flagSet.Var(value, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
	registeredFlag.Usage = formatToggleUsage(usage, defaultValue)

	toggleFlagRegistryMutex.Lock()
	defer toggleFlagRegistryMutex.Unlock()
	toggleFlagNames[name] = struct{}{}
	if len(shorthand) > 0 {
		toggleFlagShorthands[shorthand] = struct{}{}
	}
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmedDescription)
}

// NormalizeToggleArguments rewrites toggle flag arguments so "--flag value" becomes "--flag=value" before parsing.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	index := 0
	for index < len(arguments) {
		currentArgument := arguments[index]
		if currentArgument == "--" {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		if normalizedArgument, consumed := normalizeToggleArgument(currentArgument, arguments, index); consumed > 0 {
			normalized = append(normalized, normalizedArgument)
			index += consumed
			continue
		}

		normalized = append(normalized, currentArgument)
		index++
	}

	return normalized
}

type toggleValue struct {
	current bool
	target  *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	if target != nil {
		*target = defaultValue
	}
	return &toggleValue{current: defaultValue, target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	parsedValue, parseError := parseToggleValue(rawValue)
	if parseError != nil {
		return parseError
	}

	value.current = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}

	return nil
}

func (value *toggleValue) String() string {
	if value == nil || !value.current {
		return toggleFalseCanonicalValue
	}
	return toggleTrueCanonicalValue
}

func (value *toggleValue) Type() string {
	return "bool"
}

func parseToggleValue(rawValue string) (bool, error) {
	trimmedValue := strings.TrimSpace(rawValue)
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueCanonicalValue
	}

	normalizedValue := strings.ToLower(trimmedValue)
	if _, affirmative := affirmativeToggleLiterals[normalizedValue]; affirmative {
		return true, nil
	}
	if _, negative := negativeToggleLiterals[normalizedValue]; negative {
		return false, nil
	}

	return false, fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

// normalizeToggleArgument reports the rewritten argument and how many raw
// arguments it consumed, or zero when the argument is not a registered toggle.
func normalizeToggleArgument(currentArgument string, arguments []string, index int) (string, int) {
	if !strings.HasPrefix(currentArgument, "-") {
		return "", 0
	}

	longForm := strings.HasPrefix(currentArgument, "--")
	trimmed := strings.TrimLeft(currentArgument, "-")
	if len(trimmed) == 0 {
		return "", 0
	}

	flagToken := trimmed
	hasInlineValue := false
	if splitIndex := strings.Index(trimmed, "="); splitIndex >= 0 {
		flagToken = trimmed[:splitIndex]
		hasInlineValue = true
	}
	if len(flagToken) == 0 {
		return "", 0
	}

	if longForm {
		if !isRegisteredToggleName(flagToken) {
			return "", 0
		}
	} else {
		if len(flagToken) != 1 || !isRegisteredToggleShorthand(flagToken) {
			return "", 0
		}
	}

	if hasInlineValue {
		return currentArgument, 1
	}
	if index+1 >= len(arguments) {
		return currentArgument, 1
	}
	nextValue := arguments[index+1]
	if strings.HasPrefix(nextValue, "-") {
		return currentArgument, 1
	}
	return currentArgument + "=" + nextValue, 2
}

func isRegisteredToggleName(name string) bool {
	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, exists := toggleFlagNames[name]
	return exists
}

func isRegisteredToggleShorthand(shorthand string) bool {
	toggleFlagRegistryMutex.RLock()
	defer toggleFlagRegistryMutex.RUnlock()
	_, exists := toggleFlagShorthands[shorthand]
	return exists
}
