package workflow

import (
	"fmt"
	"strings"
)

// Option keys recognized inside a step's "with" block.
const (
	optionToolReferenceKeyConstant = "tool"
	optionBranchKeyConstant        = "branch"
	optionCurrentKeyConstant       = "current"
	optionRevisionKeyConstant      = "rev"
	optionLastPublicKeyConstant    = "last_public"
	optionMessageKeyConstant       = "message"
	optionAllKeyConstant           = "all"
)

const (
	optionStringTypeTemplateConstant = "workflow option %s must be a string"
	optionBoolTypeTemplateConstant   = "workflow option %s must be a boolean"
)

// optionReader resolves declarative step options with normalized keys.
type optionReader struct {
	values map[string]any
}

func newOptionReader(options map[string]any) optionReader {
	normalized := make(map[string]any, len(options))
	for rawKey, rawValue := range options {
		normalized[strings.ToLower(strings.TrimSpace(rawKey))] = rawValue
	}
	return optionReader{values: normalized}
}

func (reader optionReader) stringValue(optionKey string) (string, bool, error) {
	rawValue, exists := reader.values[optionKey]
	if !exists || rawValue == nil {
		return "", false, nil
	}
	stringValue, isString := rawValue.(string)
	if !isString {
		return "", false, fmt.Errorf(optionStringTypeTemplateConstant, optionKey)
	}
	return strings.TrimSpace(stringValue), true, nil
}

func (reader optionReader) boolValue(optionKey string) (bool, bool, error) {
	rawValue, exists := reader.values[optionKey]
	if !exists || rawValue == nil {
		return false, false, nil
	}
	boolValue, isBool := rawValue.(bool)
	if !isBool {
		return false, false, fmt.Errorf(optionBoolTypeTemplateConstant, optionKey)
	}
	return boolValue, true, nil
}
