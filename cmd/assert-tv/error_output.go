package main

import (
	"encoding/json"
	"fmt"
	"strings"

	coreerrors "github.com/aminfa/assert-tv/core/errors"
)

const (
	exitOK              = 0
	exitInvalidInput    = 2
	exitVerifyFailed    = 3
	exitInternalFailure = 4
)

func writeJSONOutput(output any, exitCode int) int {
	encoded, err := marshalOutputWithErrorEnvelope(output, exitCode)
	if err != nil {
		fmt.Println(`{"ok":false,"error":"failed to encode output","error_code":"encode_failed","error_category":"internal_failure","retryable":false}`)
		return exitInvalidInput
	}
	fmt.Println(string(encoded))
	return exitCode
}

func marshalOutputWithErrorEnvelope(output any, exitCode int) ([]byte, error) {
	encoded, err := marshalJSON(output)
	if err != nil {
		return nil, err
	}
	result, err := unmarshalJSONToMap(encoded)
	if err != nil {
		return nil, err
	}
	errorText := strings.TrimSpace(asString(result["error"]))
	if errorText == "" {
		return marshalJSON(result)
	}
	if strings.TrimSpace(asString(result["error_code"])) == "" {
		result["error_code"] = defaultErrorCode(exitCode)
	}
	if strings.TrimSpace(asString(result["error_category"])) == "" {
		category := defaultErrorCategory(exitCode)
		result["error_category"] = string(category)
	}
	if _, exists := result["retryable"]; !exists {
		// Vector failures are terminal for the run that raised them.
		result["retryable"] = false
	}
	if strings.TrimSpace(asString(result["hint"])) == "" {
		result["hint"] = defaultHint(exitCode)
	}
	return marshalJSON(result)
}

func exitCodeForError(err error, fallbackExit int) int {
	if err == nil {
		return exitOK
	}
	switch coreerrors.CategoryOf(err) {
	case coreerrors.CategoryInvalidInput:
		return exitInvalidInput
	case coreerrors.CategoryVerification:
		return exitVerifyFailed
	case coreerrors.CategoryIOFailure, coreerrors.CategoryStateContention, coreerrors.CategoryInternalFailure:
		return exitInternalFailure
	}
	return fallbackExit
}

func defaultErrorCategory(exitCode int) coreerrors.Category {
	switch exitCode {
	case exitInvalidInput:
		return coreerrors.CategoryInvalidInput
	case exitVerifyFailed:
		return coreerrors.CategoryVerification
	default:
		return coreerrors.CategoryInternalFailure
	}
}

func defaultErrorCode(exitCode int) string {
	switch exitCode {
	case exitInvalidInput:
		return "invalid_input"
	case exitVerifyFailed:
		return "verification_failed"
	default:
		return "internal_failure"
	}
}

func defaultHint(exitCode int) string {
	switch exitCode {
	case exitInvalidInput:
		return "check command usage and vector file paths"
	case exitVerifyFailed:
		return "re-record the vector in init mode if the change is intended"
	default:
		return "check local environment and file permissions"
	}
}

func marshalJSON(value any) ([]byte, error) {
	return json.Marshal(value)
}

func unmarshalJSONToMap(payload []byte) (map[string]any, error) {
	output := map[string]any{}
	if err := json.Unmarshal(payload, &output); err != nil {
		return nil, err
	}
	return output, nil
}

func asString(value any) string {
	text, _ := value.(string)
	return text
}
