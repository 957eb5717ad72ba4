package sheet

import (
	"strings"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Explicit error codes a current script deployment sets on failed envelopes.
const (
	CodeConfiguration = "CONFIGURATION_ERROR"
	CodeSheetNotFound = "SHEET_NOT_FOUND"
	CodeMissingHeader = "MISSING_HEADER"
	CodeUnknownAction = "UNKNOWN_ACTION"
)

var (
	sheetNameRemediation = []string{
		"Check that the sheet name configured in the script matches the tab name in the spreadsheet.",
		"Redeploy the script after changing it; an outdated deployment keeps serving the old code.",
	}
	headerRemediation = []string{
		"Make sure the users sheet has all header columns: id, name, division, role, username, password.",
		"Check spelling and remove trailing spaces from the header cells.",
	}
	deploymentRemediation = []string{
		"Update the script with the version that implements login and user management actions.",
		"Create a new deployment and point SHEET_SCRIPT_URL at it.",
	}
)

type configHint struct {
	message     string
	remediation []string
}

// classify turns a transport-level failure into a TransportError, or into a
// ConfigurationError when the message matches a legacy hint.
func classify(op string, err error) error {
	if hint, ok := legacyConfigHint(err.Error()); ok {
		return apperrors.NewConfigurationError(hint.message, hint.remediation, err)
	}
	return apperrors.NewTransportError(opError{op: op, err: err})
}

// scriptFailure maps a success:false envelope. Explicit codes win; deployments
// that predate codes are recognized by legacyConfigHint; anything else is
// passed through verbatim as a ScriptError.
func scriptFailure(env *Envelope) error {
	switch strings.ToUpper(strings.TrimSpace(env.Code)) {
	case CodeConfiguration, CodeSheetNotFound:
		return apperrors.NewConfigurationError(messageOr(env.Message, "backend sheet configuration is invalid"), sheetNameRemediation, nil)
	case CodeMissingHeader:
		return apperrors.NewConfigurationError(messageOr(env.Message, "users sheet is missing header columns"), headerRemediation, nil)
	case CodeUnknownAction:
		return apperrors.NewConfigurationError(messageOr(env.Message, "backend script does not recognize the action"), deploymentRemediation, nil)
	}
	if hint, ok := legacyConfigHint(env.Message); ok {
		return apperrors.NewConfigurationError(hint.message, hint.remediation, apperrors.NewScriptError(env.Message))
	}
	return apperrors.NewScriptError(env.Message)
}

// legacyConfigHint sniffs error text produced by script deployments that do
// not send explicit codes. Kept only for compatibility with those deployments.
func legacyConfigHint(message string) (configHint, bool) {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "cannot read properties of null"):
		return configHint{
			message:     "backend configuration error: the sheet name configured in the script does not match a tab in the spreadsheet",
			remediation: sheetNameRemediation,
		}, true
	case strings.Contains(lower, "header") && strings.Contains(lower, "tidak ditemukan di sheet pengguna"):
		return configHint{
			message:     "users sheet configuration error: one or more header columns are missing",
			remediation: headerRemediation,
		}, true
	case strings.Contains(lower, "aksi tidak valid"):
		return configHint{
			message:     "backend configuration error: the deployed script is outdated and does not recognize the action",
			remediation: deploymentRemediation,
		}, true
	}
	return configHint{}, false
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}

type opError struct {
	op  string
	err error
}

func (e opError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e opError) Unwrap() error {
	return e.err
}
