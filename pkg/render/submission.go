package render

import "strings"

// HiddenField is a hidden input posted with the options form.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden input names posted with every options form.
const (
	FieldOptionPage = "option_page"
	FieldAction     = "action"
	FieldNonce      = "_nonce"
	FieldReferer    = "_referer"
	ActionUpdate    = "update"
)

// NonceAction returns the nonce action bound to a settings namespace.
func NonceAction(namespace string) string {
	return namespace + "-options"
}

// SettingsFields returns the hidden inputs that scope a submission to one
// namespace: option_page, action=update, the nonce and, when known, the
// referer to return to.
func SettingsFields(namespace, nonce, referer string) []HiddenField {
	fields := []HiddenField{
		{Name: FieldOptionPage, Value: namespace},
		{Name: FieldAction, Value: ActionUpdate},
		{Name: FieldNonce, Value: nonce},
	}
	if referer = strings.TrimSpace(referer); referer != "" {
		fields = append(fields, HiddenField{Name: FieldReferer, Value: referer})
	}
	return fields
}
