// Package from_ir renders ir requests into upstream form bodies.
package from_ir

import (
	"net/url"

	"github.com/tidwall/sjson"

	"github.com/adaiasmagdiel/metaai-go/internal/registry"
	"github.com/adaiasmagdiel/metaai-go/internal/translator/ir"
)

// AcceptTOSForm builds the temporary-user terms mutation that mints a guest
// access token.
func AcceptTOSForm(lsd string) (url.Values, error) {
	variables, err := buildVariables([]variable{
		{path: "dob", value: "2002-01-01"},
		{path: "icebreaker_type", value: "TEXT"},
		{path: "__relay_internal__pv__WebPixelRatiorelayprovider", value: 1},
	})
	if err != nil {
		return nil, err
	}
	form := url.Values{}
	form.Set(registry.TokenLSD, lsd)
	form.Set("fb_api_caller_class", registry.CallerClass)
	form.Set("fb_api_req_friendly_name", registry.AcceptTOSFriendlyName)
	form.Set("variables", variables)
	form.Set("doc_id", registry.AcceptTOSDocID)
	return form, nil
}

// SendMessageForm builds the send-message mutation.
func SendMessageForm(req ir.SendRequest) (url.Values, error) {
	variables, err := buildVariables([]variable{
		{path: "message.sensitive_string_value", value: req.Message},
		{path: "externalConversationId", value: req.ExternalConversationID},
		{path: "offlineThreadingId", value: req.OfflineThreadingID},
		{path: "suggestedPromptIndex", raw: "null"},
		{path: "flashVideoRecapInput.images", raw: "[]"},
		{path: "flashPreviewInput", raw: "null"},
		{path: "promptPrefix", raw: "null"},
		{path: "entrypoint", value: "ABRA__CHAT__TEXT"},
		{path: "icebreaker_type", value: "TEXT"},
		{path: "__relay_internal__pv__AbraDebugDevOnlyrelayprovider", value: false},
		{path: "__relay_internal__pv__WebPixelRatiorelayprovider", value: 1},
	})
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	if req.FBDtsg != "" {
		form.Set(registry.TokenFBDtsg, req.FBDtsg)
	} else {
		form.Set("access_token", req.AccessToken)
	}
	form.Set("fb_api_caller_class", registry.CallerClass)
	form.Set("fb_api_req_friendly_name", registry.SendMessageFriendlyName)
	form.Set("variables", variables)
	form.Set("server_timestamps", "true")
	form.Set("doc_id", registry.SendMessageDocID)
	return form, nil
}

type variable struct {
	path  string
	value any
	raw   string
}

// buildVariables renders the Relay variables object. The upstream expects it
// as a JSON-encoded string field, not a nested form object.
func buildVariables(vars []variable) (string, error) {
	out := []byte(`{}`)
	var err error
	for _, v := range vars {
		if v.raw != "" {
			out, err = sjson.SetRawBytes(out, v.path, []byte(v.raw))
		} else {
			out, err = sjson.SetBytes(out, v.path, v.value)
		}
		if err != nil {
			return "", err
		}
	}
	return string(out), nil
}
