// Package to_ir parses upstream GraphQL output into the ir representation.
// Every fixed-path read goes through Lookup so that absent or malformed
// fields uniformly read as empty values.
package to_ir

import (
	"github.com/tidwall/gjson"
)

// Fixed paths into upstream payloads.
const (
	pathBotResponse    = "data.node.bot_response_message"
	pathStreamingState = pathBotResponse + ".streaming_state"
	pathResponseID     = pathBotResponse + ".id"
	pathContent        = pathBotResponse + ".composed_text.content"
	pathErrors         = "errors"
	pathAccessToken    = "data.xab_abra_accept_terms_of_service.new_temp_user_auth.access_token"
)

// Lookup reads path from rawJSON. Invalid JSON and missing fields yield a
// zero gjson.Result, whose String() is "" and Exists() is false.
func Lookup(rawJSON []byte, path string) gjson.Result {
	if !gjson.ValidBytes(rawJSON) {
		return gjson.Result{}
	}
	return gjson.GetBytes(rawJSON, path)
}

// LookupString is Lookup followed by String().
func LookupString(rawJSON []byte, path string) string {
	return Lookup(rawJSON, path).String()
}
