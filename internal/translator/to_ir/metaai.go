package to_ir

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/adaiasmagdiel/metaai-go/internal/translator/ir"
)

// ParseMessage decodes one line of upstream output. ok is false when the line
// is not a JSON object; callers skip such lines.
func ParseMessage(line []byte) (msg ir.Message, ok bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || !gjson.ValidBytes(line) {
		return msg, false
	}
	if !gjson.ParseBytes(line).IsObject() {
		return msg, false
	}
	return ir.Message{
		StreamingState: LookupString(line, pathStreamingState),
		ResponseID:     LookupString(line, pathResponseID),
		Text:           formatContent(Lookup(line, pathContent)),
		HasErrors:      hasErrors(Lookup(line, pathErrors)),
		Raw:            line,
	}, true
}

// FormatResponse reduces a message to display text: the text of every
// composed_text content item, joined by newlines. Missing fields give "".
func FormatResponse(rawJSON []byte) string {
	return formatContent(Lookup(rawJSON, pathContent))
}

func formatContent(content gjson.Result) string {
	if !content.IsArray() {
		return ""
	}
	items := content.Array()
	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, item.Get("text").String())
	}
	return strings.Join(texts, "\n")
}

// hasErrors reports a set error indicator. null, false, 0, "" and empty
// collections count as unset.
func hasErrors(errs gjson.Result) bool {
	switch errs.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.True:
		return true
	case gjson.Number:
		return errs.Num != 0
	case gjson.String:
		return errs.Str != ""
	}
	if errs.IsArray() {
		return len(errs.Array()) > 0
	}
	return len(errs.Map()) > 0
}

// AccessToken extracts the guest credential from a TOS mutation response.
// A missing credential reads as "".
func AccessToken(rawJSON []byte) string {
	return LookupString(rawJSON, pathAccessToken)
}
