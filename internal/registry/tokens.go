package registry

import "strings"

// Cookie and form names of the scraped session tokens.
const (
	TokenJSDatr   = "_js_datr"
	TokenDatr     = "datr"
	TokenLSD      = "lsd"
	TokenFBDtsg   = "fb_dtsg"
	TokenAbraCSRF = "abra_csrf"

	// SessionCookie carries an authenticated browser session.
	SessionCookie = "abra_sess"
)

// Marker bounds exactly one token value in the landing page.
type Marker struct {
	Start string
	End   string
}

// tokenMarkers lists the marker pairs for every scraped token.
var tokenMarkers = map[string]Marker{
	TokenJSDatr:   {Start: `_js_datr":{"value":"`, End: `",`},
	TokenDatr:     {Start: `datr":{"value":"`, End: `",`},
	TokenLSD:      {Start: `"LSD",[],{"token":"`, End: `"}`},
	TokenFBDtsg:   {Start: `DTSGInitData",[],{"token":"`, End: `"`},
	TokenAbraCSRF: {Start: `abra_csrf":{"value":"`, End: `",`},
}

// Tokens are the ephemeral values scraped from the landing page.
type Tokens struct {
	JSDatr   string
	Datr     string
	LSD      string
	FBDtsg   string
	AbraCSRF string
}

// ExtractValue returns the text strictly between the first occurrence of start
// and the next occurrence of end after it. It returns "" when either marker is
// missing; callers treat that as "token not found".
func ExtractValue(text, start, end string) string {
	idx := strings.Index(text, start)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(start):]
	endIdx := strings.Index(rest, end)
	if endIdx < 0 {
		return ""
	}
	return rest[:endIdx]
}

// ExtractTokens scrapes every known token from a landing page.
func ExtractTokens(page string) Tokens {
	extract := func(name string) string {
		m := tokenMarkers[name]
		return ExtractValue(page, m.Start, m.End)
	}
	return Tokens{
		JSDatr:   extract(TokenJSDatr),
		Datr:     extract(TokenDatr),
		LSD:      extract(TokenLSD),
		FBDtsg:   extract(TokenFBDtsg),
		AbraCSRF: extract(TokenAbraCSRF),
	}
}

// MissingIdentity names the browser identity and CSRF tokens that are empty.
func (t Tokens) MissingIdentity() []string {
	var missing []string
	if t.JSDatr == "" {
		missing = append(missing, TokenJSDatr)
	}
	if t.AbraCSRF == "" {
		missing = append(missing, TokenAbraCSRF)
	}
	if t.Datr == "" {
		missing = append(missing, TokenDatr)
	}
	return missing
}

// IdentityCookie renders the identity cookies in the order the web app sends them.
func (t Tokens) IdentityCookie() string {
	return TokenJSDatr + "=" + t.JSDatr + "; " +
		TokenAbraCSRF + "=" + t.AbraCSRF + "; " +
		TokenDatr + "=" + t.Datr + ";"
}
