package registry

import "testing"

const landingFixture = `<html><script>{"datr":{"value":"DATR123","expires":1},` +
	`"_js_datr":{"value":"JSDATR456","expires":2},` +
	`"abra_csrf":{"value":"CSRF789","expires":3}}` +
	`["LSD",[],{"token":"LSD000"},323]` +
	`["DTSGInitData",[],{"token":"DTSG111","async_get_token":"x"},1]</script></html>`

func TestExtractValue(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start string
		end   string
		want  string
	}{
		{"between markers", `a[value]b`, "[", "]", "value"},
		{"first start wins", `x=1; x=2;`, "x=", ";", "1"},
		{"end searched after start", `;k=v;`, "k=", ";", "v"},
		{"empty value", `k="";`, `k="`, `"`, ""},
		{"start missing", `abc`, "zz", "c", ""},
		{"end missing", `start:value`, "start:", ";", ""},
		{"end only before start", `;start:value`, "start:", ";", ""},
		{"empty text", ``, "a", "b", ""},
	}

	for _, tt := range tests {
		got := ExtractValue(tt.text, tt.start, tt.end)
		if got != tt.want {
			t.Errorf("%s: ExtractValue(%q, %q, %q) = %q, want %q", tt.name, tt.text, tt.start, tt.end, got, tt.want)
		}
	}
}

func TestExtractTokens(t *testing.T) {
	tokens := ExtractTokens(landingFixture)

	if tokens.Datr != "DATR123" {
		t.Fatalf("expected datr DATR123, got %q", tokens.Datr)
	}
	if tokens.JSDatr != "JSDATR456" {
		t.Fatalf("expected _js_datr JSDATR456, got %q", tokens.JSDatr)
	}
	if tokens.AbraCSRF != "CSRF789" {
		t.Fatalf("expected abra_csrf CSRF789, got %q", tokens.AbraCSRF)
	}
	if tokens.LSD != "LSD000" {
		t.Fatalf("expected lsd LSD000, got %q", tokens.LSD)
	}
	if tokens.FBDtsg != "DTSG111" {
		t.Fatalf("expected fb_dtsg DTSG111, got %q", tokens.FBDtsg)
	}
	if missing := tokens.MissingIdentity(); len(missing) != 0 {
		t.Fatalf("expected no missing identity tokens, got %v", missing)
	}
}

func TestMissingIdentity(t *testing.T) {
	tokens := ExtractTokens(`<html>"abra_csrf":{"value":"c",</html>`)
	missing := tokens.MissingIdentity()
	if len(missing) != 2 || missing[0] != TokenJSDatr || missing[1] != TokenDatr {
		t.Fatalf("expected [_js_datr datr], got %v", missing)
	}
}

func TestIdentityCookie(t *testing.T) {
	tokens := Tokens{JSDatr: "j", Datr: "d", AbraCSRF: "c"}
	want := "_js_datr=j; abra_csrf=c; datr=d;"
	if got := tokens.IdentityCookie(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
