package mermaid

import (
	"strings"
	"testing"
)

const sampleDoc = "---\nconfig:\ngantt:\n  useWidth: 1600\n---\ngraph LR\n    a --> b"

func TestLiveURLRoundTrip(t *testing.T) {
	var enc URLEncoder

	for _, editable := range []bool{false, true} {
		u, err := enc.LiveURL(sampleDoc, editable)
		if err != nil {
			t.Fatalf("LiveURL(editable=%v) error: %v", editable, err)
		}

		route := "view"
		if editable {
			route = "edit"
		}
		prefix := DefaultLiveBase + "/" + route + "#pako:"
		if !strings.HasPrefix(u, prefix) {
			t.Errorf("LiveURL(editable=%v) = %q, want prefix %q", editable, u, prefix)
		}

		decoded, err := DecodeLive(u)
		if err != nil {
			t.Fatalf("DecodeLive() error: %v", err)
		}
		if decoded != sampleDoc {
			t.Errorf("round trip = %q, want %q", decoded, sampleDoc)
		}
	}
}

func TestLiveURLCustomBase(t *testing.T) {
	enc := URLEncoder{LiveBase: "https://mermaid.example.com/"}
	u, err := enc.LiveURL(sampleDoc, false)
	if err != nil {
		t.Fatalf("LiveURL() error: %v", err)
	}
	if !strings.HasPrefix(u, "https://mermaid.example.com/view#pako:") {
		t.Errorf("LiveURL() = %q, custom base not applied", u)
	}
}

func TestLiveURLPayloadIsURLSafe(t *testing.T) {
	var enc URLEncoder
	u, err := enc.LiveURL(sampleDoc, false)
	if err != nil {
		t.Fatalf("LiveURL() error: %v", err)
	}
	payload := u[strings.Index(u, "#pako:")+len("#pako:"):]
	if strings.ContainsAny(payload, "+/=") {
		t.Errorf("payload %q contains non-URL-safe base64 characters", payload)
	}
}

func TestInkURL(t *testing.T) {
	var enc URLEncoder
	u, err := enc.InkURL("graph LR", "png")
	if err != nil {
		t.Fatalf("InkURL() error: %v", err)
	}
	if !strings.HasPrefix(u, DefaultInkBase+"/img/") {
		t.Errorf("InkURL() = %q, want %s/img/ prefix", u, DefaultInkBase)
	}
	if !strings.HasSuffix(u, "?type=png") {
		t.Errorf("InkURL() = %q, want ?type=png suffix", u)
	}
}

func TestInkURLInvalidFormat(t *testing.T) {
	var enc URLEncoder
	if _, err := enc.InkURL("graph LR", "gif"); err == nil {
		t.Error("InkURL(gif) succeeded, want error")
	}
}

func TestValidateImageFormat(t *testing.T) {
	for _, f := range []string{"png", "jpg", "svg", "webp", "pdf"} {
		if err := ValidateImageFormat(f); err != nil {
			t.Errorf("ValidateImageFormat(%q) = %v", f, err)
		}
	}
	for _, f := range []string{"", "gif", "PNG", "raw"} {
		if err := ValidateImageFormat(f); err == nil {
			t.Errorf("ValidateImageFormat(%q) succeeded, want error", f)
		}
	}
}

func TestDecodeLiveBadPayload(t *testing.T) {
	if _, err := DecodeLive("https://mermaid.live/view#pako:!!!not-base64!!!"); err == nil {
		t.Error("DecodeLive(bad payload) succeeded, want error")
	}
}
