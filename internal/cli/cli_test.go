package cli

import "testing"

func TestValidateOutput(t *testing.T) {
	valid := []string{"raw", "view", "edit", "png", "jpg", "svg", "webp", "pdf"}
	for _, out := range valid {
		if err := ValidateOutput(out); err != nil {
			t.Errorf("ValidateOutput(%q) = %v", out, err)
		}
	}

	invalid := []string{"", "RAW", "gif", "html", "url"}
	for _, out := range invalid {
		if err := ValidateOutput(out); err == nil {
			t.Errorf("ValidateOutput(%q) succeeded, want error", out)
		}
	}
}

func TestIsURLOutput(t *testing.T) {
	if isURLOutput(OutputRaw) {
		t.Error("isURLOutput(raw) = true, want false")
	}
	for _, out := range []string{OutputView, OutputEdit, "png", "svg"} {
		if !isURLOutput(out) {
			t.Errorf("isURLOutput(%q) = false, want true", out)
		}
	}
}
