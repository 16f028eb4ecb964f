package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeConfigParse, "cannot parse %s", "ci.yml")

	if got := err.Error(); got != "CONFIG_PARSE: cannot parse ci.yml" {
		t.Errorf("Error() = %q", got)
	}
	if !Is(err, ErrCodeConfigParse) {
		t.Error("Is(err, CONFIG_PARSE) = false, want true")
	}
	if Is(err, ErrCodeFileNotFound) {
		t.Error("Is(err, FILE_NOT_FOUND) = true, want false")
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("underlying failure")
	err := Wrap(ErrCodeFileNotFound, cause, "config file not found: %s", "ci.yml")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error does not unwrap to cause")
	}
	if !strings.Contains(err.Error(), "underlying failure") {
		t.Errorf("Error() = %q, missing cause text", err.Error())
	}
	if got := GetCode(err); got != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeFileNotFound)
	}
}

func TestIsThroughWrapping(t *testing.T) {
	inner := New(ErrCodeCircularInclude, "circular include")
	outer := fmt.Errorf("resolving: %w", inner)

	if !Is(outer, ErrCodeCircularInclude) {
		t.Error("Is does not see through fmt.Errorf wrapping")
	}
}

func TestGetCodePlainError(t *testing.T) {
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain error) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeModelBuild, "configuration is not a mapping")
	if got := UserMessage(err); got != "configuration is not a mapping" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
