package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeEntityNotFound, "entity %q not in records", "acme-us"),
			want: `ENTITY_NOT_FOUND: entity "acme-us" not in records`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeFileNotFound, os.ErrNotExist, "records file %s", "data.json"),
			want: "FILE_NOT_FOUND: records file data.json: file does not exist",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeInvalidInput, os.ErrPermission, "read blueprint")
	if !errors.Is(err, os.ErrPermission) {
		t.Error("errors.Is should see the cause through Wrap")
	}
	if errors.Unwrap(err) != os.ErrPermission {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestGetCodeAndIs(t *testing.T) {
	compile := &CompileError{Pass: 1, Err: errors.New("exit status 1")}

	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeSectionNotFound, "x"), ErrCodeSectionNotFound},
		{"outermost code wins", Wrap(ErrCodeNetwork, New(ErrCodeNotFound, "inner"), "outer"), ErrCodeNetwork},
		{"behind fmt wrapping", fmt.Errorf("assemble: %w", New(ErrCodeInvalidBlueprint, "x")), ErrCodeInvalidBlueprint},
		{"compile error", compile, ErrCodeCompileFailed},
		{"wrapped compile error", fmt.Errorf("pdf: %w", compile), ErrCodeCompileFailed},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(%q) = false", tt.want)
			}
			if Is(tt.err, ErrCodeTimeout) {
				t.Error("Is(TIMEOUT) = true")
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidPath, "reference %q escapes its root", "../x"), `reference "../x" escapes its root`},
		{"coded behind fmt", fmt.Errorf("load: %w", New(ErrCodeInvalidInput, "bad json")), "bad json"},
		{"plain", errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHint(t *testing.T) {
	if Hint(New(ErrCodeUnauthorized, "no key")) == "" {
		t.Error("UNAUTHORIZED should have a hint")
	}
	if Hint(&CompileError{Err: errors.New("x")}) == "" {
		t.Error("compile errors should have a hint")
	}
	if got := Hint(New(ErrCodeInternal, "x")); got != "" {
		t.Errorf("INTERNAL_ERROR hint = %q, want none", got)
	}
	if got := Hint(errors.New("plain")); got != "" {
		t.Errorf("plain error hint = %q, want none", got)
	}
}

func TestCompileError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &CompileError{Pass: 2, Log: "! Undefined control sequence.", Err: cause}

	if got, want := err.Error(), "pdflatex pass 2 failed: exit status 1"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}

	var ce *CompileError
	if !errors.As(Wrap(ErrCodeInternal, err, "build pdf"), &ce) || ce.Log == "" {
		t.Error("errors.As should find the compile log through Wrap")
	}
}
