package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"nil error", nil, ""},
		{"source not found", SourceError(ErrSourceNotFound, "in.csv", fs.ErrNotExist), "SRC001"},
		{"source parse", SourceError(ErrSourceParse, "in.csv", errors.New("wrong number of fields")), "SRC002"},
		{"file too large", SourceError(ErrSourceParse, "in.csv", errors.New("file too large: 200 bytes exceeds limit of 100")), "SRC003"},
		{"type conflict", ruleError(ErrColumnTypeConflict, RuleImpute, "age", "bad"), "CLN001"},
		{"imputation undefined", ruleError(ErrImputationUndefined, RuleImpute, "age", "empty"), "CLN002"},
		{"disk full", SinkError("out.csv", errors.New("write out.csv: no space left on device")), "SNK001"},
		{"permission denied", SinkError("out.csv", fs.ErrPermission), "SNK002"},
		{"connection refused", SinkError("public.t", errors.New("dial tcp 127.0.0.1:5432: connect: Connection Refused")), "SNK003"},
		{"generic sink failure", SinkError("out.csv", errors.New("short write")), "SNK004"},
		{"wrapped kind", fmt.Errorf("run: %w", SinkError("o", errors.New("x"))), "SNK004"},
		{"unknown error", errors.New("something odd"), "ERR000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if tt.err != nil && (got.Message == "" || got.Action == "") {
				t.Errorf("MapError() = %+v, want message and action", got)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(SourceError(ErrSourceNotFound, "in.csv", fs.ErrNotExist))
	want := "Input file not found (Code: SRC001). Check the input path"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	seen := map[string]bool{defaultMessage.Code: true}
	check := func(msg UserMessage) {
		if seen[msg.Code] {
			t.Errorf("duplicate error code %s", msg.Code)
		}
		seen[msg.Code] = true
		if !strings.HasPrefix(msg.Code, "SRC") && !strings.HasPrefix(msg.Code, "CLN") && !strings.HasPrefix(msg.Code, "SNK") {
			t.Errorf("code %s has an unknown prefix", msg.Code)
		}
	}
	for _, ep := range errorPatterns {
		check(ep.msg)
	}
	for _, ek := range errorKinds {
		check(ek.msg)
	}
}
