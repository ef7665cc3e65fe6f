package core

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "source error",
			err:  SourceError(ErrSourceNotFound, "data/in.csv", fs.ErrNotExist),
			want: "load: data/in.csv: source not found: file does not exist",
		},
		{
			name: "rule error",
			err:  ruleError(ErrImputationUndefined, RuleImpute, "age", "no non-missing values to average"),
			want: `clean/impute: column "age": imputation undefined: no non-missing values to average`,
		},
		{
			name: "sink error",
			err:  SinkError("out.csv", errors.New("disk full")),
			want: "save: out.csv: sink write error: disk full",
		},
		{
			name: "kind only",
			err:  &Error{Kind: ErrSourceParse, Stage: StageLoad},
			want: "load: source parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestError_MatchesKindAndCause(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", SourceError(ErrSourceNotFound, "x.csv", fs.ErrNotExist))

	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NotErrorIs(t, err, ErrSourceParse)
	assert.Equal(t, StageLoad, StageOf(err))
	assert.Equal(t, Stage(""), StageOf(errors.New("plain")))
}
