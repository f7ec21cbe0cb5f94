package dto_test

import (
	"errors"
	"net/url"
	"reflect"
	"testing"

	"github.com/jsamuelsen11/rapidcontext/internal/adapters/http/dto"
	"github.com/jsamuelsen11/rapidcontext/internal/domain/procedure"
)

func TestCallRequestFromForm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		form      url.Values
		wantArgs  []any
		wantTrace bool
		wantErr   bool
	}{
		{
			name:     "no arguments",
			form:     url.Values{},
			wantArgs: []any{},
		},
		{
			name: "json values are decoded",
			form: url.Values{
				"arg0": {"42"},
				"arg1": {`{"a":true}`},
				"arg2": {`["x"]`},
				"arg3": {"null"},
			},
			wantArgs: []any{float64(42), map[string]any{"a": true}, []any{"x"}, nil},
		},
		{
			name:     "plain text stays a string",
			form:     url.Values{"arg0": {"hello world"}, "arg1": {""}},
			wantArgs: []any{"hello world", ""},
		},
		{
			name:     "stops at first gap",
			form:     url.Values{"arg0": {"1"}, "arg2": {"3"}},
			wantArgs: []any{float64(1)},
		},
		{
			name:      "trace flag",
			form:      url.Values{"system:trace": {"true"}},
			wantArgs:  []any{},
			wantTrace: true,
		},
		{
			name:    "invalid trace flag",
			form:    url.Values{"system:trace": {"maybe"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := dto.CallRequestFromForm(tt.form)
			if tt.wantErr {
				if !errors.Is(err, procedure.ErrArgument) {
					t.Fatalf("CallRequestFromForm() error = %v, want ErrArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("CallRequestFromForm() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(got.Args, tt.wantArgs) {
				t.Errorf("Args = %#v, want %#v", got.Args, tt.wantArgs)
			}
			if got.Trace != tt.wantTrace {
				t.Errorf("Trace = %v, want %v", got.Trace, tt.wantTrace)
			}
		})
	}
}

func TestCallRequest_Validate(t *testing.T) {
	t.Parallel()

	ok := &dto.CallRequest{Args: []any{1, 2}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	tooMany := &dto.CallRequest{Args: make([]any, 257)}
	if err := tooMany.Validate(); !errors.Is(err, procedure.ErrArgument) {
		t.Errorf("Validate() = %v, want ErrArgument", err)
	}
}
