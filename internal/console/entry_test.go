package console

import (
	"errors"
	"testing"

	"termcanvas/internal/segment"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    segment.Entry
		wantErr string
	}{
		{name: "output", input: `{"kind":"output","text":"hi"}`, want: segment.Entry{Kind: segment.KindOutput, Text: "hi"}},
		{name: "replace input", input: `{"kind":"input","text":"ls","replace":true}`, want: segment.Entry{Kind: segment.KindInput, Text: "ls", Replace: true}},
		{name: "null replace", input: `{"kind":"input","text":"","replace":null}`, want: segment.Entry{Kind: segment.KindInput}},
		{name: "bad json", input: `{`, wantErr: "entry"},
		{name: "missing kind", input: `{"text":"x"}`, wantErr: "kind"},
		{name: "numeric kind", input: `{"kind":1,"text":"x"}`, wantErr: "kind"},
		{name: "unknown kind", input: `{"kind":"error","text":"x"}`, wantErr: "kind"},
		{name: "missing text", input: `{"kind":"output"}`, wantErr: "text"},
		{name: "text not string", input: `{"kind":"output","text":["a"]}`, wantErr: "text"},
		{name: "replace not bool", input: `{"kind":"output","text":"a","replace":"yes"}`, wantErr: "replace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntry([]byte(tt.input))
			if tt.wantErr != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Field != tt.wantErr {
					t.Fatalf("err = %v, want ValidationError on %q", err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidEntry) {
					t.Fatalf("err should wrap ErrInvalidEntry")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntry: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
