package validation_test

import (
	"testing"

	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/testsupport"
	"github.com/goliatone/go-autovalidate/pkg/validation"
)

func TestSelectError(t *testing.T) {
	active := testsupport.Active
	inactive := testsupport.Inactive

	cases := []struct {
		name    string
		flags   model.ErrorFlags
		allowed []model.ErrorKind
		want    model.ErrorKind
		wantOK  bool
	}{
		{
			name:   "no flags",
			flags:  nil,
			wantOK: false,
		},
		{
			name:   "only inactive flags",
			flags:  model.NewErrorFlags(inactive(model.ErrorRequired), inactive(model.ErrorEmail)),
			wantOK: false,
		},
		{
			name:   "first active wins without allowed list",
			flags:  model.NewErrorFlags(active(model.ErrorRequired), active(model.ErrorMinLength)),
			want:   model.ErrorRequired,
			wantOK: true,
		},
		{
			name:    "disallowed kind replaces allowed candidate",
			flags:   model.NewErrorFlags(active(model.ErrorRequired), active(model.ErrorPattern)),
			allowed: []model.ErrorKind{model.ErrorRequired},
			want:    model.ErrorPattern,
			wantOK:  true,
		},
		{
			name:    "disallowed candidate stops the scan",
			flags:   model.NewErrorFlags(active(model.ErrorPattern), active(model.ErrorRequired)),
			allowed: []model.ErrorKind{model.ErrorRequired},
			want:    model.ErrorPattern,
			wantOK:  true,
		},
		{
			name:    "last of consecutive allowed kinds",
			flags:   model.NewErrorFlags(active(model.ErrorRequired), active(model.ErrorMinLength)),
			allowed: []model.ErrorKind{model.ErrorRequired, model.ErrorMinLength},
			want:    model.ErrorMinLength,
			wantOK:  true,
		},
		{
			name:    "only allowed kind reported",
			flags:   model.NewErrorFlags(inactive(model.ErrorEmail), active(model.ErrorRequired)),
			allowed: []model.ErrorKind{model.ErrorRequired},
			want:    model.ErrorRequired,
			wantOK:  true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := validation.SelectError(tc.flags, tc.allowed)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if got != tc.want {
				t.Fatalf("kind = %q, want %q", got, tc.want)
			}
		})
	}
}
