package inspect_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/inspect"
	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/testsupport"
)

func TestIsVisible(t *testing.T) {
	cases := []struct {
		name          string
		width, height float64
		want          bool
	}{
		{name: "laid out", width: 10, height: 4, want: true},
		{name: "zero width", width: 0, height: 4},
		{name: "zero height", width: 10, height: 0},
		{name: "collapsed", width: 0, height: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			el := &testsupport.Element{Tag: "input", Width: tc.width, Height: tc.height}
			if got := inspect.IsVisible(el); got != tc.want {
				t.Fatalf("IsVisible() = %v, want %v", got, tc.want)
			}
		})
	}

	if inspect.IsVisible(nil) {
		t.Fatalf("nil element must not be visible")
	}
}

func TestHasErrorsOtherThanExcluded(t *testing.T) {
	required := testsupport.Active(model.ErrorRequired)
	minlength := testsupport.Active(model.ErrorMinLength)

	cases := []struct {
		name     string
		flags    model.ErrorFlags
		excluded []model.ErrorKind
		want     bool
	}{
		{name: "only excluded", flags: model.NewErrorFlags(required), excluded: []model.ErrorKind{model.ErrorRequired}},
		{name: "extra error", flags: model.NewErrorFlags(required, minlength), excluded: []model.ErrorKind{model.ErrorRequired}, want: true},
		{name: "empty exclusion", flags: model.NewErrorFlags(required), want: true},
		{name: "inactive flags", flags: model.NewErrorFlags(testsupport.Inactive(model.ErrorPattern)), want: false},
		{name: "no flags", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inspect.HasErrorsOtherThanExcluded(tc.flags, tc.excluded); got != tc.want {
				t.Fatalf("HasErrorsOtherThanExcluded() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestShouldValidate(t *testing.T) {
	visible := model.FormValidationOptions{}
	hidden := model.FormValidationOptions{ValidateNonVisibleControls: true}

	cases := []struct {
		name string
		el   host.Element
		opts model.FormValidationOptions
		want bool
	}{
		{name: "nil element", el: nil, opts: visible},
		{name: "visible input", el: &testsupport.Element{Tag: "input", Width: 1, Height: 1}, opts: visible, want: true},
		{name: "upper case tag", el: &testsupport.Element{Tag: "TEXTAREA", Width: 1, Height: 1}, opts: visible, want: true},
		{name: "hidden select", el: &testsupport.Element{Tag: "select"}, opts: visible},
		{name: "hidden select allowed", el: &testsupport.Element{Tag: "select"}, opts: hidden, want: true},
		{name: "div", el: &testsupport.Element{Tag: "div", Width: 1, Height: 1}, opts: visible},
		{
			name: "custom control",
			el: &testsupport.Element{
				Tag:   "rating-stars",
				Attrs: map[string]string{host.AttrCustomControl: ""},
				Width: 1, Height: 1,
			},
			opts: visible,
			want: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := inspect.ShouldValidate(tc.el, tc.opts); got != tc.want {
				t.Fatalf("ShouldValidate() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResolveOptions(t *testing.T) {
	defaults := config.NewDefaults()
	defaults.MustInit(model.FormValidationOptions{ValidateNonVisibleControls: true})
	inspector := inspect.New(defaults)

	t.Run("nearest form", func(t *testing.T) {
		opts := &model.FormValidationOptions{
			DisplayErrorsAfterSubmit: true,
			ErrorsAllowedOnSubmit:    []model.ErrorKind{model.ErrorRequired},
		}
		el := testsupport.Input(&testsupport.Form{Opts: opts}, &testsupport.Control{})

		got := inspector.ResolveOptions(el)
		if diff := cmp.Diff(*opts, got); diff != "" {
			t.Fatalf("options mismatch (-want +got):\n%s", diff)
		}

		got.ErrorsAllowedOnSubmit[0] = model.ErrorPattern
		if opts.ErrorsAllowedOnSubmit[0] != model.ErrorRequired {
			t.Fatalf("resolved options must be a copy")
		}
	})

	t.Run("detached element", func(t *testing.T) {
		el := &testsupport.Element{Tag: "input"}
		got := inspector.ResolveOptions(el)
		if !got.ValidateNonVisibleControls {
			t.Fatalf("expected process defaults, got %+v", got)
		}
	})

	t.Run("form without options", func(t *testing.T) {
		el := testsupport.Input(&testsupport.Form{}, nil)
		if got := inspector.ResolveOptions(el); !got.ValidateNonVisibleControls {
			t.Fatalf("expected process defaults, got %+v", got)
		}
	})

	t.Run("nil element and nil inspector", func(t *testing.T) {
		if diff := cmp.Diff(defaults.Get(), inspector.ResolveOptions(nil)); diff != "" {
			t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
		}
		var zero *inspect.Inspector
		if diff := cmp.Diff(model.DefaultOptions(), zero.ResolveOptions(nil)); diff != "" {
			t.Fatalf("library defaults mismatch (-want +got):\n%s", diff)
		}
	})
}
