package validation_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/inspect"
	"github.com/goliatone/go-autovalidate/pkg/messages"
	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/testsupport"
	"github.com/goliatone/go-autovalidate/pkg/validation"
)

const requiredMessage = "This field is required"

var sameElement = cmp.Comparer(func(a, b host.Element) bool { return a == b })

type harness struct {
	engine   *validation.Engine
	adapter  *testsupport.RecordingAdapter
	messages *testsupport.MessageResolver
}

func newHarness(t *testing.T) harness {
	t.Helper()
	rec := &testsupport.RecordingAdapter{}
	res := &testsupport.MessageResolver{Messages: map[model.ErrorKind]string{
		model.ErrorRequired:  requiredMessage,
		model.ErrorPattern:   "Please enter a value in the expected format",
		model.ErrorMinLength: "Please enter a longer value",
	}}
	engine := validation.New(inspect.New(nil), rec, validation.WithMessageResolver(res))
	return harness{engine: engine, adapter: rec, messages: res}
}

func (h harness) calls(t *testing.T) []testsupport.Call {
	t.Helper()
	h.engine.Wait()
	return h.adapter.Calls()
}

func assertCalls(t *testing.T, want, got []testsupport.Call) {
	t.Helper()
	if diff := cmp.Diff(want, got, sameElement); diff != "" {
		t.Fatalf("adapter calls mismatch (-want +got):\n%s", diff)
	}
}

func optedIn(mutate func(*model.FormValidationOptions)) *testsupport.Form {
	opts := model.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	return &testsupport.Form{Opts: &opts}
}

func TestValidateElement_DisabledSkipsEverything(t *testing.T) {
	h := newHarness(t)
	ctx := testsupport.Context()
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	el := testsupport.Input(form, control)

	opts := model.DefaultOptions()
	opts.Disabled = true
	opts.ForceValidation = true

	if !h.engine.ValidateElement(ctx, form, control, el, &opts) {
		t.Fatalf("expected disabled validation to report valid")
	}
	assertCalls(t, nil, h.calls(t))
	if got := h.messages.Lookups(); len(got) != 0 {
		t.Fatalf("expected no message lookups, got %v", got)
	}
}

func TestValidateElement_ShouldValidateGate(t *testing.T) {
	cases := []struct {
		name string
		el   func(*testsupport.Form, host.Control) *testsupport.Element
	}{
		{
			name: "hidden input",
			el: func(form *testsupport.Form, control host.Control) *testsupport.Element {
				el := testsupport.Input(form, control)
				el.Width, el.Height = 0, 0
				return el
			},
		},
		{
			name: "unregistered div",
			el: func(form *testsupport.Form, control host.Control) *testsupport.Element {
				el := testsupport.Input(form, control)
				el.Tag = "div"
				return el
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			form := optedIn(nil)
			control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
			el := tc.el(form, control)

			if !h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
				t.Fatalf("expected skipped control to report valid")
			}
			assertCalls(t, nil, h.calls(t))
		})
	}
}

func TestValidateElement_HiddenControlWhenAllowed(t *testing.T) {
	h := newHarness(t)
	form := optedIn(func(o *model.FormValidationOptions) { o.ValidateNonVisibleControls = true })
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	el := testsupport.Input(form, control)
	el.Width = 0

	if h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
		t.Fatalf("expected hidden invalid control to be validated")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: requiredMessage},
	}, h.calls(t))
}

func TestValidateElement_PristineControlIsSkipped(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	control.IsPristine = true
	el := testsupport.Input(form, control)

	if !h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
		t.Fatalf("expected pristine control to be left alone")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestValidateElement_Valid(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	control := &testsupport.Control{}
	el := testsupport.Input(form, control)

	if !h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
		t.Fatalf("expected valid control")
	}
	assertCalls(t, []testsupport.Call{{Method: testsupport.CallValid, Element: el}}, h.calls(t))
}

func TestValidateElement_InvalidRendersSelectedError(t *testing.T) {
	h := newHarness(t)
	form := optedIn(func(o *model.FormValidationOptions) {
		o.ErrorsAllowedOnSubmit = []model.ErrorKind{model.ErrorRequired}
	})
	control := testsupport.InvalidControl(
		testsupport.Active(model.ErrorRequired),
		testsupport.Active(model.ErrorPattern),
	)
	el := testsupport.Input(form, control)

	if h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
		t.Fatalf("expected invalid result")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: "Please enter a value in the expected format"},
	}, h.calls(t))
	if diff := cmp.Diff([]model.ErrorKind{model.ErrorPattern}, h.messages.Lookups()); diff != "" {
		t.Fatalf("lookups mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateElement_InvalidWithoutActiveFlag(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Inactive(model.ErrorRequired))
	el := testsupport.Input(form, control)

	if !h.engine.ValidateElement(testsupport.Context(), form, control, el, nil) {
		t.Fatalf("expected invalid control without active flags to be treated as valid")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestValidateElement_DisplayErrorsAfterSubmit(t *testing.T) {
	h := newHarness(t)
	form := optedIn(func(o *model.FormValidationOptions) { o.DisplayErrorsAfterSubmit = true })
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	el := testsupport.Input(form, control)
	ctx := testsupport.Context()

	if h.engine.ValidateElement(ctx, form, control, el, nil) {
		t.Fatalf("expected invalid result before submit")
	}
	assertCalls(t, nil, h.calls(t))

	form.IsSubmitted = true
	if h.engine.ValidateElement(ctx, form, control, el, nil) {
		t.Fatalf("expected invalid result after submit")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: requiredMessage},
	}, h.calls(t))
}

func TestValidateElement_RemovesExternalErrors(t *testing.T) {
	for _, remove := range []bool{true, false} {
		h := newHarness(t)
		form := optedIn(func(o *model.FormValidationOptions) { o.RemoveExternalValidationErrorsOnSubmit = remove })
		control := &testsupport.ClearableControl{Control: &testsupport.Control{}}
		el := testsupport.Input(form, control)

		h.engine.ValidateElement(testsupport.Context(), form, control, el, nil)

		want := 0
		if remove {
			want = 1
		}
		if control.ClearCalls != want {
			t.Fatalf("remove=%v: clear calls = %d, want %d", remove, control.ClearCalls, want)
		}
	}
}

func TestValidateElement_NilControl(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	el := testsupport.Input(form, nil)
	opts := model.DefaultOptions()
	opts.ForceValidation = true

	if !h.engine.ValidateElement(testsupport.Context(), form, nil, el, &opts) {
		t.Fatalf("expected element without control to pass")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestValidateForm_Boundaries(t *testing.T) {
	h := newHarness(t)
	ctx := testsupport.Context()

	if h.engine.ValidateForm(ctx, nil) {
		t.Fatalf("expected nil root to be invalid")
	}

	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	plain := &testsupport.Form{}
	root := testsupport.FormElement(plain, testsupport.Input(plain, control))
	if !h.engine.ValidateForm(ctx, root) {
		t.Fatalf("expected form without options to be valid")
	}

	disabled := optedIn(func(o *model.FormValidationOptions) { o.Disabled = true })
	root = testsupport.FormElement(disabled, testsupport.Input(disabled, control))
	if !h.engine.ValidateForm(ctx, root) {
		t.Fatalf("expected disabled form to be valid")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestValidateForm_RequiredPristineInput(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	control.IsPristine = true
	input := testsupport.Input(form, control)
	root := testsupport.FormElement(form, input)

	if h.engine.ValidateForm(testsupport.Context(), root) {
		t.Fatalf("expected form to be invalid")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: input, Message: requiredMessage},
	}, h.calls(t))
}

func TestValidateForm_FoldsCustomControls(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	valid := testsupport.Input(form, &testsupport.Control{IsPristine: true})

	customControl := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	custom := &testsupport.Element{
		Tag:    "div",
		Attrs:  map[string]string{host.AttrCustomControl: ""},
		Width:  100,
		Height: 20,
		Owner:  form,
		Model:  customControl,
	}
	root := testsupport.FormElement(form, valid)
	root.Custom = []host.Element{custom}

	if h.engine.ValidateForm(testsupport.Context(), root) {
		t.Fatalf("expected invalid custom control to fail the form")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallValid, Element: valid},
		{Method: testsupport.CallInvalid, Element: custom, Message: requiredMessage},
	}, h.calls(t))
}

func TestValidateForm_ChildCollectionPrecedence(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	fromAll := testsupport.Input(form, &testsupport.Control{})
	fromNative := testsupport.Input(form, testsupport.InvalidControl(testsupport.Active(model.ErrorRequired)))

	root := testsupport.FormElement(form, fromNative)
	root.All = []host.Element{fromAll}

	if !h.engine.ValidateForm(testsupport.Context(), root) {
		t.Fatalf("expected the all-elements collection to take precedence")
	}
	assertCalls(t, []testsupport.Call{{Method: testsupport.CallValid, Element: fromAll}}, h.calls(t))
}

// A nested sub-form is validated and rendered, but its result only affects
// the parent when the sub-form is also registered as a control of the parent.
func TestValidateForm_SubFormResultNotFolded(t *testing.T) {
	h := newHarness(t)
	outer := optedIn(nil)
	inner := optedIn(nil)

	innerInput := testsupport.Input(inner, testsupport.InvalidControl(testsupport.Active(model.ErrorRequired)))
	sub := testsupport.FormElement(inner, innerInput)
	sub.Tag = "div"
	sub.Attrs = map[string]string{host.AttrSubForm: ""}
	outerInput := testsupport.Input(outer, &testsupport.Control{})
	root := testsupport.FormElement(outer, outerInput, sub)

	if !h.engine.ValidateForm(testsupport.Context(), root) {
		t.Fatalf("expected sub-form result not to propagate to the parent")
	}
	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallValid, Element: outerInput},
		{Method: testsupport.CallInvalid, Element: innerInput, Message: requiredMessage},
	}, h.calls(t))
}

func TestValidateForm_SelfReferenceTerminates(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	input := testsupport.Input(form, &testsupport.Control{})
	root := testsupport.FormElement(form, input)
	root.Native = append(root.Native, root)

	if !h.engine.ValidateForm(testsupport.Context(), root) {
		t.Fatalf("expected valid form")
	}
	assertCalls(t, []testsupport.Call{{Method: testsupport.CallValid, Element: input}}, h.calls(t))
}

func TestResetForm_Nested(t *testing.T) {
	h := newHarness(t)
	outer := optedIn(nil)
	inner := optedIn(nil)

	outerControl := &testsupport.Control{}
	innerControl := &testsupport.Control{}
	subControl := &testsupport.Control{}

	sub := testsupport.FormElement(inner, testsupport.Input(inner, innerControl))
	sub.Model = subControl
	root := testsupport.FormElement(outer, testsupport.Input(outer, outerControl), sub, &testsupport.Element{Tag: "span"})

	h.engine.ResetForm(root)

	if !outerControl.IsPristine || !innerControl.IsPristine {
		t.Fatalf("expected every leaf control to be pristine: outer=%v inner=%v", outerControl.IsPristine, innerControl.IsPristine)
	}
	if subControl.PristineCalls != 0 {
		t.Fatalf("expected sub-form control to be recursed into, not reset")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestResetForm_ThenValidateDoesNothing(t *testing.T) {
	h := newHarness(t)
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	input := testsupport.Input(form, control)
	root := testsupport.FormElement(form, input)

	h.engine.ResetForm(root)
	if !h.engine.ValidateElement(testsupport.Context(), form, control, input, nil) {
		t.Fatalf("expected reset control to be skipped")
	}
	assertCalls(t, nil, h.calls(t))
}

func TestResetElement(t *testing.T) {
	h := newHarness(t)
	el := testsupport.Input(optedIn(nil), nil)

	h.engine.ResetElement(el)
	h.engine.ResetElement(nil)

	assertCalls(t, []testsupport.Call{{Method: testsupport.CallDefault, Element: el}}, h.calls(t))
}

func TestSetElementValidationError_RawMessage(t *testing.T) {
	h := newHarness(t)
	el := testsupport.Input(optedIn(nil), nil)

	done := h.engine.SetElementValidationError(testsupport.Context(), el, "", "Rejected by server")
	<-done

	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: "Rejected by server"},
	}, h.adapter.Calls())
	if got := h.messages.Lookups(); len(got) != 0 {
		t.Fatalf("expected no lookups for raw messages, got %v", got)
	}
}

func TestSetElementValidationError_LookupFailureFallsBack(t *testing.T) {
	h := newHarness(t)
	h.messages.Err = errors.New("catalog offline")
	el := testsupport.Input(optedIn(nil), nil)

	<-h.engine.SetElementValidationError(testsupport.Context(), el, model.ErrorRequired, "")

	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: messages.GenericMessage},
	}, h.adapter.Calls())
}

func TestSetElementValidationError_StaleRenderDropped(t *testing.T) {
	h := newHarness(t)
	gate := make(chan struct{})
	h.messages.Gates = map[model.ErrorKind]chan struct{}{model.ErrorRequired: gate}
	el := testsupport.Input(optedIn(nil), nil)

	pending := h.engine.SetElementValidationError(testsupport.Context(), el, model.ErrorRequired, "")
	h.engine.ResetElement(el)
	close(gate)
	<-pending

	assertCalls(t, []testsupport.Call{{Method: testsupport.CallDefault, Element: el}}, h.calls(t))
}

func TestSetElementValidationError_LatestAsyncRenderWins(t *testing.T) {
	h := newHarness(t)
	gate := make(chan struct{})
	h.messages.Gates = map[model.ErrorKind]chan struct{}{model.ErrorRequired: gate}
	el := testsupport.Input(optedIn(nil), nil)
	ctx := testsupport.Context()

	slow := h.engine.SetElementValidationError(ctx, el, model.ErrorRequired, "")
	fast := h.engine.SetElementValidationError(ctx, el, model.ErrorMinLength, "")
	<-fast
	close(gate)
	<-slow

	assertCalls(t, []testsupport.Call{
		{Method: testsupport.CallInvalid, Element: el, Message: "Please enter a longer value"},
	}, h.calls(t))
}

func TestNew_DefaultsToEmbeddedCatalogs(t *testing.T) {
	rec := &testsupport.RecordingAdapter{}
	engine := validation.New(nil, rec)
	form := optedIn(nil)
	control := testsupport.InvalidControl(testsupport.Active(model.ErrorRequired))
	el := testsupport.Input(form, control)

	engine.ValidateElement(testsupport.Context(), form, control, el, nil)
	engine.Wait()

	calls := rec.Calls()
	if len(calls) != 1 || calls[0].Method != testsupport.CallInvalid {
		t.Fatalf("expected a single invalid render, got %+v", calls)
	}
	if calls[0].Message == "" || calls[0].Message == messages.GenericMessage {
		t.Fatalf("expected catalog message, got %q", calls[0].Message)
	}
	if engine.Adapter() != rec {
		t.Fatalf("expected adapter accessor to return the configured adapter")
	}
}
