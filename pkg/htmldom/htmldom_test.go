package htmldom_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-autovalidate/pkg/config"
	"github.com/goliatone/go-autovalidate/pkg/host"
	"github.com/goliatone/go-autovalidate/pkg/htmldom"
	"github.com/goliatone/go-autovalidate/pkg/model"
	"github.com/goliatone/go-autovalidate/pkg/testsupport"
)

const signupHTML = `<!doctype html>
<html><body>
<form name="signup" data-autovalidate data-errors-allowed-on-submit="required" data-display-errors-after-submit="false">
  <div class="form-group">
    <input name="email" type="email" required>
  </div>
  <input name="nickname" minlength="3" maxlength="8" pattern="[a-z]+">
  <input name="age" type="number" min="18" max="99">
  <input name="token" type="hidden" required>
  <div style="display: none"><input name="ghost" required></div>
  <textarea name="bio" required></textarea>
  <select name="plan" required><option value="">Pick</option><option value="pro">Pro</option></select>
  <div name="rating" register-custom-form-control required></div>
  <div data-subform data-validate-non-visible-controls>
    <input name="street" required>
  </div>
  <button type="submit">Go</button>
</form>
<form name="plain"><input name="q" required></form>
</body></html>`

func parse(t *testing.T, src string, opts ...htmldom.Option) *htmldom.Document {
	t.Helper()
	doc, err := htmldom.ParseString(src, opts...)
	require.NoError(t, err)
	return doc
}

func control(t *testing.T, doc *htmldom.Document, form *htmldom.Element, name string) *htmldom.Element {
	t.Helper()
	el, ok := doc.Control(form, name)
	require.Truef(t, ok, "control %q not found", name)
	return el
}

func names(elements []host.Element) []string {
	out := make([]string, 0, len(elements))
	for _, el := range elements {
		out = append(out, el.(*htmldom.Element).Name())
	}
	return out
}

func TestParse_FormOptions(t *testing.T) {
	defaults := config.NewDefaults()
	require.NoError(t, defaults.Init(model.FormValidationOptions{RemoveExternalValidationErrorsOnSubmit: true}))
	doc := parse(t, signupHTML, htmldom.WithDefaults(defaults))

	forms := doc.Forms()
	require.Len(t, forms, 2)

	signup, ok := doc.Form("signup")
	require.True(t, ok)
	want := &model.FormValidationOptions{
		ErrorsAllowedOnSubmit:                  []model.ErrorKind{model.ErrorRequired},
		RemoveExternalValidationErrorsOnSubmit: true,
	}
	if diff := cmp.Diff(want, signup.Form().Options()); diff != "" {
		t.Fatalf("form options mismatch (-want +got):\n%s", diff)
	}

	street := control(t, doc, signup, "street")
	subOpts := street.Form().Options()
	require.NotNil(t, subOpts)
	assert.True(t, subOpts.ValidateNonVisibleControls)
	assert.Equal(t, []model.ErrorKind{model.ErrorRequired}, subOpts.ErrorsAllowedOnSubmit)

	plain, ok := doc.Form("plain")
	require.True(t, ok)
	assert.Nil(t, plain.Form().Options())

	detached, ok := doc.Form("missing")
	assert.False(t, ok)
	assert.Nil(t, detached)
}

func TestControls_Collections(t *testing.T) {
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")

	assert.Nil(t, signup.AllElements())
	assert.Equal(t,
		[]string{"email", "nickname", "age", "token", "ghost", "bio", "plan", ""},
		names(signup.Elements()),
	)
	assert.Equal(t, []string{"rating"}, names(signup.CustomControls()))

	children := signup.Elements()
	sub := children[len(children)-1]
	assert.True(t, host.IsForm(sub))
	require.NotNil(t, sub.Control())
	assert.Equal(t, []string{"street"}, names(sub.(*htmldom.Element).Elements()))

	submitButton := signup.ChildNodes()[len(signup.ChildNodes())-1]
	assert.Equal(t, "button", submitButton.TagName())
	assert.Nil(t, submitButton.Control())
}

func TestElement_Visibility(t *testing.T) {
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")

	for name, visible := range map[string]bool{
		"email": true,
		"token": false,
		"ghost": false,
		"bio":   true,
	} {
		w, h := control(t, doc, signup, name).Size()
		assert.Equalf(t, visible, w > 0 && h > 0, "visibility of %s", name)
	}
}

func TestControl_ConstraintFlags(t *testing.T) {
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")

	cases := []struct {
		name  string
		value string
		want  model.ErrorFlags
	}{
		{
			name: "email",
			want: model.NewErrorFlags(testsupport.Active(model.ErrorRequired), testsupport.Inactive(model.ErrorEmail)),
		},
		{
			name:  "email",
			value: "not-an-email",
			want:  model.NewErrorFlags(testsupport.Inactive(model.ErrorRequired), testsupport.Active(model.ErrorEmail)),
		},
		{
			name:  "email",
			value: "ada@example.com",
			want:  model.NewErrorFlags(testsupport.Inactive(model.ErrorRequired), testsupport.Inactive(model.ErrorEmail)),
		},
		{
			name:  "nickname",
			value: "AB",
			want: model.NewErrorFlags(
				testsupport.Active(model.ErrorMinLength),
				testsupport.Inactive(model.ErrorMaxLength),
				testsupport.Active(model.ErrorPattern),
			),
		},
		{
			name:  "nickname",
			value: "abcdefghij",
			want: model.NewErrorFlags(
				testsupport.Inactive(model.ErrorMinLength),
				testsupport.Active(model.ErrorMaxLength),
				testsupport.Inactive(model.ErrorPattern),
			),
		},
		{
			name:  "age",
			value: "12",
			want: model.NewErrorFlags(
				testsupport.Inactive(model.ErrorNumber),
				testsupport.Active(model.ErrorMin),
				testsupport.Inactive(model.ErrorMax),
			),
		},
		{
			name:  "age",
			value: "abc",
			want: model.NewErrorFlags(
				testsupport.Active(model.ErrorNumber),
				testsupport.Inactive(model.ErrorMin),
				testsupport.Inactive(model.ErrorMax),
			),
		},
		{
			name: "plan",
			want: model.NewErrorFlags(testsupport.Active(model.ErrorRequired)),
		},
		{
			name:  "plan",
			value: "pro",
			want:  model.NewErrorFlags(testsupport.Inactive(model.ErrorRequired)),
		},
		{
			name:  "bio",
			value: "Hello",
			want:  model.NewErrorFlags(testsupport.Inactive(model.ErrorRequired)),
		},
		{
			name: "rating",
			want: model.NewErrorFlags(testsupport.Active(model.ErrorRequired)),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name+"="+tc.value, func(t *testing.T) {
			el := control(t, doc, signup, tc.name)
			if tc.value != "" {
				require.NoError(t, doc.SetValue(el, tc.value))
				assert.False(t, el.Control().Pristine())
				assert.Equal(t, tc.value, el.Value())
			}
			if diff := cmp.Diff(tc.want, el.Control().ErrorFlags()); diff != "" {
				t.Fatalf("flags mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tc.want.Any(), el.Control().Invalid())
		})
	}
}

func TestControl_ExternalErrors(t *testing.T) {
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")
	email := control(t, doc, signup, "email")
	require.NoError(t, doc.SetValue(email, "ada@example.com"))
	require.NoError(t, doc.SetExternalError(email, "taken"))

	active, ok := email.Control().ErrorFlags().Get("taken")
	assert.True(t, ok)
	assert.True(t, active)
	assert.True(t, email.Control().Invalid())

	clearer, ok := email.Control().(host.ExternalErrorClearer)
	require.True(t, ok)
	clearer.RemoveAllExternalValidation()
	assert.False(t, email.Control().Invalid())

	button := signup.ChildNodes()[len(signup.ChildNodes())-1].(*htmldom.Element)
	assert.ErrorIs(t, doc.SetValue(button, "x"), htmldom.ErrNotControl)
}

func TestForm_AggregateStateAndPristine(t *testing.T) {
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")
	form := signup.Form()

	active := form.ErrorFlags().Active()
	assert.Contains(t, active, model.ErrorRequired)

	street := control(t, doc, signup, "street")
	sub := signup.Elements()[len(signup.Elements())-1]
	assert.True(t, sub.Control().Pristine())
	require.NoError(t, doc.SetValue(street, "Main St"))
	assert.False(t, sub.Control().Pristine())

	sub.Control().SetPristine()
	assert.True(t, street.Control().Pristine())
}

func TestDocument_SubmitAndDestroy(t *testing.T) {
	ctx := testsupport.Context()
	doc := parse(t, signupHTML)
	signup, _ := doc.Form("signup")
	street := control(t, doc, signup, "street")

	var got []host.EventType
	remove := signup.On(host.EventSubmit, func(_ context.Context, ev host.Event) {
		got = append(got, ev.Type)
		assert.Same(t, signup, ev.Target)
	})
	signup.On(host.EventDestroy, func(_ context.Context, ev host.Event) { got = append(got, ev.Type) })

	assert.False(t, street.Form().Submitted())
	require.NoError(t, signup.Submit(ctx))
	assert.True(t, signup.Form().Submitted())
	assert.True(t, street.Form().Submitted(), "sub-forms inherit the submitted state")

	doc.Destroy(ctx, signup)
	assert.Equal(t, []host.EventType{host.EventSubmit, host.EventDestroy}, got)

	remove()
	remove()
	assert.Zero(t, doc.ListenerCount(signup, host.EventSubmit))
	assert.Equal(t, 1, doc.ListenerCount(signup, host.EventDestroy))
}

func TestElement_Markup(t *testing.T) {
	doc := parse(t, `<form><div class="form-group"><input name="a" class="x"><span>after</span></div></form>`)
	form, _ := doc.Form("")
	input := control(t, doc, form, "a")

	input.AddClass("error", "x")
	assert.True(t, input.HasClass("error"))
	input.RemoveClass("error")
	assert.False(t, input.HasClass("error"))

	group, ok := input.Closest("form-group")
	require.True(t, ok)
	assert.True(t, group.HasClass("form-group"))

	require.NoError(t, input.InsertAfter(`<small class="error">bad</small>`))
	next, ok := input.NextElement()
	require.True(t, ok)
	assert.True(t, next.HasClass("error"))

	next.Remove()
	next, ok = input.NextElement()
	require.True(t, ok)
	assert.False(t, next.HasClass("error"))

	assert.True(t, strings.Contains(doc.String(), `<input name="a" class="x"/><span>after</span>`))
}
