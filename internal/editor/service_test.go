package editor_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	urlkit "github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/animations"
	"github.com/goliatone/go-cms-animations/internal/bindings"
	"github.com/goliatone/go-cms-animations/internal/editor"
	"github.com/goliatone/go-cms-animations/internal/options"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	definitions animations.Service
	bindings    bindings.Repository
	editor      *editor.Service
}

func newFixture(t *testing.T, opts ...editor.Option) fixture {
	t.Helper()
	ctx := context.Background()

	description := "Slides the **section** in."
	icon := "arrow-right"
	defs := animations.NewService(animations.NewMemoryDefinitionRepository())
	inputs := []animations.RegisterInput{
		{
			Key:               "slide-in",
			Label:             "Slide in",
			Description:       &description,
			Icon:              &icon,
			AllowedBlockTypes: []string{"hero"},
			Fields: []animation.Field{
				{ID: "dur", Widget: "number", Label: "Duration", Default: "1"},
				{ID: "ease", Widget: "textfield", Label: "Ease", Default: "power1"},
			},
			Code: "gsap.to('[section_id]', {x: 100, duration: [dur], ease: '[ease]'})",
		},
		{
			Key:               "fade",
			Label:             "Fade",
			AllowedBlockTypes: []string{"hero", "gallery"},
			Fields:            []animation.Field{{ID: "dur", Widget: "number", Label: "Duration", Default: "0.5"}},
			Code:              "gsap.from('[section_id]', {opacity: 0, duration: [dur]})",
		},
		{
			Key:               "retired",
			Label:             "Retired",
			Status:            animation.StatusDisabled,
			AllowedBlockTypes: []string{"hero"},
			Code:              "noop()",
		},
	}
	if err := animations.EnsureDefinitions(ctx, defs, inputs); err != nil {
		t.Fatalf("seed definitions: %v", err)
	}

	store := bindings.NewMemoryRepository()
	opts = append([]editor.Option{editor.WithClock(func() time.Time { return fixedNow })}, opts...)
	return fixture{
		definitions: defs,
		bindings:    store,
		editor:      editor.NewService(defs, store, opts...),
	}
}

func (f fixture) bind(t *testing.T, blockID, key, raw string) {
	t.Helper()
	if _, err := f.bindings.Save(context.Background(), &animation.Binding{BlockID: blockID, BlockType: "hero", AnimationKey: key, Options: raw}); err != nil {
		t.Fatalf("bind: %v", err)
	}
}

func hero(id string) editor.BlockContext {
	return editor.BlockContext{BlockID: id, BlockType: "hero", Title: "<b>Opening</b> scene", ParentID: "99"}
}

func TestEligibleAnimationsExcludesDisabled(t *testing.T) {
	f := newFixture(t)
	eligible, err := f.editor.EligibleAnimations(context.Background(), "hero")
	if err != nil {
		t.Fatalf("eligible: %v", err)
	}
	if len(eligible) != 2 || eligible[0].Key != "fade" || eligible[1].Key != "slide-in" {
		t.Fatalf("unexpected eligible set %+v", eligible)
	}

	none, err := f.editor.EligibleAnimations(context.Background(), "quote")
	if err != nil || len(none) != 0 {
		t.Fatalf("expected empty result without error, got %v (%v)", none, err)
	}
}

func TestCurrentSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if key, ok, err := f.editor.CurrentSelection(ctx, "1"); err != nil || ok || key != "" {
		t.Fatalf("expected no selection, got %q %v %v", key, ok, err)
	}
	f.bind(t, "1", "fade", "options=dur=2")
	if key, ok, err := f.editor.CurrentSelection(ctx, "1"); err != nil || !ok || key != "fade" {
		t.Fatalf("expected fade, got %q %v %v", key, ok, err)
	}
}

func TestFieldDescriptorsUseStoredValuesForSameAnimation(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "1", "slide-in", "options=dur=3|unknown=x")

	fields, err := f.editor.FieldDescriptors(context.Background(), "slide-in", "1")
	if err != nil {
		t.Fatalf("descriptors: %v", err)
	}
	want := []editor.FieldDescriptor{
		{ID: "dur", Widget: "number", Input: "number", Label: "Duration", Value: "3", FromBinding: true},
		{ID: "ease", Widget: "textfield", Input: "text", Label: "Ease", Value: "power1"},
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d descriptors, got %+v", len(want), fields)
	}
	for i := range want {
		if fields[i] != want[i] {
			t.Fatalf("descriptor %d: got %+v, want %+v", i, fields[i], want[i])
		}
	}
}

func TestFieldDescriptorsIgnoreStaleOptions(t *testing.T) {
	f := newFixture(t)
	f.bind(t, "1", "slide-in", "options=dur=3")

	fields, err := f.editor.FieldDescriptors(context.Background(), "fade", "1")
	if err != nil {
		t.Fatalf("descriptors: %v", err)
	}
	if len(fields) != 1 || fields[0].Value != "0.5" || fields[0].FromBinding {
		t.Fatalf("expected default for stale selection, got %+v", fields)
	}

	if _, err := f.editor.FieldDescriptors(context.Background(), "missing", "1"); !animation.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestInvalidBlockContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.editor.BuildSelectForm(ctx, editor.BlockContext{BlockType: "hero"}, nil)
	if !errors.Is(err, editor.ErrInvalidBlockContext) {
		t.Fatalf("expected invalid block context, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if _, _, err := f.editor.CurrentSelection(ctx, " "); !errors.Is(err, editor.ErrInvalidBlockContext) {
		t.Fatalf("expected invalid block context, got %v", err)
	}
	if _, err := f.editor.Submit(ctx, editor.SubmitInput{Block: editor.BlockContext{BlockID: "1"}}); !errors.Is(err, editor.ErrInvalidBlockContext) {
		t.Fatalf("expected invalid block context, got %v", err)
	}
}

func TestBuildSelectFormEmptyState(t *testing.T) {
	f := newFixture(t)
	form, err := f.editor.BuildSelectForm(context.Background(), editor.BlockContext{BlockID: "5", BlockType: "quote"}, nil)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if !form.Empty || form.Message != "There are currently no animations available for this story section type." {
		t.Fatalf("expected empty state, got %+v", form)
	}
	if len(form.Options) != 0 || len(form.Fields) != 0 {
		t.Fatalf("expected no selector in empty state, got %+v", form)
	}
}

func TestBuildSelectFormSelection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bind(t, "1", "slide-in", "options=dur=4")

	form, err := f.editor.BuildSelectForm(ctx, hero("1"), nil)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.SectionLabel != "Opening scene" {
		t.Fatalf("unexpected section label %q", form.SectionLabel)
	}
	if len(form.Options) != 3 || form.Options[0] != editor.NoneChoice() || form.Options[0].Label != "-Select an Animation-" {
		t.Fatalf("unexpected options %+v", form.Options)
	}
	if form.Selected != "slide-in" || len(form.Fields) != 2 || form.Fields[0].Value != "4" {
		t.Fatalf("expected stored selection with stored values, got %+v", form)
	}
	if form.Details == nil || !strings.Contains(form.Details.DescriptionHTML, "<strong>section</strong>") || form.Details.Icon != "arrow-right" {
		t.Fatalf("unexpected details %+v", form.Details)
	}

	pending := "fade"
	form, err = f.editor.BuildSelectForm(ctx, hero("1"), &pending)
	if err != nil {
		t.Fatalf("form with pending: %v", err)
	}
	if form.Selected != "fade" || len(form.Fields) != 1 || form.Fields[0].Value != "0.5" {
		t.Fatalf("expected pending selection with defaults, got %+v", form)
	}

	cleared := ""
	form, err = f.editor.BuildSelectForm(ctx, hero("1"), &cleared)
	if err != nil {
		t.Fatalf("form with cleared selection: %v", err)
	}
	if form.Selected != "" || form.Fields != nil || form.Details != nil {
		t.Fatalf("expected no fields without a selection, got %+v", form)
	}

	retired := "retired"
	form, err = f.editor.BuildSelectForm(ctx, hero("1"), &retired)
	if err != nil {
		t.Fatalf("form with retired selection: %v", err)
	}
	if form.Selected != "" || form.Fields != nil {
		t.Fatalf("expected ineligible selection to be dropped, got %+v", form)
	}
}

func TestSubmitStoresEncodedOptions(t *testing.T) {
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{{
			Name:    "frontend",
			BaseURL: "https://example.com",
			Paths:   map[string]string{"page": "/pages/:id"},
		}},
	})
	f := newFixture(t, editor.WithRedirectResolver(editor.NewURLKitRedirect(editor.URLKitRedirectOptions{
		Manager: manager,
		Group:   "frontend",
		Route:   "page",
	})))
	ctx := context.Background()

	result, err := f.editor.Submit(ctx, editor.SubmitInput{
		Block:        hero("1"),
		AnimationKey: "slide-in",
		Values:       options.Values{{Key: "ease", Value: "linear"}, {Key: "dur", Value: "2"}, {Key: "form_token", Value: "abc"}},
		RawInput:     map[string]string{"dur": "2.5"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != editor.StatusSaved || result.Message != "Animation was saved successfully." {
		t.Fatalf("unexpected result %+v", result)
	}
	if result.RedirectURL != "https://example.com/pages/99" {
		t.Fatalf("unexpected redirect %q", result.RedirectURL)
	}

	stored, err := f.bindings.GetByBlockID(ctx, "1")
	if err != nil {
		t.Fatalf("get binding: %v", err)
	}
	if stored.AnimationKey != "slide-in" || stored.Options != "options=ease=linear|dur=2.5" {
		t.Fatalf("unexpected binding %+v", stored)
	}
	if !stored.UpdatedAt.Equal(fixedNow) {
		t.Fatalf("expected clock timestamp, got %s", stored.UpdatedAt)
	}
}

func TestSubmitNoneClearsBinding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bind(t, "1", "slide-in", "options=dur=4")

	for _, key := range []string{"", "vanished"} {
		result, err := f.editor.Submit(ctx, editor.SubmitInput{Block: hero("1"), AnimationKey: key})
		if err != nil || result.Status != editor.StatusSaved {
			t.Fatalf("submit %q: %+v %v", key, result, err)
		}
		stored, err := f.bindings.GetByBlockID(ctx, "1")
		if err != nil {
			t.Fatalf("get binding: %v", err)
		}
		if stored.Bound() || stored.Options != "" {
			t.Fatalf("expected cleared binding, got %+v", stored)
		}
	}
}

func TestSubmitRejectsInvalidValues(t *testing.T) {
	f := newFixture(t)
	result, err := f.editor.Submit(context.Background(), editor.SubmitInput{
		Block:        hero("1"),
		AnimationKey: "slide-in",
		Values:       options.Values{{Key: "dur", Value: "slow"}},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Status != editor.StatusWarning || len(result.Issues) == 0 {
		t.Fatalf("expected warning with issues, got %+v", result)
	}
	if _, err := f.bindings.GetByBlockID(context.Background(), "1"); !animation.IsNotFound(err) {
		t.Fatalf("expected nothing stored, got %v", err)
	}
}

type failingBindings struct {
	bindings.Repository
}

func (failingBindings) Save(context.Context, *animation.Binding) (*animation.Binding, error) {
	return nil, errors.New("disk full")
}

func TestSubmitWarnings(t *testing.T) {
	f := newFixture(t, editor.WithFieldSupport(func(blockType string) bool { return blockType != "quote" }))
	ctx := context.Background()

	result, err := f.editor.Submit(ctx, editor.SubmitInput{Block: editor.BlockContext{BlockID: "3", BlockType: "quote"}, AnimationKey: "fade"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	missing := "There was a problem saving your animation. Please contact an administrator. No animation field was present."
	if result.Status != editor.StatusWarning || result.Message != missing {
		t.Fatalf("unexpected missing-field result %+v", result)
	}

	broken := editor.NewService(f.definitions, failingBindings{Repository: bindings.NewMemoryRepository()})
	result, err = broken.Submit(ctx, editor.SubmitInput{Block: hero("1"), AnimationKey: "fade"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	generic := "There was a problem saving your animation. Please contact an administrator."
	if result.Status != editor.StatusWarning || result.Message != generic {
		t.Fatalf("unexpected generic failure result %+v", result)
	}
}

func TestSubmitRefusesIneligibleAnimations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.bind(t, "1", "fade", "options=dur=2")

	cases := []struct {
		name  string
		block editor.BlockContext
		key   string
	}{
		{"disabled", hero("1"), "retired"},
		{"block type not allowed", editor.BlockContext{BlockID: "1", BlockType: "gallery"}, "slide-in"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := f.editor.Submit(ctx, editor.SubmitInput{Block: tc.block, AnimationKey: tc.key})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			want := "The selected animation is not available for this story section type."
			if result.Status != editor.StatusWarning || result.Message != want {
				t.Fatalf("unexpected result %+v", result)
			}
			stored, err := f.bindings.GetByBlockID(ctx, "1")
			if err != nil {
				t.Fatalf("get binding: %v", err)
			}
			if stored.AnimationKey != "fade" || stored.Options != "options=dur=2" {
				t.Fatalf("expected stored binding untouched, got %+v", stored)
			}
		})
	}
}

func TestSubmitAcceptsBlankNumericValue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	result, err := f.editor.Submit(ctx, editor.SubmitInput{
		Block:        hero("1"),
		AnimationKey: "slide-in",
		Values:       options.Values{{Key: "dur", Value: ""}, {Key: "ease", Value: "linear"}},
	})
	if err != nil || result.Status != editor.StatusSaved {
		t.Fatalf("expected saved result, got %+v (%v)", result, err)
	}
	stored, err := f.bindings.GetByBlockID(ctx, "1")
	if err != nil {
		t.Fatalf("get binding: %v", err)
	}
	if stored.Options != "options=dur=|ease=linear" {
		t.Fatalf("unexpected stored options %q", stored.Options)
	}
}

func TestDetails(t *testing.T) {
	f := newFixture(t)
	details, err := f.editor.Details(context.Background(), "fade")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Label != "Fade" || details.DescriptionHTML != "" {
		t.Fatalf("unexpected details %+v", details)
	}
}
