package assembler

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dop251/goja"

	"github.com/goliatone/go-cms-animations/animation"
)

const workedTemplate = "tl=[timeline]; gsap.to('[section_id]',{x:[dur]})"

func slideDefinition() *animation.Definition {
	return &animation.Definition{
		Key:    "slide-in",
		Label:  "Slide in",
		Status: animation.StatusEnabled,
		Fields: []animation.Field{{ID: "dur", Widget: "number", Label: "Duration", Default: "1"}},
		Code:   workedTemplate,
	}
}

func bound(id, key, opts string) *Block {
	return &Block{ID: id, Type: "hero", Binding: &animation.Binding{BlockID: id, AnimationKey: key, Options: opts}}
}

func TestAssembleWorkedExample(t *testing.T) {
	a := New(WithRandomSource(&sequenceSource{values: []int{1, 2, 3, 4, 5, 6, 7}}))
	got := a.Assemble(
		[]*Block{bound("42", "slide-in", "options=dur=2")},
		map[string]*animation.Definition{"slide-in": slideDefinition()},
	)

	want := "<script>" +
		"tl=abcdefg; gsap.to('#paragraph-id-42',{x:2})" +
		refreshSnippet("abcdefg") +
		eagerImagesSnippet("paragraph-id-42") +
		"</script>"
	if got != want {
		t.Fatalf("unexpected script\n got: %q\nwant: %q", got, want)
	}
}

func TestAssembleWrapsOnce(t *testing.T) {
	a := New()
	if got := a.Assemble(nil, nil); got != "<script></script>" {
		t.Fatalf("expected empty script element, got %q", got)
	}

	got := a.Assemble(
		[]*Block{bound("1", "slide-in", "options=dur=1"), bound("2", "slide-in", "options=dur=3")},
		map[string]*animation.Definition{"slide-in": slideDefinition()},
	)
	if strings.Count(got, "<script>") != 1 || strings.Count(got, "</script>") != 1 {
		t.Fatalf("expected a single script element, got %q", got)
	}
	if !strings.HasPrefix(got, "<script>") || !strings.HasSuffix(got, "</script>") {
		t.Fatalf("expected script to be wrapped, got %q", got)
	}
}

func TestAssembleSkipsUnboundAndUnknown(t *testing.T) {
	a := New()
	blocks := []*Block{
		{ID: "1", Type: "text"},
		{ID: "2", Type: "text", Binding: &animation.Binding{BlockID: "2"}},
		bound("3", "missing", "options=dur=1"),
	}
	if got := a.Assemble(blocks, map[string]*animation.Definition{"slide-in": slideDefinition()}); got != "<script></script>" {
		t.Fatalf("expected nothing emitted, got %q", got)
	}
}

func TestAssembleIgnoresUndeclaredAndMalformedOptions(t *testing.T) {
	a := New(WithRandomSource(&sequenceSource{values: []int{1}}))
	definitions := map[string]*animation.Definition{"slide-in": slideDefinition()}

	stale := a.Assemble([]*Block{bound("42", "slide-in", "options=delay=4")}, definitions)
	if !strings.Contains(stale, "{x:[dur]}") {
		t.Fatalf("expected unresolved token for stale options, got %q", stale)
	}

	malformed := a.Assemble([]*Block{bound("42", "slide-in", "garbage|||")}, definitions)
	if !strings.Contains(malformed, "{x:[dur]}") {
		t.Fatalf("expected unresolved token for malformed options, got %q", malformed)
	}
}

func TestAssembleEagerImagesCondition(t *testing.T) {
	definitions := map[string]*animation.Definition{"slide-in": slideDefinition()}
	cases := []struct {
		name   string
		prefix string
		id     string
		want   bool
	}{
		{name: "prefixed id", prefix: DefaultSectionPrefix, id: "42", want: true},
		{name: "anchor equals id", prefix: "", id: "42", want: false},
		{name: "numeric anchor", prefix: "", id: "007.5", want: false},
		{name: "text anchor", prefix: "", id: "Hero Block", want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := New(WithSectionPrefix(tc.prefix))
			got := a.Assemble([]*Block{bound(tc.id, "slide-in", "")}, definitions)
			if has := strings.Contains(got, "removeAttribute('loading')"); has != tc.want {
				t.Fatalf("eager images snippet present=%v, want %v (section %q)", has, tc.want, a.SectionID(tc.id))
			}
		})
	}
}

func TestCollectBlocksDepthFirst(t *testing.T) {
	shared := &Block{ID: "shared"}
	page := &Page{
		ID: "page-1",
		Fields: map[string][]*Block{
			"story_blocks": {
				{ID: "a", Children: map[string][]*Block{
					"catalog_items": {{ID: "a1"}, shared},
					"gallery":       {{ID: "ignored"}},
				}},
				{ID: "b"},
			},
			"catalog_items": {shared, {ID: "c"}},
			"sidebar":       {{ID: "skipped"}},
		},
	}

	var ids []string
	for _, block := range CollectBlocks(page, nil) {
		ids = append(ids, block.ID)
	}
	if got := strings.Join(ids, ","); got != "a,a1,shared,b,c" {
		t.Fatalf("unexpected traversal order %q", got)
	}

	ids = ids[:0]
	for _, block := range CollectBlocks(page, []string{"sidebar"}) {
		ids = append(ids, block.ID)
	}
	if got := strings.Join(ids, ","); got != "skipped" {
		t.Fatalf("unexpected traversal with custom fields %q", got)
	}
}

type stubSnapshotter struct {
	definitions []*animation.Definition
	err         error
	calls       int
	keys        []string
}

func (s *stubSnapshotter) ListByKeys(_ context.Context, keys []string) ([]*animation.Definition, error) {
	s.calls++
	s.keys = append([]string(nil), keys...)
	return s.definitions, s.err
}

func TestServicePageScriptUsesSingleSnapshot(t *testing.T) {
	store := &stubSnapshotter{definitions: []*animation.Definition{slideDefinition()}}
	svc := NewService(New(), store)

	page := &Page{ID: "p", Fields: map[string][]*Block{
		"story_blocks":  {bound("1", "slide-in", "options=dur=1"), bound("2", "fade", "")},
		"catalog_items": {bound("3", "slide-in", "options=dur=2")},
	}}
	script, err := svc.PageScript(context.Background(), page)
	if err != nil {
		t.Fatalf("PageScript: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("expected one snapshot query, got %d", store.calls)
	}
	if strings.Join(store.keys, ",") != "slide-in,fade" {
		t.Fatalf("unexpected snapshot keys %v", store.keys)
	}
	if strings.Count(script, "scrollTrigger.refresh()") != 2 {
		t.Fatalf("expected two animated blocks, got %q", script)
	}
}

func TestServicePageScriptWithoutBindings(t *testing.T) {
	store := &stubSnapshotter{}
	svc := NewService(nil, store)
	script, err := svc.PageScript(context.Background(), &Page{Fields: map[string][]*Block{"story_blocks": {{ID: "1"}}}})
	if err != nil {
		t.Fatalf("PageScript: %v", err)
	}
	if script != "<script></script>" || store.calls != 0 {
		t.Fatalf("expected empty script without queries, got %q (%d calls)", script, store.calls)
	}
}

func TestServicePageScriptPropagatesStorageErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(New(), &stubSnapshotter{err: boom})
	_, err := svc.PageScript(context.Background(), &Page{Fields: map[string][]*Block{"story_blocks": {bound("1", "slide-in", "")}}})
	if !errors.Is(err, boom) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

type stubLookup map[string]*animation.Binding

func (s stubLookup) GetByBlockID(_ context.Context, blockID string) (*animation.Binding, error) {
	if binding, ok := s[blockID]; ok {
		return binding, nil
	}
	return nil, &animation.NotFoundError{Resource: "animation_binding", Key: blockID}
}

func TestServicePageScriptAttachesStoredBindings(t *testing.T) {
	store := &stubSnapshotter{definitions: []*animation.Definition{slideDefinition()}}
	lookup := stubLookup{"2": {BlockID: "2", AnimationKey: "slide-in", Options: "options=dur=5"}}
	svc := NewService(New(WithSectionPrefix("")), store, WithBindingLookup(lookup))

	unbound := &Block{ID: "2", Type: "hero"}
	page := &Page{Fields: map[string][]*Block{"story_blocks": {{ID: "1"}, unbound}}}
	script, err := svc.PageScript(context.Background(), page)
	if err != nil {
		t.Fatalf("PageScript: %v", err)
	}
	if !strings.Contains(script, "gsap.to('#2',{x:5})") {
		t.Fatalf("expected stored binding to be rendered, got %q", script)
	}
	if unbound.Binding != nil {
		t.Fatal("expected caller's block to stay untouched")
	}
}

const jsHarness = `
var listeners = {};
var calls = [];
var refreshed = 0;
var document = {
  addEventListener: function(name, fn) {
    (listeners[name] = listeners[name] || []).push(fn);
  }
};
var gsap = {
  timeline: function(config) {
    var tl = {
      scrollTrigger: { refresh: function() { refreshed++; } },
      to: function(target, vars) { calls.push(target + ':' + vars.x); return tl; }
    };
    calls.push('timeline:' + config.scrollTrigger.trigger);
    return tl;
  },
  utils: {
    toArray: function(selector) {
      calls.push('toArray:' + selector);
      return [{ removeAttribute: function(name) { calls.push('remove:' + name); } }];
    }
  }
};
`

func TestAssembledScriptExecutes(t *testing.T) {
	definition := slideDefinition()
	definition.Code = "var [timeline] = gsap.timeline({scrollTrigger: {trigger: '[section_id]'}});\n[timeline].to('[section_id] .title', {x: [dur]});"

	a := New(WithRandomSource(&sequenceSource{values: []int{1, 2, 3, 4, 5, 6, 7, 8, 9}}))
	script := a.Assemble(
		[]*Block{bound("7", "slide-in", "options=dur=3"), bound("8", "slide-in", "options=dur=5")},
		map[string]*animation.Definition{"slide-in": definition},
	)
	body := strings.TrimSuffix(strings.TrimPrefix(script, "<script>"), "</script>")

	vm := goja.New()
	if _, err := vm.RunString(jsHarness); err != nil {
		t.Fatalf("harness: %v", err)
	}
	if _, err := vm.RunString(body); err != nil {
		t.Fatalf("assembled script failed: %v\n%s", err, body)
	}
	if _, err := vm.RunString(`listeners['section-loaded'].forEach(function(fn) { fn(); });`); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	if refreshed := vm.Get("refreshed").ToInteger(); refreshed != 2 {
		t.Fatalf("expected both timelines refreshed, got %d", refreshed)
	}

	exported, ok := vm.Get("calls").Export().([]any)
	if !ok {
		t.Fatalf("unexpected calls export %T", vm.Get("calls").Export())
	}
	var calls []string
	for _, call := range exported {
		calls = append(calls, call.(string))
	}
	want := []string{
		"timeline:#paragraph-id-7",
		"#paragraph-id-7 .title:3",
		"toArray:#paragraph-id-7 img",
		"remove:loading",
		"timeline:#paragraph-id-8",
		"#paragraph-id-8 .title:5",
		"toArray:#paragraph-id-8 img",
		"remove:loading",
	}
	if strings.Join(calls, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected calls\n got: %v\nwant: %v", calls, want)
	}
}
