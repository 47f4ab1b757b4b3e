package animations_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	animations "github.com/goliatone/go-cms-animations"
	"github.com/goliatone/go-cms-animations/animation"
	animationscmd "github.com/goliatone/go-cms-animations/internal/commands/animations"
	"github.com/goliatone/go-cms-animations/pkg/testsupport"
)

type fixedSource struct{}

func (fixedSource) IntN(int) int { return 1 }

func moduleConfig(name string) animations.Config {
	cfg := animations.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.Driver = "sqlite3"
	cfg.Storage.DSN = "file:" + name + "?mode=memory&cache=shared"
	cfg.Storage.AutoMigrate = true
	cfg.Animations.FieldBlockTypes = []string{"hero"}
	cfg.Animations.Definitions = []animations.DefinitionConfig{{
		Key:               "slide-in",
		Label:             "Slide in",
		AllowedBlockTypes: []string{"hero"},
		Fields:            []animation.Field{{ID: "dur", Widget: "number", Label: "Duration", Default: "1"}},
		Code:              "tl=[timeline]; gsap.to('[section_id]',{x:[dur]})",
	}}
	return cfg
}

func TestModulePageScriptMatchesGolden(t *testing.T) {
	ctx := context.Background()
	module, err := animations.New(moduleConfig("animations-golden"), animations.WithRandomSource(fixedSource{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if err := module.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	err = module.Commands().SaveBinding.Execute(ctx, animations.SaveBindingCommand{
		BlockID:      "7",
		BlockType:    "hero",
		AnimationKey: "slide-in",
		Options:      animations.OptionValues{{Key: "dur", Value: "2"}},
	})
	if err != nil {
		t.Fatalf("save binding: %v", err)
	}

	page := &animations.Page{ID: "1", Fields: map[string][]*animations.Block{
		"story_blocks": {{ID: "7", Type: "hero"}, {ID: "8", Type: "hero"}},
	}}
	script, err := module.PageScript(ctx, page)
	if err != nil {
		t.Fatalf("page script: %v", err)
	}

	golden, err := testsupport.LoadFixture("testdata/page_script.golden")
	if err != nil {
		t.Fatalf("load golden: %v", err)
	}
	if want := strings.TrimRight(string(golden), "\n"); script != want {
		t.Fatalf("page script mismatch\nwant:\n%s\ngot:\n%s", want, script)
	}
}

func TestModuleSaveBindingReportsWarning(t *testing.T) {
	ctx := context.Background()
	cfg := animations.DefaultConfig()
	cfg.Animations.FieldBlockTypes = []string{"hero"}
	cfg.Animations.Definitions = moduleConfig("unused").Animations.Definitions

	module, err := animations.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := module.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	err = module.Commands().SaveBinding.Execute(ctx, animations.SaveBindingCommand{
		BlockID:      "8",
		BlockType:    "quote",
		AnimationKey: "slide-in",
	})
	if !errors.Is(err, animationscmd.ErrBindingNotSaved) {
		t.Fatalf("expected ErrBindingNotSaved for block type without the field, got %v", err)
	}
}

func TestMigrationsFSListsEmbeddedFiles(t *testing.T) {
	entries, err := animations.GetMigrationsFS().ReadDir("data/sql/migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected up and down migration, got %d", len(entries))
	}
}

func TestLoadConfigRejectsMissingFile(t *testing.T) {
	if _, err := animations.LoadConfig("testdata/missing.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestModulePageScriptsPerPageBindings(t *testing.T) {
	ctx := context.Background()
	cfg := moduleConfig("animations-two-pages")
	cfg.Animations.FieldBlockTypes = []string{"hero", "gallery"}
	cfg.Animations.Definitions = append(cfg.Animations.Definitions, animations.DefinitionConfig{
		Key:               "fade",
		Label:             "Fade",
		AllowedBlockTypes: []string{"gallery"},
		Code:              "gsap.from('[section_id]',{opacity:0})",
	})
	if !cfg.Cache.Enabled {
		t.Fatal("expected cache enabled by default")
	}

	module, err := animations.New(cfg, animations.WithRandomSource(fixedSource{}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	if err := module.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	saves := []animations.SaveBindingCommand{
		{BlockID: "7", BlockType: "hero", AnimationKey: "slide-in", Options: animations.OptionValues{{Key: "dur", Value: "1"}}},
		{BlockID: "9", BlockType: "gallery", AnimationKey: "fade"},
	}
	for _, cmd := range saves {
		if err := module.Commands().SaveBinding.Execute(ctx, cmd); err != nil {
			t.Fatalf("save %s: %v", cmd.BlockID, err)
		}
	}

	cases := []struct {
		page  *animations.Page
		want  string
		block string
	}{
		{&animations.Page{ID: "1", Fields: map[string][]*animations.Block{"story_blocks": {{ID: "7", Type: "hero"}}}}, "gsap.to('#paragraph-id-7',{x:1})", "7"},
		{&animations.Page{ID: "2", Fields: map[string][]*animations.Block{"story_blocks": {{ID: "9", Type: "gallery"}}}}, "gsap.from('#paragraph-id-9',{opacity:0})", "9"},
	}
	for _, tc := range cases {
		script, err := module.PageScript(ctx, tc.page)
		if err != nil {
			t.Fatalf("page %s: %v", tc.page.ID, err)
		}
		if !strings.Contains(script, tc.want) {
			t.Fatalf("page %s: expected %q in %q", tc.page.ID, tc.want, script)
		}
	}

	heroes, err := module.Editor().EligibleAnimations(ctx, "hero")
	if err != nil || len(heroes) != 1 || heroes[0].Key != "slide-in" {
		t.Fatalf("unexpected hero animations %+v (%v)", heroes, err)
	}
	galleries, err := module.Editor().EligibleAnimations(ctx, "gallery")
	if err != nil || len(galleries) != 1 || galleries[0].Key != "fade" {
		t.Fatalf("unexpected gallery animations %+v (%v)", galleries, err)
	}
}
