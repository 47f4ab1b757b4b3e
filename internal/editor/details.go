package editor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"github.com/goliatone/go-cms-animations/animation"
)

// DescriptionRenderer turns a Markdown description into HTML.
type DescriptionRenderer interface {
	Render(markdown []byte) ([]byte, error)
}

// GoldmarkRenderer renders descriptions with goldmark and GFM. Raw HTML in
// descriptions is escaped.
type GoldmarkRenderer struct {
	engine goldmark.Markdown
}

// NewGoldmarkRenderer constructs the default description renderer.
func NewGoldmarkRenderer() *GoldmarkRenderer {
	return &GoldmarkRenderer{
		engine: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

func (r *GoldmarkRenderer) Render(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("render description: %w", err)
	}
	return buf.Bytes(), nil
}

func buildDetails(definition *animation.Definition, renderer DescriptionRenderer) (*Details, error) {
	details := &Details{
		Key:   definition.Key,
		Label: definition.Label,
	}
	if definition.Icon != nil {
		details.Icon = strings.TrimSpace(*definition.Icon)
	}
	if definition.Description == nil || strings.TrimSpace(*definition.Description) == "" {
		return details, nil
	}
	html, err := renderer.Render([]byte(*definition.Description))
	if err != nil {
		return nil, err
	}
	details.DescriptionHTML = strings.TrimSpace(string(html))
	return details, nil
}
