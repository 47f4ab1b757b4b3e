package animations

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/adrg/frontmatter"
	"golang.org/x/sync/errgroup"
)

const (
	definitionFileExt     = ".js"
	definitionFileLongExt = ".anim.js"
	defaultLoaderWorkers  = 4
)

// ParseDefinitionFile reads a definition file: YAML front matter with the
// definition metadata and fields, followed by the code template. The key
// falls back to the file name without its extension.
func ParseDefinitionFile(name string, source []byte) (RegisterInput, error) {
	var input RegisterInput
	body, err := frontmatter.Parse(bytes.NewReader(source), &input)
	if err != nil {
		return RegisterInput{}, fmt.Errorf("parse definition %s: %w", name, err)
	}
	if strings.TrimSpace(input.Key) == "" {
		input.Key = keyFromFileName(name)
	}
	input.Code = strings.TrimLeft(string(body), "\r\n")
	return input, nil
}

// LoadDir parses every definition file found under root in fsys. Files are
// parsed concurrently and returned in path order.
func LoadDir(ctx context.Context, fsys fs.FS, root string) ([]RegisterInput, error) {
	if root == "" {
		root = "."
	}
	var paths []string
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), definitionFileExt) {
			return nil
		}
		paths = append(paths, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk definitions %s: %w", root, err)
	}
	sort.Strings(paths)

	inputs := make([]RegisterInput, len(paths))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(defaultLoaderWorkers)
	for i, p := range paths {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			source, err := fs.ReadFile(fsys, p)
			if err != nil {
				return fmt.Errorf("read definition %s: %w", p, err)
			}
			input, err := ParseDefinitionFile(p, source)
			if err != nil {
				return err
			}
			inputs[i] = input
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func keyFromFileName(name string) string {
	base := path.Base(name)
	if trimmed, ok := strings.CutSuffix(base, definitionFileLongExt); ok {
		return trimmed
	}
	return strings.TrimSuffix(base, definitionFileExt)
}
