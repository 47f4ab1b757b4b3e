package editor

import (
	"context"
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// RedirectResolver builds the URL editors return to after saving.
type RedirectResolver interface {
	ParentURL(ctx context.Context, parentID string) (string, error)
}

// URLKitRedirectOptions configures the go-urlkit backed resolver.
type URLKitRedirectOptions struct {
	Manager *urlkit.RouteManager
	// Group is a dotted group path, e.g. "frontend" or "frontend.es".
	Group   string
	Route   string
	IDParam string
}

// URLKitRedirect resolves the parent page URL through a go-urlkit route.
type URLKitRedirect struct {
	manager *urlkit.RouteManager
	group   string
	route   string
	idParam string
}

// NewURLKitRedirect constructs a resolver backed by go-urlkit.
func NewURLKitRedirect(opts URLKitRedirectOptions) *URLKitRedirect {
	if strings.TrimSpace(opts.IDParam) == "" {
		opts.IDParam = "id"
	}
	return &URLKitRedirect{
		manager: opts.Manager,
		group:   strings.TrimSpace(opts.Group),
		route:   strings.TrimSpace(opts.Route),
		idParam: strings.TrimSpace(opts.IDParam),
	}
}

// ParentURL returns the URL of parentID, or "" when no route is configured.
func (r *URLKitRedirect) ParentURL(_ context.Context, parentID string) (string, error) {
	if r == nil || r.manager == nil || r.group == "" || r.route == "" {
		return "", nil
	}
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return "", nil
	}

	group, err := r.groupForPath(r.group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(group, r.route)
	if err != nil {
		return "", err
	}
	return builder.WithParam(r.idParam, parentID).Build()
}

func (r *URLKitRedirect) groupForPath(path string) (*urlkit.Group, error) {
	parts := strings.Split(path, ".")
	current, err := lookupGroup(r.manager, parts[0])
	if err != nil {
		return nil, err
	}
	for _, part := range parts[1:] {
		current, err = lookupChildGroup(current, part)
		if err != nil {
			return nil, err
		}
	}
	if current == nil {
		return nil, fmt.Errorf("editor: route group %q not found", path)
	}
	return current, nil
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("editor: urlkit route %q: %v", route, rec)
		}
	}()
	return group.Builder(route), nil
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("editor: route group %q not found", name)
		}
	}()
	return manager.Group(name), nil
}

func lookupChildGroup(parent *urlkit.Group, name string) (group *urlkit.Group, err error) {
	if parent == nil {
		return nil, fmt.Errorf("editor: parent of group %q not found", name)
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("editor: child group %q not found", name)
		}
	}()
	return parent.Group(name), nil
}
