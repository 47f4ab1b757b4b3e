package di

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-cms-animations/animation"
	"github.com/goliatone/go-cms-animations/internal/animations"
	"github.com/goliatone/go-cms-animations/internal/assembler"
	"github.com/goliatone/go-cms-animations/internal/bindings"
	animationscmd "github.com/goliatone/go-cms-animations/internal/commands/animations"
	"github.com/goliatone/go-cms-animations/internal/editor"
	"github.com/goliatone/go-cms-animations/internal/logging"
	"github.com/goliatone/go-cms-animations/internal/logging/console"
	"github.com/goliatone/go-cms-animations/internal/logging/gologger"
	"github.com/goliatone/go-cms-animations/internal/runtimeconfig"
	"github.com/goliatone/go-cms-animations/internal/storageconfig"
	"github.com/goliatone/go-cms-animations/pkg/interfaces"
)

// Container wires the animation services. Without a database it falls back
// to in-memory repositories.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	ownsDB        bool
	migrations    fs.FS
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider
	randomSource   assembler.RandomSource
	now            func() time.Time
	widgets        *animation.WidgetRegistry
	registry       *animations.Registry

	definitionRepo animations.DefinitionRepository
	bindingRepo    bindings.Repository
	routeManager   *urlkit.RouteManager
	redirects      editor.RedirectResolver

	commandRegistry animationscmd.CommandRegistry
	commandSet      *animationscmd.HandlerSet

	definitionSvc animations.Service
	assembler     *assembler.Assembler
	pageScripts   *assembler.Service
	editorSvc     *editor.Service
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB stores definitions and bindings in db.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithMigrations sets the migration files Bootstrap applies when the storage
// config asks for it.
func WithMigrations(fsys fs.FS) Option {
	return func(c *Container) {
		c.migrations = fsys
	}
}

// WithCache overrides the repository cache.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithRandomSource fixes the source of timeline names.
func WithRandomSource(source assembler.RandomSource) Option {
	return func(c *Container) {
		c.randomSource = source
	}
}

func WithClock(clock func() time.Time) Option {
	return func(c *Container) {
		c.now = clock
	}
}

func WithWidgetRegistry(widgets *animation.WidgetRegistry) Option {
	return func(c *Container) {
		c.widgets = widgets
	}
}

func WithDefinitionRepository(repo animations.DefinitionRepository) Option {
	return func(c *Container) {
		c.definitionRepo = repo
	}
}

func WithBindingRepository(repo bindings.Repository) Option {
	return func(c *Container) {
		c.bindingRepo = repo
	}
}

// WithRedirectResolver overrides the go-urlkit redirect built from config.
func WithRedirectResolver(resolver editor.RedirectResolver) Option {
	return func(c *Container) {
		c.redirects = resolver
	}
}

// WithCommandRegistry registers the command handlers with reg.
func WithCommandRegistry(reg animationscmd.CommandRegistry) Option {
	return func(c *Container) {
		c.commandRegistry = reg
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		Config:   cfg,
		registry: animations.NewRegistry(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureRepositories()
	c.configureRegistry()
	c.configureNavigation()

	if c.widgets == nil {
		c.widgets = animation.NewWidgetRegistry()
	}
	if c.now == nil {
		c.now = time.Now
	}

	c.definitionSvc = animations.NewService(c.definitionRepo,
		animations.WithRegistry(c.registry),
		animations.WithWidgets(c.widgets),
		animations.WithClock(c.now),
		animations.WithLogger(logging.DefinitionsLogger(c.loggerProvider)),
	)

	assemblerOpts := []assembler.Option{
		assembler.WithLogger(logging.AssemblerLogger(c.loggerProvider)),
		assembler.WithSectionPrefix(cfg.Animations.SectionPrefix),
	}
	if c.randomSource != nil {
		assemblerOpts = append(assemblerOpts, assembler.WithRandomSource(c.randomSource))
	}
	c.assembler = assembler.New(assemblerOpts...)
	c.pageScripts = assembler.NewService(c.assembler, c.definitionSvc,
		assembler.WithContainerFields(cfg.Animations.ContainerFields...),
		assembler.WithBindingLookup(c.bindingRepo),
		assembler.WithServiceLogger(logging.AssemblerLogger(c.loggerProvider)),
	)

	c.editorSvc = editor.NewService(c.definitionSvc, c.bindingRepo,
		editor.WithClock(c.now),
		editor.WithWidgets(c.widgets),
		editor.WithLogger(logging.EditorLogger(c.loggerProvider)),
		editor.WithRedirectResolver(c.redirects),
		editor.WithFieldSupport(fieldSupport(cfg.Animations.FieldBlockTypes)),
	)

	set, err := animationscmd.RegisterAnimationCommands(c.commandRegistry, c.editorSvc, c.definitionSvc, c.loggerProvider)
	if err != nil {
		return nil, err
	}
	c.commandSet = set
	return c, nil
}

// Bootstrap applies pending migrations when configured, then registers the
// configured definitions and the definition files that are not stored yet.
func (c *Container) Bootstrap(ctx context.Context) error {
	if c.bunDB != nil && c.Config.Storage.AutoMigrate && c.migrations != nil {
		if _, err := storageconfig.ApplyMigrations(ctx, c.bunDB, c.migrations); err != nil {
			return err
		}
	}
	if err := c.definitionSvc.SyncRegistry(ctx); err != nil {
		return err
	}
	if !c.Config.Features.DefinitionFiles {
		return nil
	}
	dir := strings.TrimSpace(c.Config.Animations.DefinitionDir)
	inputs, err := animations.LoadDir(ctx, os.DirFS(dir), ".")
	if err != nil {
		return err
	}
	return animations.EnsureDefinitions(ctx, c.definitionSvc, inputs)
}

// Close releases the database opened from config, if any.
func (c *Container) Close() error {
	if c.ownsDB && c.bunDB != nil {
		return c.bunDB.Close()
	}
	return nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		level := console.ParseLevel(logCfg.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &level})
	}
	return nil
}

func (c *Container) configureStorage() error {
	if c.bunDB != nil || strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" {
		return nil
	}
	db, err := storageconfig.Open(c.Config.Storage)
	if err != nil {
		return fmt.Errorf("di: open storage: %w", err)
	}
	c.bunDB = db
	c.ownsDB = true
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.DefaultTTL > 0 {
			cfg.TTL = c.Config.Cache.DefaultTTL
		}
		if service, err := repocache.NewCacheService(cfg); err == nil {
			c.cacheService = service
		}
	}
	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB != nil {
		if c.definitionRepo == nil {
			if c.cacheService != nil {
				c.definitionRepo = animations.NewBunDefinitionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			} else {
				c.definitionRepo = animations.NewBunDefinitionRepository(c.bunDB)
			}
		}
		if c.bindingRepo == nil {
			if c.cacheService != nil {
				c.bindingRepo = bindings.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
			} else {
				c.bindingRepo = bindings.NewBunRepository(c.bunDB)
			}
		}
	}
	if c.definitionRepo == nil {
		c.definitionRepo = animations.NewMemoryDefinitionRepository()
	}
	if c.bindingRepo == nil {
		c.bindingRepo = bindings.NewMemoryRepository()
	}
	logging.BindingsLogger(c.loggerProvider).Debug("bindings.repository.configured",
		"repository", fmt.Sprintf("%T", c.bindingRepo),
		"cached", c.bunDB != nil && c.cacheService != nil,
	)
}

func (c *Container) configureRegistry() {
	for _, def := range c.Config.Animations.Definitions {
		c.registry.Register(animations.RegisterInput{
			Key:               def.Key,
			Label:             def.Label,
			Description:       optionalString(def.Description),
			Icon:              optionalString(def.Icon),
			Status:            def.Status,
			AllowedBlockTypes: def.AllowedBlockTypes,
			Fields:            def.Fields,
			Code:              def.Code,
		})
	}
}

func (c *Container) configureNavigation() {
	if c.redirects != nil {
		return
	}
	nav := c.Config.Navigation
	if nav.RouteConfig == nil || strings.TrimSpace(nav.Route) == "" {
		return
	}
	c.routeManager = urlkit.NewRouteManager(nav.RouteConfig)
	c.redirects = editor.NewURLKitRedirect(editor.URLKitRedirectOptions{
		Manager: c.routeManager,
		Group:   nav.Group,
		Route:   nav.Route,
		IDParam: nav.IDParam,
	})
}

func fieldSupport(blockTypes []string) editor.FieldSupport {
	if len(blockTypes) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(blockTypes))
	for _, blockType := range blockTypes {
		allowed[strings.TrimSpace(blockType)] = struct{}{}
	}
	return func(blockType string) bool {
		_, ok := allowed[blockType]
		return ok
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) RouteManager() *urlkit.RouteManager {
	return c.routeManager
}

func (c *Container) DefinitionService() animations.Service {
	return c.definitionSvc
}

func (c *Container) BindingRepository() bindings.Repository {
	return c.bindingRepo
}

func (c *Container) Assembler() *assembler.Assembler {
	return c.assembler
}

func (c *Container) PageScripts() *assembler.Service {
	return c.pageScripts
}

func (c *Container) EditorService() *editor.Service {
	return c.editorSvc
}

func (c *Container) Commands() *animationscmd.HandlerSet {
	return c.commandSet
}
