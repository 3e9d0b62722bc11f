package foundations

import (
	"fmt"

	"github.com/pxlpowered/foundations/message"
	"github.com/pxlpowered/foundations/sourcefile"
	"go.uber.org/zap"
)

// sources accumulates default sources and the problems found while adding them.
// Problems are reported by Build rather than at the call site so builders can be chained.
type sources struct {
	list     []Source
	problems []FieldError
}

func (s *sources) add(src Source) {
	if src == nil {
		s.problems = append(s.problems, FieldError{
			FieldPath: fmt.Sprintf("defaults[%d]", len(s.list)+len(s.problems)),
			Code:      ErrCodeRequired,
			Message:   "default source must not be nil",
		})
		return
	}
	s.list = append(s.list, src)
}

func (s *sources) addLocator(locator string, opts []LocatorOption) {
	src, err := ParseSource(locator, opts...)
	if err != nil {
		s.problems = append(s.problems, FieldError{
			FieldPath: fmt.Sprintf("defaults[%d]", len(s.list)+len(s.problems)),
			Code:      ErrCodeInvalidLocator,
			Message:   err.Error(),
		})
		return
	}
	s.list = append(s.list, src)
}

func (s *sources) replace(cfg Configuration) {
	s.reset()
	if cfg != nil {
		s.list = cfg.Defaults()
	}
}

func (s *sources) reset() {
	s.list = nil
	s.problems = nil
}

func validateCommon(logger *zap.Logger, messages *message.Catalog, s *sources) []FieldError {
	var errs []FieldError
	if logger == nil {
		errs = append(errs, FieldError{FieldPath: "logger", Code: ErrCodeRequired, Message: "logger is required"})
	}
	if messages == nil {
		errs = append(errs, FieldError{FieldPath: "messages", Code: ErrCodeRequired, Message: "message catalog is required"})
	}
	return append(errs, s.problems...)
}

func loggerOf(owner LoggerProvider) *zap.Logger {
	if owner == nil {
		return nil
	}
	return owner.Logger()
}

// TransientBuilder builds TransientConfiguration values.
// A builder may be reused; each Build produces an independent configuration.
type TransientBuilder struct {
	messages *message.Catalog
	sources  sources
}

// NewTransientBuilder creates a builder that logs through messages.
func NewTransientBuilder(messages *message.Catalog) *TransientBuilder {
	return &TransientBuilder{messages: messages}
}

// Default appends a source. Sources are merged in the order added (later override earlier).
func (b *TransientBuilder) Default(src Source) *TransientBuilder {
	b.sources.add(src)
	return b
}

// Defaults appends several sources in order.
func (b *TransientBuilder) Defaults(srcs ...Source) *TransientBuilder {
	for _, src := range srcs {
		b.sources.add(src)
	}
	return b
}

// DefaultLocator parses locator with ParseSource and appends the result.
// An invalid locator is reported by Build.
func (b *TransientBuilder) DefaultLocator(locator string, opts ...LocatorOption) *TransientBuilder {
	b.sources.addLocator(locator, opts)
	return b
}

// From replaces the accumulated sources with those of cfg.
func (b *TransientBuilder) From(cfg Configuration) *TransientBuilder {
	b.sources.replace(cfg)
	return b
}

// Reset clears the accumulated sources.
func (b *TransientBuilder) Reset() *TransientBuilder {
	b.sources.reset()
	return b
}

// Build validates the builder and creates a configuration that logs to logger.
// It returns a *ValidationError listing every problem found.
func (b *TransientBuilder) Build(logger *zap.Logger) (*TransientConfiguration, error) {
	if errs := validateCommon(logger, b.messages, &b.sources); len(errs) > 0 {
		return nil, &ValidationError{FieldErrors: errs}
	}

	cfg := &TransientConfiguration{}
	cfg.init(logger, b.messages, b.sources.list)
	return cfg, nil
}

// BuildFor is Build with the logger of owner.
func (b *TransientBuilder) BuildFor(owner LoggerProvider) (*TransientConfiguration, error) {
	return b.Build(loggerOf(owner))
}

// PersistentBuilder builds PersistentConfiguration values.
type PersistentBuilder struct {
	messages *message.Catalog
	sources  sources
	path     string
	fileOpts sourcefile.Options
}

// NewPersistentBuilder creates a builder that logs through messages.
func NewPersistentBuilder(messages *message.Catalog) *PersistentBuilder {
	return &PersistentBuilder{messages: messages}
}

// File sets the backing file path. The format is taken from its extension.
func (b *PersistentBuilder) File(path string) *PersistentBuilder {
	b.path = path
	return b
}

// FileOptions sets the options used to read and write the backing file.
func (b *PersistentBuilder) FileOptions(opts sourcefile.Options) *PersistentBuilder {
	b.fileOpts = opts
	return b
}

// Default appends a source. Sources are merged in the order added (later override earlier).
func (b *PersistentBuilder) Default(src Source) *PersistentBuilder {
	b.sources.add(src)
	return b
}

// Defaults appends several sources in order.
func (b *PersistentBuilder) Defaults(srcs ...Source) *PersistentBuilder {
	for _, src := range srcs {
		b.sources.add(src)
	}
	return b
}

// DefaultLocator parses locator with ParseSource and appends the result.
// An invalid locator is reported by Build.
func (b *PersistentBuilder) DefaultLocator(locator string, opts ...LocatorOption) *PersistentBuilder {
	b.sources.addLocator(locator, opts)
	return b
}

// From replaces the accumulated sources with those of cfg. When cfg is a
// *PersistentConfiguration its path is copied as well.
func (b *PersistentBuilder) From(cfg Configuration) *PersistentBuilder {
	b.sources.replace(cfg)
	if p, ok := cfg.(*PersistentConfiguration); ok && p != nil {
		b.path = p.path
		b.fileOpts = p.fileOpts
	}
	return b
}

// Reset clears the accumulated sources and the file path.
func (b *PersistentBuilder) Reset() *PersistentBuilder {
	b.sources.reset()
	b.path = ""
	b.fileOpts = sourcefile.Options{}
	return b
}

// Build validates the builder and creates a configuration that logs to logger.
// It returns a *ValidationError listing every problem found.
func (b *PersistentBuilder) Build(logger *zap.Logger) (*PersistentConfiguration, error) {
	errs := validateCommon(logger, b.messages, &b.sources)
	if b.path == "" {
		errs = append(errs, FieldError{FieldPath: "file", Code: ErrCodeRequired, Message: "file path is required"})
	}
	if len(errs) > 0 {
		return nil, &ValidationError{FieldErrors: errs}
	}

	cfg := &PersistentConfiguration{
		path:     b.path,
		fileOpts: b.fileOpts,
	}
	cfg.init(logger, b.messages, b.sources.list)
	return cfg, nil
}

// BuildFor is Build with the logger of owner.
func (b *PersistentBuilder) BuildFor(owner LoggerProvider) (*PersistentConfiguration, error) {
	return b.Build(loggerOf(owner))
}
