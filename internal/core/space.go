package core

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Space is the context for one test run: it owns the proxy of every object
// doubled during the test and the switch for nil-object warnings.
//
// A Space is confined to the goroutine running its test.
type Space struct {
	logger         *zap.Logger
	errorGenerator ErrorGenerator
	ordering       OrderGroup
	warnOnNil      bool
	proxies        map[*Object]*Proxy
	order          []*Object
}

// Option configures a Space.
type Option func(*Space)

// WithErrorGenerator sets how records and proxies build their errors.
func WithErrorGenerator(generator ErrorGenerator) Option {
	return func(s *Space) {
		s.errorGenerator = generator
	}
}

// WithLogger sets where diagnostics go.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Space) {
		s.logger = logger
	}
}

// WithNilWarnings sets the initial state of the nil-object warning switch.
func WithNilWarnings(enabled bool) Option {
	return func(s *Space) {
		s.warnOnNil = enabled
	}
}

// WithOrderGroup sets the order group records consult on every call.
func WithOrderGroup(ordering OrderGroup) Option {
	return func(s *Space) {
		s.ordering = ordering
	}
}

// NewSpace creates an empty space. Nil-object warnings start enabled.
func NewSpace(opts ...Option) *Space {
	space := &Space{
		logger:         zap.NewNop(),
		errorGenerator: DefaultErrorGenerator{},
		ordering:       Unordered{},
		warnOnNil:      true,
		proxies:        make(map[*Object]*Proxy),
	}

	for _, opt := range opts {
		opt(space)
	}

	return space
}

// AllowExpectationsOnNil silences the nil-object warning until a double on
// the nil placeholder is reset.
func (s *Space) AllowExpectationsOnNil() {
	s.warnOnNil = false
}

// Logger returns the space's logger.
func (s *Space) Logger() *zap.Logger {
	return s.logger
}

// Lookup returns the proxy for object, if one was created.
func (s *Space) Lookup(object *Object) (*Proxy, bool) {
	proxy, ok := s.proxies[object]

	return proxy, ok
}

// ProxyFor returns the proxy for object, creating it on first use.
func (s *Space) ProxyFor(object *Object) *Proxy {
	if proxy, ok := s.proxies[object]; ok {
		return proxy
	}

	proxy := newProxy(object, s)
	s.proxies[object] = proxy
	s.order = append(s.order, object)

	return proxy
}

// ResetAll restores every doubled method and forgets the proxies.
func (s *Space) ResetAll() {
	for _, object := range s.order {
		s.proxies[object].Reset()
	}

	s.proxies = make(map[*Object]*Proxy)
	s.order = nil
}

// SetWarnAboutExpectationsOnNil turns the nil-object warning on or off.
func (s *Space) SetWarnAboutExpectationsOnNil(enabled bool) {
	s.warnOnNil = enabled
}

// VerifyAll verifies every proxy and combines the failures.
func (s *Space) VerifyAll() error {
	var err error

	for _, object := range s.order {
		err = multierr.Append(err, s.proxies[object].Verify())
	}

	return err
}

// WarnAboutExpectationsOnNil reports whether expectations set on the nil
// placeholder produce a warning.
func (s *Space) WarnAboutExpectationsOnNil() bool {
	return s.warnOnNil
}
