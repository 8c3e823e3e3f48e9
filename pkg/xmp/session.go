package xmp

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/xmptree/pkg/sqlite"
	"github.com/mesh-intelligence/xmptree/pkg/types"
)

type options struct {
	readWrite     bool
	registry      *Registry
	logger        *zap.Logger
	newStore      func() types.Store
	sidecarSuffix string
}

// Option configures a Session.
type Option func(*options)

// WithReadWrite opens the file for writing; changes are committed on Close.
func WithReadWrite() Option {
	return func(o *options) { o.readWrite = true }
}

// WithRegistry resolves namespace prefixes through reg instead of
// DefaultRegistry.
func WithRegistry(reg *Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithLogger sets the logger used for session lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithBackend replaces the default SQLite store. newStore is called on every
// Open.
func WithBackend(newStore func() types.Store) Option {
	return func(o *options) { o.newStore = newStore }
}

// WithSidecarSuffix sets the suffix appended to non-packet files to locate
// their sidecar packet.
func WithSidecarSuffix(suffix string) Option {
	return func(o *options) { o.sidecarSuffix = suffix }
}

// damageReporter is implemented by stores that drop unreadable records on
// load instead of failing.
type damageReporter interface {
	SkippedRecords() int
}

// Session binds a metadata tree to a file for the duration between Open and
// Close. A read-only session never writes; closing it after modifications
// returns a *types.Warning. A read-write session commits modifications on
// Close and leaves the file untouched otherwise.
type Session struct {
	path  string
	opts  options
	store types.Store
	meta  *Metadata
	open  bool
}

// NewSession returns a closed session for path.
func NewSession(path string, opts ...Option) *Session {
	o := options{
		registry:      DefaultRegistry,
		logger:        zap.NewNop(),
		newStore:      sqlite.NewBackend,
		sidecarSuffix: types.DefaultSidecarSuffix,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Session{path: path, opts: o}
}

// Open creates a session for path and opens it.
func Open(path string, opts ...Option) (*Session, error) {
	s := NewSession(path, opts...)
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// Open attaches the store and loads the tree. A closed session may be
// opened again; the tree is reloaded from the file.
func (s *Session) Open() error {
	if s.open {
		return types.ErrSessionOpen
	}
	store := s.opts.newStore()
	cfg := types.Config{
		Backend:       types.BackendSQLite,
		Path:          s.path,
		ReadOnly:      !s.opts.readWrite,
		SidecarSuffix: s.opts.sidecarSuffix,
	}
	if err := store.Attach(cfg); err != nil {
		return fmt.Errorf("opening %s: %w", s.path, err)
	}
	meta := NewMetadata(s.opts.registry)
	if err := meta.Load(store); err != nil {
		_ = store.Detach()
		return fmt.Errorf("loading %s: %w", s.path, err)
	}
	if d, ok := store.(damageReporter); ok && d.SkippedRecords() > 0 {
		s.opts.logger.Warn("packet has unreadable records",
			zap.String("packet", store.Target()),
			zap.Int("skipped", d.SkippedRecords()))
	}
	s.store = store
	s.meta = meta
	s.open = true
	s.opts.logger.Debug("session opened",
		zap.String("path", s.path),
		zap.String("packet", store.Target()),
		zap.Bool("read_write", s.opts.readWrite),
		zap.Int("namespaces", meta.Len()))
	return nil
}

// Path returns the file the session is bound to.
func (s *Session) Path() string { return s.path }

// IsOpen reports whether the session is open.
func (s *Session) IsOpen() bool { return s.open }

// ReadWrite reports whether the session commits on Close.
func (s *Session) ReadWrite() bool { return s.opts.readWrite }

// Metadata returns the tree of the open session, nil when closed.
func (s *Session) Metadata() *Metadata {
	if !s.open {
		return nil
	}
	return s.meta
}

// Store returns the underlying store of the open session, nil when closed.
func (s *Session) Store() types.Store {
	if !s.open {
		return nil
	}
	return s.store
}

// Close ends the session. Closing a closed session is a no-op.
func (s *Session) Close() error {
	if !s.open {
		return nil
	}
	s.open = false
	store := s.store

	dirty := s.meta.Modified() || store.Modified()
	if !dirty {
		s.opts.logger.Debug("session closed", zap.String("path", s.path))
		return store.Detach()
	}

	if !s.opts.readWrite {
		warn := &types.Warning{Path: s.path, Err: types.ErrUnpersistedWrite}
		s.opts.logger.Warn("discarding changes made in read-only session", zap.String("path", s.path))
		return errors.Join(warn, store.Detach())
	}

	if err := s.sync(); err != nil {
		return errors.Join(fmt.Errorf("syncing %s: %w", s.path, err), store.Detach())
	}
	if err := store.Commit(); err != nil {
		return errors.Join(fmt.Errorf("committing %s: %w", s.path, err), store.Detach())
	}
	s.opts.logger.Info("metadata committed",
		zap.String("path", s.path),
		zap.String("packet", store.Target()))
	return store.Detach()
}

// sync replaces the top-level properties of every namespace of the tree with
// the flattened tree. Namespaces the tree never touched keep their contents.
func (s *Session) sync() error {
	if !s.meta.Modified() {
		return nil
	}
	for _, ns := range s.meta.all() {
		have, err := s.store.ListPaths(ns.uri)
		if err != nil {
			return err
		}
		for _, p := range have {
			if !isTopLevelPath(p.Path) {
				continue
			}
			if err := s.store.Delete(p.Path); err != nil && !errors.Is(err, types.ErrPathNotFound) {
				return err
			}
		}
		want := ns.Properties()
		if len(want) == 0 {
			continue
		}
		if prefix, ok := ns.Prefix(); ok {
			if err := s.store.SetNamespacePrefix(ns.uri, prefix); err != nil {
				return err
			}
		}
		for _, p := range want {
			if err := s.store.Set(p); err != nil {
				return fmt.Errorf("writing %s: %w", p.Path, err)
			}
		}
	}
	return nil
}

// WithFile opens path, passes the tree to fn and closes the session on every
// exit path, including a panic in fn. Errors from fn and Close are joined.
func WithFile(path string, fn func(*Metadata) error, opts ...Option) (err error) {
	s, err := Open(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = s.Close()
			panic(r)
		}
	}()
	ferr := fn(s.Metadata())
	return errors.Join(ferr, s.Close())
}
