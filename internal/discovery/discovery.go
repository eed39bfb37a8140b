// Package discovery walks the accessibility tree and reports the windows a
// user can make translucent, in navigation order.
package discovery

import (
	"log/slog"
	"strings"

	"github.com/1broseidon/wintrans/internal/platform"
)

// DefaultMaxDepth reports top-level windows only.
const DefaultMaxDepth = 1

// Options controls a discovery walk.
type Options struct {
	// MaxDepth is the first depth that is never reported. Top-level windows
	// sit at depth 0, so 1 stops at them and 2 adds their direct children.
	MaxDepth int
	// ExcludeClasses drops windows whose class matches (case-insensitive).
	ExcludeClasses []string
	Logger         *slog.Logger
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Discover walks the tree below root depth-first and returns the eligible
// windows in service order. A failing subtree is skipped; a nil root yields an
// empty slice. Each window ID is reported once.
func Discover(root platform.Element, opts Options) []platform.Window {
	w := &walker{
		maxDepth: opts.maxDepth(),
		exclude:  make(map[string]bool, len(opts.ExcludeClasses)),
		seen:     make(map[platform.WindowID]bool),
		logger:   opts.logger(),
		windows:  []platform.Window{},
	}
	for _, class := range opts.ExcludeClasses {
		w.exclude[strings.ToLower(strings.TrimSpace(class))] = true
	}

	if root == nil {
		return w.windows
	}

	children, err := root.Children()
	if err != nil {
		w.logger.Debug("discovery: root children unavailable", "error", err)
		return w.windows
	}
	for _, child := range children {
		if child.ControlType() != platform.ControlWindow {
			continue
		}
		w.visit(child, 0)
	}
	return w.windows
}

type walker struct {
	maxDepth int
	exclude  map[string]bool
	seen     map[platform.WindowID]bool
	logger   *slog.Logger
	windows  []platform.Window
}

func (w *walker) visit(node platform.Element, depth int) {
	if depth >= w.maxDepth {
		return
	}
	id := node.ID()
	if id == 0 {
		return
	}

	offscreen, err := node.IsOffscreen()
	if err != nil {
		w.skip(id, "offscreen", err)
		return
	}
	if offscreen {
		return
	}

	name, err := node.Name()
	if err != nil {
		w.skip(id, "name", err)
		return
	}
	class, err := node.ClassName()
	if err != nil {
		w.skip(id, "class", err)
		return
	}
	if w.exclude[strings.ToLower(strings.TrimSpace(class))] {
		return
	}

	if !w.seen[id] {
		w.seen[id] = true
		w.windows = append(w.windows, platform.Window{
			ID:    id,
			Name:  strings.TrimSpace(name),
			Class: strings.TrimSpace(class),
			Label: platform.DisplayLabel(id, name, class),
		})
	}

	if depth+1 >= w.maxDepth {
		return
	}
	children, err := node.Children()
	if err != nil {
		w.skip(id, "children", err)
		return
	}
	for _, child := range children {
		enabled, err := child.IsEnabled()
		if err != nil || !enabled {
			continue
		}
		w.visit(child, depth+1)
	}
}

func (w *walker) skip(id platform.WindowID, query string, err error) {
	w.logger.Debug("discovery: skipping subtree", "window_id", uint64(id), "query", query, "error", err)
}

// Discoverer runs walks against a live backend.
type Discoverer struct {
	backend platform.Backend
	opts    Options
}

// NewDiscoverer binds discovery options to a backend.
func NewDiscoverer(backend platform.Backend, opts Options) *Discoverer {
	return &Discoverer{backend: backend, opts: opts}
}

// Windows performs one walk from the backend root. An unavailable root
// yields an empty slice.
func (d *Discoverer) Windows() []platform.Window {
	root, err := d.backend.Root()
	if err != nil {
		d.opts.logger().Warn("discovery: root element unavailable", "error", err)
		return []platform.Window{}
	}
	return Discover(root, d.opts)
}
