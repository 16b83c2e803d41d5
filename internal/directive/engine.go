package directive

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCommand is reported for directives whose command has no resolver.
var ErrUnknownCommand = errors.New("unknown command")

// Resolver produces the replacement text for a directive argument.
type Resolver interface {
	Resolve(argument string) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(argument string) (string, error)

// Resolve calls f(argument).
func (f ResolverFunc) Resolve(argument string) (string, error) { return f(argument) }

// Stats counts the directives an Engine has processed.
type Stats struct {
	Directives int
	Resolved   int
	Failed     int
	Unknown    int
}

// Engine expands directives using the resolvers registered on it. An Engine
// is not safe for concurrent use.
type Engine struct {
	resolvers map[string]Resolver
	observer  Observer
	stats     Stats
}

// New returns an Engine with no resolvers. A nil observer discards events.
func New(observer Observer) *Engine {
	if observer == nil {
		observer = discard{}
	}
	return &Engine{
		resolvers: make(map[string]Resolver),
		observer:  observer,
	}
}

// Register binds command to r, replacing any previous binding.
func (e *Engine) Register(command string, r Resolver) {
	e.resolvers[command] = r
}

// Commands returns the registered command names in sorted order.
func (e *Engine) Commands() []string {
	names := make([]string, 0, len(e.resolvers))
	for name := range e.resolvers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stats returns the counters accumulated since the engine was created.
func (e *Engine) Stats() Stats {
	return e.stats
}

// Substitute expands the text of root and of every node below it, then
// returns root.
func (e *Engine) Substitute(root Node) Node {
	if root == nil {
		return nil
	}
	for _, child := range root.Children() {
		e.Substitute(child)
	}
	text := root.Text()
	if expanded := e.Expand(text); expanded != text {
		root.SetText(expanded)
	}
	return root
}

// Expand replaces every directive in text. Replacement text is not scanned
// again.
func (e *Engine) Expand(text string) string {
	directives := Scan(text)
	if len(directives) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, d := range directives {
		b.WriteString(text[last:d.Start])
		b.WriteString(e.resolve(d))
		last = d.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// Check resolves d without counting it or emitting events.
func (e *Engine) Check(d Directive) (string, error) {
	r, ok := e.resolvers[d.Command]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownCommand, d.Command)
	}
	return r.Resolve(d.Argument)
}

func (e *Engine) resolve(d Directive) string {
	e.stats.Directives++
	r, ok := e.resolvers[d.Command]
	if !ok {
		e.stats.Unknown++
		e.observer.Observe(Event{
			Kind:      EventUnknown,
			Directive: d,
			Err:       fmt.Errorf("%w %q", ErrUnknownCommand, d.Command),
		})
		return ""
	}
	e.observer.Observe(Event{Kind: EventStart, Directive: d})
	out, err := r.Resolve(d.Argument)
	if err != nil {
		e.stats.Failed++
		e.observer.Observe(Event{
			Kind:      EventFailed,
			Directive: d,
			Err:       fmt.Errorf("resolving %s: %w", d, err),
		})
		return ""
	}
	e.stats.Resolved++
	e.observer.Observe(Event{Kind: EventResolved, Directive: d})
	return out
}
