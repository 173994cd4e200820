package scribe

import (
	"maps"
	"math/rand/v2"
	"slices"
)

// Context is the state of one generation call: the tags accumulated from
// every group selected so far and the variables bound in the active scopes.
//
// Tags only ever grow during a call. Bindings are scoped: every binding made
// after [Context.Descend] is undone by the matching [Context.Ascend].
//
// The zero value is an empty Context ready to use. A Context must not be
// used by more than one goroutine at a time.
type Context struct {
	tags     map[string]string
	bindings map[string]string
	frames   [][]undo
	rand     *rand.Rand
}

// undo restores a binding to the state it had before a scoped bind.
type undo struct {
	name  string
	prev  string
	bound bool
}

// NewContext returns an empty Context.
func NewContext() *Context {
	return &Context{
		tags:     map[string]string{},
		bindings: map[string]string{},
	}
}

// Set sets the tag key to val.
func (c *Context) Set(key, val string) {
	if c.tags == nil {
		c.tags = map[string]string{}
	}

	c.tags[key] = val
}

// Unset removes the tag key.
func (c *Context) Unset(key string) { delete(c.tags, key) }

// Tag returns the value of the tag key.
func (c *Context) Tag(key string) (string, bool) {
	v, ok := c.tags[key]

	return v, ok
}

// Tags returns a copy of the context's tags.
func (c *Context) Tags() map[string]string {
	if c.tags == nil {
		return map[string]string{}
	}

	return maps.Clone(c.tags)
}

// Bind binds name to val. Inside a scope, the binding is undone when the
// scope ends.
func (c *Context) Bind(name, val string) {
	if c.bindings == nil {
		c.bindings = map[string]string{}
	}

	if n := len(c.frames); n > 0 {
		prev, bound := c.bindings[name]
		c.frames[n-1] = append(c.frames[n-1], undo{name, prev, bound})
	}

	c.bindings[name] = val
}

// Unbind removes the binding of name.
func (c *Context) Unbind(name string) { delete(c.bindings, name) }

// Binding returns the value bound to name.
func (c *Context) Binding(name string) (string, bool) {
	v, ok := c.bindings[name]

	return v, ok
}

// Bindings returns a copy of the context's bindings.
func (c *Context) Bindings() map[string]string {
	if c.bindings == nil {
		return map[string]string{}
	}

	return maps.Clone(c.bindings)
}

// MergeFrom copies every tag of g into the context, overwriting existing
// values.
func (c *Context) MergeFrom(g *Group) {
	for k, v := range g.tags {
		c.Set(k, v)
	}
}

// Accepts reports whether g may be selected under the context's tags: every
// tag key present on both sides must have the same value. Keys present on
// only one side do not constrain the selection.
func (c *Context) Accepts(g *Group) bool {
	small, large := g.tags, c.tags
	if len(small) > len(large) {
		small, large = large, small
	}

	for k, v := range small {
		if w, ok := large[k]; ok && w != v {
			return false
		}
	}

	return true
}

// Descend begins a new binding scope.
func (c *Context) Descend() { c.frames = append(c.frames, nil) }

// Ascend ends the innermost binding scope, restoring every binding made
// within it to its prior state. Ascend without a matching Descend does
// nothing.
func (c *Context) Ascend() {
	n := len(c.frames)
	if n == 0 {
		return
	}

	frame := c.frames[n-1]
	c.frames = c.frames[:n-1]

	for _, u := range slices.Backward(frame) {
		if u.bound {
			c.bindings[u.name] = u.prev
		} else {
			delete(c.bindings, u.name)
		}
	}
}

// Depth returns the number of open binding scopes.
func (c *Context) Depth() int { return len(c.frames) }

// SetRand makes the context draw random numbers from r. A nil r restores the
// global source.
func (c *Context) SetRand(r *rand.Rand) { c.rand = r }

// Clone returns an independent copy of c with no open scopes. The copy
// shares c's random source.
func (c *Context) Clone() *Context {
	return &Context{
		tags:     c.Tags(),
		bindings: c.Bindings(),
		rand:     c.rand,
	}
}

// intN returns a random integer in [0, n).
func (c *Context) intN(n int) int {
	if c.rand != nil {
		return c.rand.IntN(n)
	}

	return rand.IntN(n)
}
