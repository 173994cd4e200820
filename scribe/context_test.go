package scribe

import (
	"maps"
	"testing"
)

func TestContext_Scopes(t *testing.T) {
	var c Context

	c.Bind("outer", "1")
	c.Descend()
	c.Bind("inner", "2")
	c.Bind("outer", "shadow")
	c.Bind("inner", "3")

	if v, _ := c.Binding("outer"); v != "shadow" {
		t.Errorf("outer = %q inside scope, want shadow", v)
	}

	c.Ascend()

	if v, _ := c.Binding("outer"); v != "1" {
		t.Errorf("outer = %q after scope, want 1", v)
	}

	if _, ok := c.Binding("inner"); ok {
		t.Error("inner survived its scope")
	}

	// Unmatched Ascend does nothing.
	c.Ascend()

	if v, _ := c.Binding("outer"); v != "1" {
		t.Errorf("outer = %q after extra Ascend, want 1", v)
	}
}

func TestContext_Unbind(t *testing.T) {
	c := NewContext()
	c.Bind("x", "1")
	c.Unbind("x")

	if _, ok := c.Binding("x"); ok {
		t.Error("x still bound after Unbind")
	}
}

func TestContext_Accepts(t *testing.T) {
	tests := []struct {
		name    string
		context map[string]string
		group   map[string]string
		want    bool
	}{
		{"both empty", nil, nil, true},
		{"empty context", nil, map[string]string{"size": "big"}, true},
		{"empty group", map[string]string{"size": "big"}, nil, true},
		{"equal", map[string]string{"size": "big"}, map[string]string{"size": "big"}, true},
		{"conflict", map[string]string{"size": "big"}, map[string]string{"size": "small"}, false},
		{
			"disjoint keys",
			map[string]string{"size": "big"},
			map[string]string{"color": "red"},
			true,
		},
		{
			"one of two conflicts",
			map[string]string{"size": "big", "color": "red"},
			map[string]string{"size": "big", "color": "blue", "mood": "calm"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext()
			for k, v := range tt.context {
				c.Set(k, v)
			}

			g := mustGroup(t, tt.group)

			if got := c.Accepts(g); got != tt.want {
				t.Errorf("Accepts = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContext_MergeFrom(t *testing.T) {
	c := NewContext()
	c.Set("size", "small")
	c.Set("keep", "yes")

	c.MergeFrom(mustGroup(t, map[string]string{"size": "big", "color": "red"}))

	want := map[string]string{"size": "big", "color": "red", "keep": "yes"}
	if got := c.Tags(); !maps.Equal(got, want) {
		t.Errorf("Tags() = %v, want %v", got, want)
	}
}

func TestContext_Clone(t *testing.T) {
	c := NewContext()
	c.Set("size", "big")
	c.Bind("x", "1")
	c.Descend()

	d := c.Clone()
	d.Set("size", "small")
	d.Bind("y", "2")

	if v, _ := c.Tag("size"); v != "big" {
		t.Errorf("clone changed original tag to %q", v)
	}

	if _, ok := c.Binding("y"); ok {
		t.Error("clone binding visible in original")
	}

	if d.Depth() != 0 {
		t.Errorf("clone Depth() = %d, want 0", d.Depth())
	}

	if v, _ := d.Binding("x"); v != "1" {
		t.Errorf("clone x = %q, want 1", v)
	}
}
