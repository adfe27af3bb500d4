package playlist

import (
	"fmt"
	"strings"

	"github.com/tessro/crate/internal/errors"
)

// Collection is an ordered set of uniquely named playlists with one of them
// selected.
type Collection struct {
	order    []string
	items    map[string]*Playlist
	selected string
	opts     []Option
}

// NewCollection creates an empty collection. opts are applied to every
// playlist the collection creates.
func NewCollection(opts ...Option) *Collection {
	return &Collection{
		items: make(map[string]*Playlist),
		opts:  opts,
	}
}

// Create adds a new empty playlist and selects it.
func (c *Collection) Create(name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.ErrInvalidName
	}
	p := New(name, c.opts...)
	if err := c.Add(p); err != nil {
		return nil, err
	}
	c.selected = name
	return p, nil
}

// Add inserts an existing playlist at the end of the collection. The first
// playlist added becomes the selection.
func (c *Collection) Add(p *Playlist) error {
	if _, exists := c.items[p.Name()]; exists {
		return fmt.Errorf("%q: %w", p.Name(), errors.ErrPlaylistExists)
	}
	c.items[p.Name()] = p
	c.order = append(c.order, p.Name())
	if c.selected == "" {
		c.selected = p.Name()
	}
	return nil
}

// Delete removes a playlist. If it was selected, the first remaining
// playlist is selected instead.
func (c *Collection) Delete(name string) error {
	if _, ok := c.items[name]; !ok {
		return fmt.Errorf("%q: %w", name, errors.ErrPlaylistNotFound)
	}
	delete(c.items, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	if c.selected == name {
		c.selected = ""
		if len(c.order) > 0 {
			c.selected = c.order[0]
		}
	}
	return nil
}

// Get returns the named playlist.
func (c *Collection) Get(name string) (*Playlist, bool) {
	p, ok := c.items[name]
	return p, ok
}

// Select makes the named playlist current.
func (c *Collection) Select(name string) error {
	if _, ok := c.items[name]; !ok {
		return fmt.Errorf("%q: %w", name, errors.ErrPlaylistNotFound)
	}
	c.selected = name
	return nil
}

// Selected returns the current playlist, or nil when the collection is
// empty.
func (c *Collection) Selected() *Playlist {
	return c.items[c.selected]
}

// SelectedName returns the name of the current playlist.
func (c *Collection) SelectedName() string {
	return c.selected
}

// Names returns playlist names in insertion order.
func (c *Collection) Names() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Playlists returns the playlists in insertion order.
func (c *Collection) Playlists() []*Playlist {
	out := make([]*Playlist, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.items[n])
	}
	return out
}

// Len returns the number of playlists.
func (c *Collection) Len() int {
	return len(c.order)
}

// NewPlaylist creates a playlist configured like the collection's own,
// without adding it.
func (c *Collection) NewPlaylist(name string) *Playlist {
	return New(name, c.opts...)
}
