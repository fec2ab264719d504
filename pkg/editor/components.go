package editor

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/catalog"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/model"
)

// UpsertOption tunes UpsertComponent.
type UpsertOption func(*upsertOptions)

type upsertOptions struct {
	position    int
	hasPosition bool
}

// WithPosition places the instance at an explicit position.
func WithPosition(n int) UpsertOption {
	return func(o *upsertOptions) {
		o.position = n
		o.hasPosition = true
	}
}

// UpsertComponent inserts inst into page or replaces the instance with the
// same id. A new instance is placed after the last one, a replaced one
// keeps its position, unless WithPosition is given. An empty id gets a
// fresh UUID and a missing type or component name is derived from the
// other. Slugs of static pages are rejected with ErrStaticPage. The stored
// instance is returned.
func (s *Store) UpsertComponent(page string, inst model.ComponentInstance, opts ...UpsertOption) (model.ComponentInstance, error) {
	if page == "" {
		return model.ComponentInstance{}, ErrEmptySlug
	}
	var o upsertOptions
	for _, opt := range opts {
		opt(&o)
	}

	c := inst.Normalized()
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	switch {
	case c.ComponentName == "" && c.Type != "":
		c.ComponentName = catalog.ComponentName(c.Type, 1)
	case c.Type == "" && c.ComponentName != "":
		c.Type, _ = catalog.ParseComponentName(c.ComponentName)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, static := s.static[page]; static {
		return model.ComponentInstance{}, fmt.Errorf("%q: %w", page, ErrStaticPage)
	}

	list := s.pages[page]
	if i := indexOf(list, c.ID); i >= 0 {
		if !o.hasPosition {
			c.Position = list[i].Position
		} else {
			c.Position = o.position
		}
		list[i] = c
	} else {
		switch {
		case o.hasPosition:
			c.Position = o.position
		case len(list) == 0:
			c.Position = 0
		default:
			c.Position = maxPosition(list) + 1
		}
		list = append(list, c)
	}
	s.pages[page] = list
	s.dirty = true
	return c.Clone(), nil
}

// RemoveComponent removes the instance id from page. Remaining positions
// are left as they are. It reports whether an instance was removed.
func (s *Store) RemoveComponent(page, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.pages[page]
	i := indexOf(list, id)
	if i < 0 {
		return false
	}
	s.pages[page] = append(list[:i:i], list[i+1:]...)
	s.dirty = true
	return true
}

// Reorder assigns each listed id the position of its index in ids.
// Components of the page missing from ids follow, in their current order.
// Unknown or repeated ids leave the page untouched. A page that does not
// exist is not created.
func (s *Store) Reorder(page string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.pages[page]
	if !ok && len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if indexOf(list, id) < 0 {
			return fmt.Errorf("%s on page %q: %w", id, page, ErrUnknownComponent)
		}
		if seen[id] {
			return fmt.Errorf("%s listed twice for page %q", id, page)
		}
		seen[id] = true
	}

	next := make([]model.ComponentInstance, 0, len(list))
	for i, id := range ids {
		c := list[indexOf(list, id)]
		c.Position = i
		next = append(next, c)
	}
	rest := ordered(list)
	for _, c := range rest {
		if seen[c.ID] {
			continue
		}
		c.Position = len(next)
		next = append(next, c)
	}
	s.pages[page] = next
	s.dirty = true
	return nil
}

// RemovePage drops a dynamic page with all its components.
func (s *Store) RemovePage(page string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pages[page]
	if ok {
		delete(s.pages, page)
		s.dirty = true
	}
	return ok
}

func maxPosition(list []model.ComponentInstance) int {
	m := list[0].Position
	for _, c := range list[1:] {
		m = max(m, c.Position)
	}
	return m
}
