package mcvm

import (
	"math"
	"slices"

	"fortio.org/safecast"
)

// entry is a storage value: an int or a list of ints.
type entry struct {
	list   []int32
	isList bool
	num    int32
}

func (e *entry) clone() *entry {
	return &entry{list: slices.Clone(e.list), isList: e.isList, num: e.num}
}

func (m *Machine) lookup(p storagePath) (*entry, bool) {
	e, ok := m.storage[p.root][p.path]
	return e, ok
}

func (m *Machine) put(p storagePath, e *entry) {
	root, ok := m.storage[p.root]
	if !ok {
		root = make(map[string]*entry)
		m.storage[p.root] = root
	}
	root[p.path] = e
}

// element resolves `path` or `path[-1]` to a number.
func (m *Machine) element(c *command, p storagePath) (int32, error) {
	e, ok := m.lookup(p)
	if !ok {
		return 0, m.fail(errorf(ErrUnknownTarget, "storage %s %s is not set", p.root, p.path), c)
	}
	if !p.last {
		if e.isList {
			return 0, m.fail(errorf(ErrUnsupported, "storage %s %s is a list", p.root, p.path), c)
		}
		return e.num, nil
	}
	if !e.isList || len(e.list) == 0 {
		return 0, m.fail(errorf(ErrEmptyList, "storage %s %s has no elements", p.root, p.path), c)
	}
	return e.list[len(e.list)-1], nil
}

func (m *Machine) data(c *command) (int32, bool, error) {
	switch c.kind {
	case cmdDataSetList:
		m.put(c.storage, &entry{isList: true})
		return 1, true, nil
	case cmdDataSetValue:
		m.put(c.storage, &entry{num: c.value})
		return 1, true, nil
	case cmdDataAppend:
		v, err := m.element(c, c.from)
		if err != nil {
			return 0, false, err
		}
		dst, ok := m.lookup(c.storage)
		if !ok || !dst.isList {
			return 0, false, m.fail(errorf(ErrUnknownTarget, "storage %s %s is not a list", c.storage.root, c.storage.path), c)
		}
		dst.list = append(dst.list, v)
		return 1, true, nil
	case cmdDataGet:
		v, err := m.element(c, c.storage)
		if err != nil {
			return 0, false, err
		}
		n, err := safecast.Convert[int32](int64(math.Floor(float64(v) * c.storage.scale)))
		if err != nil {
			return 0, false, m.fail(errorf(ErrUnsupported, "scaled value of %d does not fit int", v), c)
		}
		return n, true, nil
	case cmdDataRemove:
		e, ok := m.lookup(c.storage)
		if !ok {
			return 0, false, nil
		}
		if !c.storage.last {
			delete(m.storage[c.storage.root], c.storage.path)
			return 1, true, nil
		}
		if !e.isList || len(e.list) == 0 {
			return 0, false, nil
		}
		e.list = e.list[:len(e.list)-1]
		return 1, true, nil
	}
	return 0, false, m.fail(errorf(ErrUnsupported, "unsupported data command %s", c.text), c)
}

// List returns a copy of a storage list; ok is false when path is not a list.
func (m *Machine) List(root, path string) ([]int32, bool) {
	e, ok := m.lookup(storagePath{root: root, path: path})
	if !ok || !e.isList {
		return nil, false
	}
	return e.clone().list, true
}
