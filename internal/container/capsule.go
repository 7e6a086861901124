// Copyright (c) 2025 Thorium
// Archive shape (a resource-keyed container with add/extract/list
// operations) adapted from the external-tool-backed MPQ archive
// wrapper; a capsule is small enough that this engine keeps the whole
// resource table in memory rather than shelling out to a builder tool.

package container

import (
	"fmt"
	"strings"

	"github.com/suprsokr/kotorpatcher/internal/binstream"
)

const capsuleMagic = "ERF V1.0"

// Resource is one named, typed blob inside a capsule.
type Resource struct {
	Name string // case-preserved resref, no extension
	Type string // resource type tag, e.g. "utc", "dlg", "are"
	Data []byte
}

// Capsule is an in-memory archive of resources, addressed by
// (name, type) pair the way the patch engine's OverrideType "archive"
// branch expects.
type Capsule struct {
	path      string
	resources []Resource
	index     map[string]int // key(name,type) -> index into resources
}

func resKey(name, typ string) string {
	return strings.ToLower(name) + "." + strings.ToLower(typ)
}

// NewCapsule returns an empty capsule that will save to path.
func NewCapsule(path string) *Capsule {
	return &Capsule{path: path, index: map[string]int{}}
}

// Path returns the capsule's on-disk path.
func (c *Capsule) Path() string {
	return c.path
}

// Exists reports whether a resource with (name, type) is present.
func (c *Capsule) Exists(name, typ string) bool {
	_, ok := c.index[resKey(name, typ)]
	return ok
}

// Resource returns the bytes of (name, type), or an error if absent.
func (c *Capsule) Resource(name, typ string) ([]byte, error) {
	i, ok := c.index[resKey(name, typ)]
	if !ok {
		return nil, fmt.Errorf("container: capsule %s has no resource %s.%s", c.path, name, typ)
	}
	return c.resources[i].Data, nil
}

// SetResource inserts (name, type) or overwrites it in place if already
// present, preserving its original slot order.
func (c *Capsule) SetResource(name, typ string, data []byte) {
	key := resKey(name, typ)
	if i, ok := c.index[key]; ok {
		c.resources[i].Data = data
		return
	}
	c.resources = append(c.resources, Resource{Name: name, Type: typ, Data: data})
	c.index[key] = len(c.resources) - 1
}

// RemoveResource deletes (name, type) if present.
func (c *Capsule) RemoveResource(name, typ string) {
	key := resKey(name, typ)
	i, ok := c.index[key]
	if !ok {
		return
	}
	c.resources = append(c.resources[:i], c.resources[i+1:]...)
	delete(c.index, key)
	for k, v := range c.index {
		if v > i {
			c.index[k] = v - 1
		}
	}
}

// ListResources returns every (name, type) pair present, in archive
// order.
func (c *Capsule) ListResources() []Resource {
	out := make([]Resource, len(c.resources))
	copy(out, c.resources)
	return out
}

// LoadCapsule decodes a capsule archive from bytes. path is recorded
// for later Save calls but is not read from.
func LoadCapsule(path string, data []byte) (*Capsule, error) {
	c := NewCapsule(path)
	if len(data) == 0 {
		return c, nil
	}
	r := binstream.NewReader(data)
	magic, err := r.ReadCString(8)
	if err != nil || magic != capsuleMagic {
		return nil, fmt.Errorf("container: not a capsule archive (bad magic %q)", magic)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("container: truncated capsule header: %w", err)
	}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated capsule resource %d name: %w", i, err)
		}
		typ, err := r.ReadLengthPrefixed()
		if err != nil {
			return nil, fmt.Errorf("container: truncated capsule resource %d type: %w", i, err)
		}
		n, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("container: truncated capsule resource %d length: %w", i, err)
		}
		data, err := r.ReadBytes(int(n))
		if err != nil {
			return nil, fmt.Errorf("container: truncated capsule resource %d data: %w", i, err)
		}
		c.SetResource(name, typ, data)
	}
	return c, nil
}

// Save encodes the capsule back to bytes.
func (c *Capsule) Save() []byte {
	w := binstream.NewWriter()
	w.WriteCString(capsuleMagic, 8)
	w.WriteUint32(uint32(len(c.resources)))
	for _, r := range c.resources {
		w.WriteLengthPrefixed(r.Name)
		w.WriteLengthPrefixed(r.Type)
		w.WriteUint32(uint32(len(r.Data)))
		w.WriteBytes(r.Data)
	}
	return w.Bytes()
}
