package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/inamate/whiteboard/internal/geometry"
)

// Document is the JSON form of a board: canvas size in CSS pixels and
// content objects in draw order.
type Document struct {
	Width   int               `json:"width,omitempty"`
	Height  int               `json:"height,omitempty"`
	Objects []geometry.Object `json:"objects"`
}

// ValidateContent checks that obj can live in a content registry.
func ValidateContent(obj geometry.Object) error {
	if obj.ID <= geometry.NoObject {
		return fmt.Errorf("%w: %d", ErrReservedID, obj.ID)
	}
	if !obj.Kind.Known() {
		return fmt.Errorf("%w: object %d has unknown kind %q", ErrInvalidObject, obj.ID, obj.Kind)
	}
	if obj.Kind != geometry.KindRectangle {
		return fmt.Errorf("%w: object %d: kind %q is reserved for the selection UI", ErrInvalidObject, obj.ID, obj.Kind)
	}
	return nil
}

// Validate checks every object and rejects repeated ids.
func (d *Document) Validate() error {
	seen := make(map[int]struct{}, len(d.Objects))
	for _, obj := range d.Objects {
		if err := ValidateContent(obj); err != nil {
			return err
		}
		if _, dup := seen[obj.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, obj.ID)
		}
		seen[obj.ID] = struct{}{}
	}
	if d.Width < 0 || d.Height < 0 {
		return fmt.Errorf("%w: negative canvas size %dx%d", ErrInvalidObject, d.Width, d.Height)
	}
	return nil
}

// Registry returns a new content registry holding the document's objects.
func (d *Document) Registry() *Registry {
	return NewRegistry(d.Objects...)
}

// FromRegistry snapshots r into a document.
func FromRegistry(r *Registry, width, height int) *Document {
	return &Document{Width: width, Height: height, Objects: r.Objects()}
}

// Parse decodes and validates a document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Load reads a document from r.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a document from path. An empty path yields the sample scene.
func LoadFile(path string) (*Document, error) {
	if path == "" {
		return Sample(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()
	return Load(f)
}
