package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrUnknownBlockType = errors.New("unknown block type")
	ErrMissingBlock     = errors.New("block value is missing")
	// ErrInvalidBlockValue wraps values whose JSON does not fit the block struct.
	ErrInvalidBlockValue = errors.New("invalid block value")
)

// StreamChild is one tagged entry of a body stream.
type StreamChild struct {
	ID    string
	Type  string
	Value Block
}

type rawChild struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
	ID    string          `json:"id,omitempty"`
}

// NewChild decodes raw into the block registered for tag.
func NewChild(tag string, raw json.RawMessage) (StreamChild, error) {
	def, ok := definitionIndex[tag]
	if !ok {
		return StreamChild{}, fmt.Errorf("%w: %q", ErrUnknownBlockType, tag)
	}

	value := def.New()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, value); err != nil {
			return StreamChild{}, fmt.Errorf("%w for %s block: %w", ErrInvalidBlockValue, tag, err)
		}
	}

	return StreamChild{ID: uuid.NewString(), Type: tag, Value: value}, nil
}

// MarshalJSON writes the {"type","value","id"} shape.
func (c StreamChild) MarshalJSON() ([]byte, error) {
	value, err := json.Marshal(c.Value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(rawChild{Type: c.Type, Value: value, ID: c.ID})
}

// UnmarshalJSON reads the {"type","value","id"} shape.
func (c *StreamChild) UnmarshalJSON(data []byte) error {
	var raw rawChild
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	child, err := NewChild(raw.Type, raw.Value)
	if err != nil {
		return err
	}
	if raw.ID != "" {
		child.ID = raw.ID
	}
	*c = child
	return nil
}

// Stream is the ordered, heterogeneous body of a page.
type Stream []StreamChild

// ParseStream decodes a stored body. Empty and null input yield an empty stream.
func ParseStream(data []byte) (Stream, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Stream{}, nil
	}

	var stream Stream
	if err := json.Unmarshal(trimmed, &stream); err != nil {
		return nil, err
	}
	return stream, nil
}

// MarshalJSON always writes a list, never null.
func (s Stream) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]StreamChild(s))
}

// UnmarshalJSON accepts a list of children or null.
func (s *Stream) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Stream{}
		return nil
	}

	var children []StreamChild
	if err := json.Unmarshal(data, &children); err != nil {
		return err
	}
	*s = Stream(children)
	return nil
}

// Append adds value at the end of the stream and returns the new child.
func (s *Stream) Append(value Block) StreamChild {
	child := StreamChild{ID: uuid.NewString(), Type: value.BlockType(), Value: value}
	*s = append(*s, child)
	return child
}

// EnsureIDs gives every child without an id a fresh one.
func (s Stream) EnsureIDs() {
	for i := range s {
		if s[i].ID == "" {
			s[i].ID = uuid.NewString()
		}
	}
}

// Types lists the child tags in order.
func (s Stream) Types() []string {
	types := make([]string, len(s))
	for i, child := range s {
		types[i] = child.Type
	}
	return types
}

// Validate checks every child and reports failures by index.
func (s Stream) Validate() error {
	verr := &ValidationError{}
	for i, child := range s {
		if child.Value == nil {
			verr.AddBlock(i, "type", ErrMissingBlock.Error())
			continue
		}
		if _, ok := definitionIndex[child.Type]; !ok || child.Value.BlockType() != child.Type {
			verr.AddBlock(i, "type", fmt.Sprintf("%s: %q", ErrUnknownBlockType, child.Type))
			continue
		}

		err := Validate(child.Value)
		if err == nil {
			continue
		}
		var fieldErr *ValidationError
		if !errors.As(err, &fieldErr) {
			return err
		}
		for name, message := range fieldErr.Fields {
			verr.AddBlock(i, name, message)
		}
	}
	return verr.Err()
}

// ImageIDs returns the distinct image ids referenced by the stream, ascending.
func (s Stream) ImageIDs() []uint {
	seen := make(map[uint]struct{})
	for _, child := range s {
		if child.Value == nil {
			continue
		}
		for _, ref := range child.Value.ImageRefs() {
			seen[ref.ID] = struct{}{}
		}
	}

	ids := make([]uint, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
