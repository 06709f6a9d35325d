package models

import (
	"encoding/json"
	"fmt"
)

// Components is an ordered exam body. It (un)marshals as a JSON array whose
// elements are dispatched on their "type" field.
type Components []Component

// NewComponent returns an empty value of the variant named by t, or nil
func NewComponent(t ComponentType) Component {
	switch t {
	case ComponentHeader:
		return &HeaderComponent{}
	case ComponentText:
		return &TextComponent{}
	case ComponentTable:
		return &TableComponent{}
	case ComponentQCM:
		return &QCMComponent{}
	case ComponentImage:
		return &ImageComponent{}
	case ComponentTrueFalse:
		return &TrueFalseComponent{}
	case ComponentFillInBlanks:
		return &FillInBlanksComponent{}
	case ComponentWritingArea:
		return &WritingAreaComponent{}
	case ComponentExerciseHeader:
		return &ExerciseHeaderComponent{}
	case ComponentPageBreak:
		return &PageBreakComponent{}
	case ComponentGeometry:
		return &GeometryComponent{}
	case ComponentTimeline:
		return &TimelineComponent{}
	case ComponentMatching:
		return &MatchingComponent{}
	}
	return nil
}

// DecodeComponent decodes a single component object
func DecodeComponent(data []byte) (Component, error) {
	var probe struct {
		Type ComponentType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("decode component: %w", err)
	}

	c := NewComponent(probe.Type)
	if c == nil {
		unknown := &UnknownComponent{Raw: append([]byte(nil), data...)}
		if err := json.Unmarshal(data, &unknown.BaseComponent); err != nil {
			return nil, fmt.Errorf("decode component of type %q: %w", probe.Type, err)
		}
		return unknown, nil
	}

	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode %s component: %w", probe.Type, err)
	}
	c.Base().Type = probe.Type
	return c, nil
}

// EncodeComponent marshals c with its discriminator forced to its variant
func EncodeComponent(c Component) ([]byte, error) {
	if u, ok := c.(*UnknownComponent); ok {
		if len(u.Raw) > 0 {
			return u.Raw, nil
		}
		return json.Marshal(u.BaseComponent)
	}
	c.Base().Type = c.Kind()
	return json.Marshal(c)
}

// MarshalJSON implements json.Marshaler
func (cs Components) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(cs))
	for i, c := range cs {
		data, err := EncodeComponent(c)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		raws = append(raws, data)
	}
	return json.Marshal(raws)
}

// UnmarshalJSON implements json.Unmarshaler
func (cs *Components) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode components: %w", err)
	}

	out := make(Components, 0, len(raws))
	for i, raw := range raws {
		c, err := DecodeComponent(raw)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		out = append(out, c)
	}
	*cs = out
	return nil
}
