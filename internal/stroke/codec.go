package stroke

import (
	"encoding/json"
	"fmt"
	"io"
)

// Encode writes strokes as indented JSON, the durable snapshot format.
func Encode(w io.Writer, strokes []Stroke) error {
	data, err := json.MarshalIndent(strokes, "", "  ")
	if err != nil {
		return fmt.Errorf("encode strokes: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write strokes: %w", err)
	}
	return nil
}

// Decode reads a stroke snapshot, silently dropping records that cannot be
// rendered: strokes with fewer than two points and strokes carrying an
// unrecognized tool. A malformed record never fails the whole load; only
// unparseable JSON does. It returns the surviving strokes and the number of
// records dropped.
func Decode(r io.Reader) ([]Stroke, int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read strokes: %w", err)
	}
	var raw []Stroke
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("decode strokes: %w", err)
	}

	strokes := make([]Stroke, 0, len(raw))
	dropped := 0
	for _, s := range raw {
		if !s.Renderable() || !s.Tool.Valid() {
			dropped++
			continue
		}
		strokes = append(strokes, s)
	}
	return strokes, dropped, nil
}
