package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/review-analyzer/internal/types"
)

// Top-level fields that path edits cannot touch. Feedback has ToggleFeedback.
var protectedFields = map[string]bool{
	"id":       true,
	"savedAt":  true,
	"raw_text": true,
	"feedback": true,
}

// ReviseField replaces the value at a dotted path of the current result,
// for example "fortalezas.1" or "analisis_evolucion.resumen_trayectoria".
// The edit is local; nothing is persisted until Save.
func (c *Controller) ReviseField(path string, value any) error {
	return c.edit(path, func(parent any, key string) error {
		v, err := normalize(value)
		if err != nil {
			return err
		}
		return setChild(parent, key, v)
	})
}

// AppendItem appends value to the list at path.
func (c *Controller) AppendItem(path string, value any) error {
	return c.edit(path, func(parent any, key string) error {
		v, err := normalize(value)
		if err != nil {
			return err
		}
		var child any
		if m, ok := parent.(map[string]any); ok {
			child = m[key] // empty lists are omitted from the document
		} else {
			c, err := getChild(parent, key)
			if err != nil {
				return err
			}
			child = c
		}
		var list []any
		switch t := child.(type) {
		case nil:
		case []any:
			list = t
		default:
			return &ValidationError{Field: path, Message: "not a list"}
		}
		return setChild(parent, key, append(list, v))
	})
}

// RemoveItem removes the element at index from the list at path.
func (c *Controller) RemoveItem(path string, index int) error {
	return c.edit(path, func(parent any, key string) error {
		child, err := getChild(parent, key)
		if err != nil {
			return err
		}
		list, ok := child.([]any)
		if !ok {
			return &ValidationError{Field: path, Message: "not a list"}
		}
		if index < 0 || index >= len(list) {
			return &ValidationError{Field: path, Message: fmt.Sprintf("index %d out of range", index)}
		}
		next := make([]any, 0, len(list)-1)
		next = append(next, list[:index]...)
		next = append(next, list[index+1:]...)
		return setChild(parent, key, next)
	})
}

// ToggleFeedback sets the feedback, or clears it when f is already active.
func (c *Controller) ToggleFeedback(f types.Feedback) (*types.Feedback, error) {
	if f != types.FeedbackUp && f != types.FeedbackDown {
		return nil, &ValidationError{Field: "feedback", Message: fmt.Sprintf("unknown value %q", f)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return nil, ErrNoResult
	}
	c.current.ToggleFeedback(f)
	if c.current.Feedback == nil {
		return nil, nil
	}
	out := *c.current.Feedback
	return &out, nil
}

// edit applies fn to the parent container of path inside a JSON view of the
// current result. The current result only changes if the edited document
// still decodes cleanly.
func (c *Controller) edit(path string, fn func(parent any, key string) error) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return ErrNoResult
	}

	doc, err := toDocument(c.current)
	if err != nil {
		return err
	}

	var parent any = doc
	for _, seg := range segments[:len(segments)-1] {
		if parent, err = getChild(parent, seg); err != nil {
			return &ValidationError{Field: path, Message: err.Error()}
		}
	}
	if err := fn(parent, segments[len(segments)-1]); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return err
		}
		return &ValidationError{Field: path, Message: err.Error()}
	}

	next, err := fromDocument(doc)
	if err != nil {
		return &ValidationError{Field: path, Message: err.Error()}
	}
	if err := checkScores(path, segments[0], next); err != nil {
		return err
	}
	c.current = next
	return nil
}

// Score scales, matching the evaluation_result schema.
const (
	minOverallScore    = 1
	maxOverallScore    = 10
	minCompetencyScore = 1
	maxCompetencyScore = 5
)

// checkScores keeps edited scores on their scales. Only the edited
// top-level field is checked.
func checkScores(path, field string, r *types.EvaluationResult) error {
	switch field {
	case "puntuacion_general":
		if r.PuntuacionGeneral < minOverallScore || r.PuntuacionGeneral > maxOverallScore {
			return &ValidationError{Field: path, Message: fmt.Sprintf("score must be between %d and %d", minOverallScore, maxOverallScore)}
		}
	case "competencias_evaluadas":
		for i, comp := range r.CompetenciasEvaluadas {
			if comp.Puntuacion < minCompetencyScore || comp.Puntuacion > maxCompetencyScore {
				return &ValidationError{
					Field:   fmt.Sprintf("competencias_evaluadas.%d.puntuacion", i),
					Message: fmt.Sprintf("score must be between %d and %d", minCompetencyScore, maxCompetencyScore),
				}
			}
		}
	}
	return nil
}

func splitPath(path string) ([]string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, &ValidationError{Field: "path", Message: "empty path"}
	}
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, &ValidationError{Field: path, Message: "empty path segment"}
		}
	}
	if protectedFields[segments[0]] {
		return nil, &ValidationError{Field: path, Message: "field is not editable"}
	}
	return segments, nil
}

func getChild(container any, key string) (any, error) {
	switch t := container.(type) {
	case map[string]any:
		v, ok := t[key]
		if !ok {
			return nil, fmt.Errorf("field %q not found", key)
		}
		return v, nil
	case []any:
		i, err := listIndex(t, key)
		if err != nil {
			return nil, err
		}
		return t[i], nil
	default:
		return nil, fmt.Errorf("cannot descend into %q", key)
	}
}

func setChild(container any, key string, value any) error {
	switch t := container.(type) {
	case map[string]any:
		t[key] = value
		return nil
	case []any:
		i, err := listIndex(t, key)
		if err != nil {
			return err
		}
		t[i] = value
		return nil
	default:
		return fmt.Errorf("cannot set %q", key)
	}
}

func listIndex(list []any, key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("%q is not a list index", key)
	}
	if i < 0 || i >= len(list) {
		return 0, fmt.Errorf("index %d out of range", i)
	}
	return i, nil
}

// normalize turns any JSON-encodable value into its generic decoded form.
func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("value is not JSON-encodable: %v", err)}
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func toDocument(r *types.EvaluationResult) (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromDocument decodes strictly: unknown fields and type mismatches fail.
func fromDocument(doc map[string]any) (*types.EvaluationResult, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var out types.EvaluationResult
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
