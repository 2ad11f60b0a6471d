package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Question is a single multiple-choice question produced by the generation backend.
// Question, option and explanation texts are markdown.
type Question struct {
	ID            int     `json:"id"`
	Question      string  `json:"question"`
	Options       Options `json:"options"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
}

// Option is one answer choice, e.g. {Key: "A", Text: "foo"}.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Options is an ordered key → text mapping. It is encoded as a JSON object and keeps
// the order in which the object lists its keys.
type Options []Option

// Has reports whether key names one of the options.
func (o Options) Has(key string) bool {
	for _, opt := range o {
		if opt.Key == key {
			return true
		}
	}
	return false
}

// Text returns the text of the option named key, or "" when there is none.
func (o Options) Text(key string) string {
	for _, opt := range o {
		if opt.Key == key {
			return opt.Text
		}
	}
	return ""
}

// MarshalJSON encodes the options as an object in slice order.
func (o Options) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, opt := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(opt.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(opt.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string values, preserving key order.
// A repeated key keeps its first position and takes the last text.
func (o *Options) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("options: expected object, got %v", tok)
	}

	opts := make(Options, 0, 4)
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("options: unexpected key %v", tok)
		}

		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("options: value for %q: %w", key, err)
		}

		if i, seen := index[key]; seen {
			opts[i].Text = text
			continue
		}
		index[key] = len(opts)
		opts = append(opts, Option{Key: key, Text: text})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*o = opts
	return nil
}

// GenerationResult is the backend's answer to one generation request. It is never
// mutated after decoding.
type GenerationResult struct {
	Subject      string     `json:"subject"`
	Difficulty   string     `json:"difficulty"`
	NumQuestions int        `json:"num_questions"`
	Questions    []Question `json:"questions"`
}

// AnswerState maps a question id to the selected option key. Unanswered questions have no entry.
type AnswerState map[int]string
