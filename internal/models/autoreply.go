package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// KeywordReply is one keyword -> fixed reply row
type KeywordReply struct {
	Keyword string
	Reply   string
}

// KeywordTable preserves the insertion order of the snapshot's JSON object
type KeywordTable []KeywordReply

func (t KeywordTable) MarshalJSON() ([]byte, error) {
	return encodeOrderedObject(len(t), func(i int) (string, any) {
		return t[i].Keyword, t[i].Reply
	})
}

func (t *KeywordTable) UnmarshalJSON(data []byte) error {
	var out KeywordTable
	err := decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var reply string
		if err := json.Unmarshal(raw, &reply); err != nil {
			return fmt.Errorf("keyword %q: %w", key, err)
		}
		out = append(out, KeywordReply{Keyword: key, Reply: reply})
		return nil
	})
	if err != nil {
		return err
	}
	*t = out
	return nil
}

// AutoReplyRules is the keyword table plus the list served for the "rules" trigger
type AutoReplyRules struct {
	Keywords   KeywordTable `json:"keywords"`
	GroupRules []string     `json:"groupRules"`
}

func encodeOrderedObject(n int, at func(i int) (string, any)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		key, value := at(i)
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value for %q: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
