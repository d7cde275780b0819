package formmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const pageKeyPrefix = "page_"

// PageKey returns the document key of a 1-based page number.
func PageKey(n int) string { return pageKeyPrefix + strconv.Itoa(n) }

// ParsePageKey returns the page number of a "page_N" key.
func ParsePageKey(key string) (int, bool) {
	rest, ok := strings.CutPrefix(key, pageKeyPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Page is the entries found on one page.
type Page[T any] struct {
	Number int
	Items  []T
}

// PageMap is a document keyed by "page_N". Pages keep ascending page order
// when encoded, so the same map always produces the same bytes.
type PageMap[T any] []Page[T]

// Items returns the entries of page n, or nil when the page is absent.
func (m PageMap[T]) Items(n int) []T {
	for _, p := range m {
		if p.Number == n {
			return p.Items
		}
	}
	return nil
}

// Len returns the number of entries over all pages.
func (m PageMap[T]) Len() int {
	total := 0
	for _, p := range m {
		total += len(p.Items)
	}
	return total
}

// All returns every entry in page order.
func (m PageMap[T]) All() []T {
	out := make([]T, 0, m.Len())
	for _, p := range m {
		out = append(out, p.Items...)
	}
	return out
}

func (m PageMap[T]) sorted() PageMap[T] {
	out := make(PageMap[T], len(m))
	copy(out, m)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// MarshalJSON encodes the map as an object with page keys in numeric order.
// Empty pages are written as [] rather than null.
func (m PageMap[T]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range m.sorted() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(PageKey(p.Number))
		buf.Write(key)
		buf.WriteByte(':')

		items := p.Items
		if items == nil {
			items = []T{}
		}
		b, err := marshalNoEscape(items)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", PageKey(p.Number), err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object of "page_N" keys. Other keys are rejected.
func (m *PageMap[T]) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(PageMap[T], 0, len(raw))
	for key, body := range raw {
		n, ok := ParsePageKey(key)
		if !ok {
			return fmt.Errorf("unexpected key %q, want page_N", key)
		}
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return fmt.Errorf("failed to decode %s: %w", key, err)
		}
		if items == nil {
			items = []T{}
		}
		out = append(out, Page[T]{Number: n, Items: items})
	}
	*m = out.sorted()
	return nil
}

// MarshalYAML emits an ordered mapping of page keys.
func (m PageMap[T]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range m.sorted() {
		items := p.Items
		if items == nil {
			items = []T{}
		}
		value := &yaml.Node{}
		if err := value.Encode(items); err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", PageKey(p.Number), err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: PageKey(p.Number)},
			value)
	}
	return node, nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
