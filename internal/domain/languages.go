package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// LanguageWeight is a single entry of a LanguageBreakdown.
type LanguageWeight struct {
	Language string
	Weight   int
}

// LanguageBreakdown maps language names to an accumulated weight (bytes of
// code, or 1 per repository when byte counts were unavailable).
// It remembers the order in which languages were first added; that order
// breaks ties when ranking. The zero value is an empty breakdown.
type LanguageBreakdown struct {
	order   []string
	weights map[string]int
}

// Add accumulates weight for a language.
func (b *LanguageBreakdown) Add(language string, weight int) {
	if b.weights == nil {
		b.weights = make(map[string]int)
	}
	if _, ok := b.weights[language]; !ok {
		b.order = append(b.order, language)
	}
	b.weights[language] += weight
}

// Entries returns all languages in first-insertion order.
func (b LanguageBreakdown) Entries() []LanguageWeight {
	entries := make([]LanguageWeight, 0, len(b.order))
	for _, lang := range b.order {
		entries = append(entries, LanguageWeight{Language: lang, Weight: b.weights[lang]})
	}
	return entries
}

// Map returns a copy of the breakdown as a plain map.
func (b LanguageBreakdown) Map() map[string]int {
	m := make(map[string]int, len(b.weights))
	for lang, weight := range b.weights {
		m[lang] = weight
	}
	return m
}

// MostUsed returns the language with the strictly highest weight. When several
// languages share the maximum, the one added first wins. An empty breakdown
// yields UnknownLanguage.
func (b LanguageBreakdown) MostUsed() string {
	best, bestWeight := UnknownLanguage, 0
	for i, lang := range b.order {
		if w := b.weights[lang]; i == 0 || w > bestWeight {
			best, bestWeight = lang, w
		}
	}
	return best
}

// Top returns up to n languages ordered by weight descending. Equal weights
// keep their insertion order.
func (b LanguageBreakdown) Top(n int) []LanguageWeight {
	entries := b.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Weight > entries[j].Weight
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// MarshalJSON encodes the breakdown as a JSON object in insertion order.
func (b LanguageBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lang := range b.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lang)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", b.weights[lang])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the document.
func (b *LanguageBreakdown) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("language breakdown: expected JSON object, got %v", tok)
	}

	*b = LanguageBreakdown{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		lang, ok := tok.(string)
		if !ok {
			return fmt.Errorf("language breakdown: unexpected key %v", tok)
		}
		var weight int
		if err := dec.Decode(&weight); err != nil {
			return fmt.Errorf("language breakdown: weight of %q: %w", lang, err)
		}
		b.Add(lang, weight)
	}
	_, err = dec.Token()
	return err
}
