// Package models defines the journal entry and the helpers that keep its
// invariants: defaults on creation, scores clamped to [0,100], and a
// display order that is always newest first.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateTimeLayout is the minute-precision local datetime entries are stamped with.
const DateTimeLayout = "2006-01-02T15:04"

// DefaultScore is applied to efficacy and intensity when a draft omits them.
const DefaultScore = 50

const (
	minScore = 0
	maxScore = 100
)

var ErrInvalidDateTime = errors.New("invalid date/time")

// Document field names, shared with the remote collection and the mirror.
const (
	FieldDataHora        = "dataHora"
	FieldSituacao        = "situacao"
	FieldPensamento      = "pensamento"
	FieldEmocao          = "emocao"
	FieldSintomasFisicos = "sintomasFisicos"
	FieldEstrategia      = "estrategia"
	FieldEficacia        = "eficacia"
	FieldIntensidade     = "intensidade"
)

// Entry is one journaled situation/thought/emotion event with two ratings.
// Entries are never mutated after creation.
type Entry struct {
	ID              string `json:"id"`
	DataHora        string `json:"dataHora"`
	Situacao        string `json:"situacao"`
	Pensamento      string `json:"pensamento"`
	Emocao          string `json:"emocao"`
	SintomasFisicos string `json:"sintomasFisicos"`
	Estrategia      string `json:"estrategia"`
	Eficacia        int    `json:"eficacia"`
	Intensidade     int    `json:"intensidade"`
}

// Draft is what the user submits: every field optional, no id.
// Nil scores take DefaultScore.
type Draft struct {
	DataHora        string
	Situacao        string
	Pensamento      string
	Emocao          string
	SintomasFisicos string
	Estrategia      string
	Eficacia        *int
	Intensidade     *int
}

// Score is a convenience for filling Draft score fields.
func Score(v int) *int { return &v }

// NewEntry applies defaults to d. A blank DataHora becomes now truncated to
// the minute; a non-blank one must parse (see ParseDateTime). The returned
// entry has no ID yet.
func NewEntry(d Draft, now time.Time) (Entry, error) {
	dataHora := strings.TrimSpace(d.DataHora)
	if dataHora == "" {
		dataHora = now.Local().Format(DateTimeLayout)
	} else if _, err := ParseDateTime(dataHora); err != nil {
		return Entry{}, err
	}

	return Entry{
		DataHora:        dataHora,
		Situacao:        d.Situacao,
		Pensamento:      d.Pensamento,
		Emocao:          d.Emocao,
		SintomasFisicos: d.SintomasFisicos,
		Estrategia:      d.Estrategia,
		Eficacia:        scoreOrDefault(d.Eficacia),
		Intensidade:     scoreOrDefault(d.Intensidade),
	}, nil
}

func scoreOrDefault(v *int) int {
	if v == nil {
		return DefaultScore
	}
	return ClampScore(*v)
}

// ClampScore forces v into [0,100].
func ClampScore(v int) int {
	return min(max(v, minScore), maxScore)
}

// ParseScore mirrors the range input of the form: anything that is not an
// integer counts as 0, everything else is clamped.
func ParseScore(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return ClampScore(v)
}

var dateTimeLayouts = []string{
	DateTimeLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime reads a dataHora value in local time. RFC 3339 values with an
// explicit offset are accepted and converted to local time.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateTime, s)
}

// Time returns the parsed DataHora and whether it was valid.
func (e Entry) Time() (time.Time, bool) {
	t, err := ParseDateTime(e.DataHora)
	return t, err == nil
}

// SortByDateDesc orders entries newest first in place. The sort is stable and
// entries with an unparseable date go last.
func SortByDateDesc(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		ta, okA := a.Time()
		tb, okB := b.Time()
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return tb.Compare(ta)
	})
}

// Sorted returns a newest-first copy of entries.
func Sorted(entries []Entry) []Entry {
	out := slices.Clone(entries)
	SortByDateDesc(out)
	return out
}

// Fields returns the document body of e, without the id.
func (e Entry) Fields() map[string]any {
	return map[string]any{
		FieldDataHora:        e.DataHora,
		FieldSituacao:        e.Situacao,
		FieldPensamento:      e.Pensamento,
		FieldEmocao:          e.Emocao,
		FieldSintomasFisicos: e.SintomasFisicos,
		FieldEstrategia:      e.Estrategia,
		FieldEficacia:        e.Eficacia,
		FieldIntensidade:     e.Intensidade,
	}
}

// FromFields builds an entry from a document body. Missing text decodes to ""
// and missing or non-numeric scores decode to 0.
func FromFields(id string, m map[string]any) Entry {
	return Entry{
		ID:              id,
		DataHora:        textField(m[FieldDataHora]),
		Situacao:        textField(m[FieldSituacao]),
		Pensamento:      textField(m[FieldPensamento]),
		Emocao:          textField(m[FieldEmocao]),
		SintomasFisicos: textField(m[FieldSintomasFisicos]),
		Estrategia:      textField(m[FieldEstrategia]),
		Eficacia:        scoreField(m[FieldEficacia]),
		Intensidade:     scoreField(m[FieldIntensidade]),
	}
}

func textField(v any) string {
	s, _ := v.(string)
	return s
}

func scoreField(v any) int {
	switch n := v.(type) {
	case int:
		return ClampScore(n)
	case int32:
		return ClampScore(int(n))
	case int64:
		return ClampScore(int(n))
	case float32:
		return ClampScore(int(n))
	case float64:
		return ClampScore(int(n))
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, ferr := n.Float64()
			if ferr != nil {
				return 0
			}
			i = int64(f)
		}
		return ClampScore(int(i))
	case string:
		return ParseScore(n)
	default:
		return 0
	}
}
