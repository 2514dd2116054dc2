// Package subjects extracts typed, authority-qualified subject terms from
// legacy metadata trees and resolves them against the migration's subject
// vocabulary map.
package subjects

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cca-libraries/vault-migrate/xmltree"
)

// Subject is a typed subject term. Two subjects are the same when type,
// value and authority all match; the same text under two authorities is
// two distinct subjects.
type Subject struct {
	// Type is one of Topic, Geographic, Name, Temporal, Genre (title case).
	Type string
	// Value is the term text.
	Value string
	// Authority is the uppercased source authority (LC, LOCAL, LC-NACO,
	// ULAN, LCSH, AAT), or "" when the metadata names none.
	Authority string
}

// New builds a Subject, normalizing type to title case and authority to
// upper case so dedup keys compare consistently.
func New(subjType, value, authority string) Subject {
	return Subject{
		Type:      titleCase(subjType),
		Value:     value,
		Authority: strings.ToUpper(authority),
	}
}

func (s Subject) String() string {
	repr := fmt.Sprintf("%s: %s", s.Type, s.Value)
	if s.Authority != "" {
		repr += fmt.Sprintf(" (%s)", s.Authority)
	}
	return repr
}

// Ref is the resolved output form: exactly one of ID or Subject is set.
// A hit in the vocabulary map yields {id}; a miss stays a free keyword
// {subject}, which the target schema allows.
type Ref struct {
	ID      string `json:"id,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Map is the preloaded term→ID vocabulary with lowercased keys.
type Map map[string]string

// LoadMap reads a subjects map JSON object from disk. A missing map file is
// a configuration error: conversion must not run without one.
func LoadMap(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading subjects map: %w", err)
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing subjects map %s: %w", path, err)
	}
	return m, nil
}

// Resolve converts the subject to its output form. Temporal subjects are
// their own IDs. Everything else is looked up case-insensitively in the
// vocabulary map; misses become free keywords.
func (s Subject) Resolve(m Map) (Ref, error) {
	if s.Type == "Temporal" {
		return Ref{ID: s.Value}, nil
	}
	if m == nil {
		return Ref{}, fmt.Errorf("no subjects map loaded, unable to resolve %q", s.Value)
	}
	if id, ok := m[strings.ToLower(s.Value)]; ok {
		return Ref{ID: id}, nil
	}
	return Ref{Subject: s.Value}, nil
}

// subject child element names we harvest. topicCona is a display quirk of
// the legacy cataloging templates and normalizes to topic.
var subjectTypes = []string{"geographic", "topic", "name", "topicCona", "temporal"}

// Find walks the metadata tree and returns the deduplicated subject set,
// sorted by (type, value). It harvests mods/subject children of each known
// type, genres under mods/genreWrapper, and the broad physical-description
// form fields, which catalogers used as genre terms.
func Find(tree *xmltree.Node) []Subject {
	seen := make(map[Subject]struct{})

	mods := tree.FindFirst("mods")
	if mods == nil && tree != nil && tree.Name == "mods" {
		mods = tree
	}

	for _, subj := range mods.FindAll("subject") {
		for _, typ := range subjectTypes {
			normalized := typ
			if typ == "topicCona" {
				normalized = "topic"
			}
			for _, node := range subj.FindAll(typ) {
				add(seen, normalized, node)
			}
		}
	}

	for _, wrapper := range mods.FindAll("genreWrapper") {
		for _, genre := range wrapper.FindAll("genre") {
			add(seen, "genre", genre)
		}
	}

	// physicalDescription/formBroad doubles as a genre vocabulary
	for _, form := range mods.FindAll("physicalDescription", "formBroad") {
		add(seen, "genre", form)
	}

	out := make([]Subject, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// add records one subject node, skipping blank text so empty tags never
// become empty-string subjects.
func add(seen map[Subject]struct{}, typ string, node *xmltree.Node) {
	text := node.Text()
	if text == "" {
		return
	}
	seen[New(typ, text, node.Attr("authority"))] = struct{}{}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
