package ir

import (
	"fmt"
	"strings"
	"unicode"
)

// hoister extracts complex inline operation schemas into named components so
// they can be referenced and reused rather than duplicated at every site.
type hoister struct {
	builder    *builder
	components []*Component
	taken      map[string]bool
}

// maybeHoist replaces schema with a reference leaf to a new named component
// when its complexity exceeds the configured threshold. Reference leaves and
// simple schemas pass through untouched, so hoisting is monotone in
// complexity: a more complex schema is never less likely to be extracted.
func (h *hoister) maybeHoist(schema *CastrSchema, baseName string) *CastrSchema {
	if schema == nil || schema.Ref != "" {
		return schema
	}
	if complexity(schema) <= h.builder.cfg.complexityThreshold {
		return schema
	}

	name := h.claim(baseName)
	h.components = append(h.components, &Component{
		Type:    ComponentSchema,
		Name:    name,
		Schema:  schema,
		Hoisted: true,
	})
	h.builder.info("components.schemas."+name,
		fmt.Sprintf("hoisted inline schema (complexity %d)", complexity(schema)))

	return &CastrSchema{
		Ref:      "#/components/schemas/" + name,
		Metadata: newMetadata(schema.Metadata.Required, schema.Metadata.Nullable),
	}
}

// claim reserves a unique component name, suffixing a counter on collision
// with declared or previously hoisted names.
func (h *hoister) claim(baseName string) string {
	if h.taken == nil {
		h.taken = make(map[string]bool)
		if c := h.builder.doc.Components; c != nil && c.Schemas != nil {
			for _, name := range c.Schemas.Keys() {
				h.taken[name] = true
			}
		}
	}
	name := baseName
	for n := 2; h.taken[name]; n++ {
		name = fmt.Sprintf("%s%d", baseName, n)
	}
	h.taken[name] = true
	return name
}

// complexity counts the nodes in a schema tree.
func complexity(s *CastrSchema) int {
	if s == nil {
		return 0
	}
	count := 1
	if s.Properties != nil {
		s.Properties.All(func(_ string, prop *CastrSchema) bool {
			count += complexity(prop)
			return true
		})
	}
	count += complexity(s.Items)
	for _, item := range s.TupleItems {
		count += complexity(item)
	}
	for _, member := range s.AllOf {
		count += complexity(member)
	}
	for _, member := range s.OneOf {
		count += complexity(member)
	}
	for _, member := range s.AnyOf {
		count += complexity(member)
	}
	if s.AdditionalProperties != nil {
		count += complexity(s.AdditionalProperties.Schema)
	}
	return count
}

// pascal converts a rough identifier (kebab, snake, camel, or plain) to
// PascalCase, dropping anything that is not a letter or digit.
func pascal(s string) string {
	var sb strings.Builder
	upperNext := true
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = true
			continue
		}
		if upperNext {
			sb.WriteRune(unicode.ToUpper(r))
			upperNext = false
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
