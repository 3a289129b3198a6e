package ir

import (
	"sort"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/graph"
	"github.com/castrhq/castr/internal/issues"
	"github.com/castrhq/castr/internal/orderedmap"
	"github.com/castrhq/castr/internal/severity"
	"github.com/castrhq/castr/parser"
)

// DefaultResponseMode selects how the special "default" response key is
// interpreted. The key is semantically overloaded in real-world documents;
// the builder picks one deterministic interpretation per configuration
// rather than guessing per document.
type DefaultResponseMode string

const (
	// DefaultResponseSpecCompliant ignores a default response entirely: it
	// is an ambiguous fallback when an explicit 2xx exists, and the
	// specification recommends explicit codes when none does.
	DefaultResponseSpecCompliant DefaultResponseMode = "spec-compliant"

	// DefaultResponseAutoCorrect treats default as the error case when a
	// main response already exists, and promotes it to the main response
	// when none does.
	DefaultResponseAutoCorrect DefaultResponseMode = "auto-correct"
)

// DefaultComplexityThreshold is the inline-schema node count above which an
// anonymous operation schema is hoisted to a named component.
const DefaultComplexityThreshold = 10

// Option configures a Build run.
type Option func(*buildConfig) error

type buildConfig struct {
	defaultResponseMode DefaultResponseMode
	complexityThreshold int
	logger              parser.Logger
}

// WithDefaultResponseMode sets the default-response interpretation policy.
func WithDefaultResponseMode(mode DefaultResponseMode) Option {
	return func(cfg *buildConfig) error {
		switch mode {
		case DefaultResponseSpecCompliant, DefaultResponseAutoCorrect:
			cfg.defaultResponseMode = mode
			return nil
		}
		return &castrerrors.ConfigError{
			Option:  "WithDefaultResponseMode",
			Value:   string(mode),
			Message: "must be 'spec-compliant' or 'auto-correct'",
		}
	}
}

// WithComplexityThreshold sets the hoisting threshold: inline operation
// schemas whose node count exceeds it become named components.
func WithComplexityThreshold(n int) Option {
	return func(cfg *buildConfig) error {
		if n < 1 {
			return &castrerrors.ConfigError{
				Option:  "WithComplexityThreshold",
				Value:   n,
				Message: "must be at least 1",
			}
		}
		cfg.complexityThreshold = n
		return nil
	}
}

// WithLogger sets the logger used during building.
func WithLogger(logger parser.Logger) Option {
	return func(cfg *buildConfig) error {
		if logger == nil {
			return &castrerrors.ConfigError{Option: "WithLogger", Message: "logger cannot be nil"}
		}
		cfg.logger = logger
		return nil
	}
}

// BuildResult contains the results of building IR from a document.
type BuildResult struct {
	// Document is the built IR document
	Document *CastrDocument
	// Issues contains non-fatal observations gathered during the build
	Issues []issues.Issue
	// SchemaCount is the number of schema-kind components (hoisted included)
	SchemaCount int
	// OperationCount is the number of extracted operations
	OperationCount int
	// WarningCount is the number of warning-severity issues
	WarningCount int
	// Success is true when the build completed without warnings upgraded to
	// errors; fatal conditions surface as a returned error instead
	Success bool
}

// Build converts a parsed OpenAPI document into IR.
//
// Resolution and spec-violation errors abort the build and propagate to the
// caller; they represent invalid input that must be fixed upstream.
func Build(doc *parser.Document, opts ...Option) (*BuildResult, error) {
	cfg := &buildConfig{
		defaultResponseMode: DefaultResponseSpecCompliant,
		complexityThreshold: DefaultComplexityThreshold,
		logger:              parser.NopLogger(),
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	b := &builder{cfg: cfg, doc: doc}
	irDoc := &CastrDocument{
		Version:        IRVersion,
		OpenAPIVersion: doc.OpenAPI,
		Info:           doc.Info,
	}

	// Pass 1: named components in source order.
	if doc.Components != nil {
		if doc.Components.Schemas != nil {
			doc.Components.Schemas.All(func(name string, schema *parser.Schema) bool {
				irDoc.Components = append(irDoc.Components, &Component{
					Type:   ComponentSchema,
					Name:   name,
					Schema: b.convertSchema(schema, false),
				})
				return true
			})
		}
		for _, name := range sortedKeys(doc.Components.Parameters) {
			param := doc.Components.Parameters[name]
			schema, err := b.paramSchema(param, "components.parameters."+name)
			if err != nil {
				return nil, err
			}
			irDoc.Components = append(irDoc.Components, &Component{
				Type:   ComponentParameter,
				Name:   name,
				Schema: schema,
			})
		}
		for _, name := range sortedKeys(doc.Components.Responses) {
			resp := doc.Components.Responses[name]
			entry, err := b.convertResponse("default", resp, "components.responses."+name)
			if err != nil {
				return nil, err
			}
			irDoc.Components = append(irDoc.Components, &Component{
				Type:   ComponentResponse,
				Name:   name,
				Schema: firstContentSchema(entry),
			})
		}
		for _, name := range sortedKeys(doc.Components.RequestBodies) {
			body := doc.Components.RequestBodies[name]
			rb, err := b.convertRequestBody(body, "components.requestBodies."+name)
			if err != nil {
				return nil, err
			}
			var schema *CastrSchema
			if len(rb.ContentTypes) > 0 {
				schema = rb.Content[rb.ContentTypes[0]]
			}
			irDoc.Components = append(irDoc.Components, &Component{
				Type:   ComponentRequestBody,
				Name:   name,
				Schema: schema,
			})
		}
		for _, name := range sortedKeys(doc.Components.SecuritySchemes) {
			irDoc.Components = append(irDoc.Components, &Component{
				Type:           ComponentSecurityScheme,
				Name:           name,
				SecurityScheme: doc.Components.SecuritySchemes[name],
			})
		}
	}

	// Operation extraction, hoisting inline schemas as it goes.
	ops, hoisted, err := b.extractOperations()
	if err != nil {
		return nil, err
	}
	irDoc.Operations = ops
	irDoc.Components = append(irDoc.Components, hoisted...)

	// Pass 2: cross-cutting enrichment over the full component set.
	schemaComponents := irDoc.SchemaComponents()
	DetectCircular(schemaComponents)
	if err := b.attachDependencyGraph(irDoc, schemaComponents); err != nil {
		return nil, err
	}

	cfg.logger.Debug("IR built",
		"schemas", len(schemaComponents),
		"operations", len(irDoc.Operations),
		"issues", len(b.issues))

	result := &BuildResult{
		Document:       irDoc,
		Issues:         b.issues,
		SchemaCount:    len(schemaComponents),
		OperationCount: len(irDoc.Operations),
	}
	for _, issue := range b.issues {
		if issue.Severity == severity.SeverityWarning {
			result.WarningCount++
		}
	}
	result.Success = true
	return result, nil
}

// builder carries per-run state.
type builder struct {
	cfg    *buildConfig
	doc    *parser.Document
	issues []issues.Issue
}

func (b *builder) warn(path, message string) {
	b.issues = append(b.issues, issues.Issue{
		Path:     path,
		Message:  message,
		Severity: severity.SeverityWarning,
	})
}

func (b *builder) info(path, message string) {
	b.issues = append(b.issues, issues.Issue{
		Path:     path,
		Message:  message,
		Severity: severity.SeverityInfo,
	})
}

// convertSchema recursively converts one OpenAPI schema node. required
// records positional required-ness from the surrounding context. $ref nodes
// are preserved verbatim as reference leaves, never dereferenced into inline
// copies; that keeps the representation lossless and dependency tracking
// meaningful.
func (b *builder) convertSchema(s *parser.Schema, required bool) *CastrSchema {
	if s == nil {
		return &CastrSchema{Metadata: newMetadata(required, false)}
	}

	if s.IsRef() {
		return &CastrSchema{
			Ref:         s.Ref,
			Description: s.Description,
			Metadata:    newMetadata(required, false),
		}
	}

	nullable := s.Type.HasNull() || s.Nullable
	out := &CastrSchema{
		Type:        s.Type,
		Enum:        s.Enum,
		Const:       s.Const,
		Title:       s.Title,
		Description: s.Description,
		Default:     s.Default,
		Example:     s.Example,
		Examples:    s.Examples,
		Deprecated:  s.Deprecated,
		ReadOnly:    s.ReadOnly,
		WriteOnly:   s.WriteOnly,

		MultipleOf:       s.MultipleOf,
		Maximum:          s.Maximum,
		Minimum:          s.Minimum,
		ExclusiveMaximum: s.ExclusiveMaximum,
		ExclusiveMinimum: s.ExclusiveMinimum,

		MaxLength: s.MaxLength,
		MinLength: s.MinLength,
		Pattern:   s.Pattern,
		Format:    s.Format,

		MaxItems:    s.MaxItems,
		MinItems:    s.MinItems,
		UniqueItems: s.UniqueItems,

		Required:      s.Required,
		MaxProperties: s.MaxProperties,
		MinProperties: s.MinProperties,
		Discriminator: s.Discriminator,
		Metadata:      newMetadata(required, nullable),
	}

	if s.Items != nil {
		if s.Items.Schema != nil {
			out.Items = b.convertSchema(s.Items.Schema, false)
		}
		for _, item := range s.Items.Tuple {
			out.TupleItems = append(out.TupleItems, b.convertSchema(item, false))
		}
	}
	for _, item := range s.PrefixItems {
		out.TupleItems = append(out.TupleItems, b.convertSchema(item, false))
	}

	if s.Properties != nil {
		requiredSet := make(map[string]bool, len(s.Required))
		for _, name := range s.Required {
			requiredSet[name] = true
		}
		props := orderedmap.New[*CastrSchema]()
		s.Properties.All(func(name string, prop *parser.Schema) bool {
			props.Set(name, b.convertSchema(prop, requiredSet[name]))
			return true
		})
		out.Properties = props
	}
	if s.AdditionalProperties != nil {
		ap := &AdditionalProperties{Bool: s.AdditionalProperties.Bool}
		if s.AdditionalProperties.Schema != nil {
			ap.Schema = b.convertSchema(s.AdditionalProperties.Schema, false)
		}
		out.AdditionalProperties = ap
	}

	// Non-nil empty composition slices survive: an empty composition in the
	// source is an explicit terminal shape for the writers.
	if s.AllOf != nil {
		out.AllOf = make([]*CastrSchema, 0, len(s.AllOf))
		for _, member := range s.AllOf {
			out.AllOf = append(out.AllOf, b.convertSchema(member, false))
		}
	}
	if s.OneOf != nil {
		out.OneOf = make([]*CastrSchema, 0, len(s.OneOf))
		for _, member := range s.OneOf {
			out.OneOf = append(out.OneOf, b.convertSchema(member, false))
		}
	}
	if s.AnyOf != nil {
		out.AnyOf = make([]*CastrSchema, 0, len(s.AnyOf))
		for _, member := range s.AnyOf {
			out.AnyOf = append(out.AnyOf, b.convertSchema(member, false))
		}
	}

	return out
}

func newMetadata(required, nullable bool) *SchemaNode {
	presence := "optional"
	if required {
		presence = "required"
	}
	return &SchemaNode{
		Required: required,
		Nullable: nullable,
		Chain:    ValidationChain{Presence: presence},
	}
}

// attachDependencyGraph builds the document-level dependency graph keyed by
// schema name and fills per-component dependency metadata.
func (b *builder) attachDependencyGraph(irDoc *CastrDocument, components []*Component) error {
	refs := make([]string, 0, len(components))
	for _, c := range components {
		refs = append(refs, "#/components/schemas/"+c.Name)
	}

	adjacency := componentAdjacency(components)

	direct := make(map[string][]string, len(components))
	deep := make(map[string][]string, len(components))
	referencedBy := make(map[string][]string)

	// The structural walk over IR components covers hoisted schemas too,
	// which the raw document's components section does not contain.
	refSets := make(map[string]graph.RefSet, len(adjacency))
	for name, deps := range adjacency {
		set := make(graph.RefSet, len(deps))
		for dep := range deps {
			set.Add(dep)
		}
		refSets[name] = set
	}

	for name, deps := range adjacency {
		direct[name] = setToSorted(deps)
		for dep := range deps {
			if dep != name {
				referencedBy[dep] = append(referencedBy[dep], name)
			}
		}
	}
	for name := range adjacency {
		deep[name] = deepNames(name, adjacency)
	}

	order := graph.TopoSort(refSets)

	irDoc.DependencyGraph = &DependencyGraph{
		Direct: direct,
		Deep:   deep,
		Order:  order,
	}

	depths := make(map[string]int, len(adjacency))
	for _, c := range components {
		sort.Strings(referencedBy[c.Name])
		c.Schema.Metadata.Dependencies = DependencyInfo{
			References:   direct[c.Name],
			ReferencedBy: referencedBy[c.Name],
			Depth:        chainDepth(c.Name, adjacency, depths, map[string]bool{}),
		}
	}
	return nil
}

// chainDepth is the longest acyclic dependency chain below name. Cycle edges
// contribute nothing.
func chainDepth(name string, adj map[string]map[string]bool, memo map[string]int, onPath map[string]bool) int {
	if d, ok := memo[name]; ok {
		return d
	}
	if onPath[name] {
		return 0
	}
	onPath[name] = true
	deepest := 0
	for dep := range adj[name] {
		if dep == name {
			continue
		}
		if d := chainDepth(dep, adj, memo, onPath) + 1; d > deepest {
			deepest = d
		}
	}
	delete(onPath, name)
	memo[name] = deepest
	return deepest
}

// deepNames is the transitive closure of adjacency starting at name.
func deepNames(name string, adj map[string]map[string]bool) []string {
	visited := make(map[string]bool)
	stack := make([]string, 0, len(adj[name]))
	for dep := range adj[name] {
		stack = append(stack, dep)
	}
	closed := make(map[string]bool)
	for len(stack) > 0 {
		dep := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[dep] {
			continue
		}
		visited[dep] = true
		closed[dep] = true
		for next := range adj[dep] {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	out := make([]string, 0, len(closed))
	for dep := range closed {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

func setToSorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func firstContentSchema(resp *Response) *CastrSchema {
	if resp == nil || len(resp.ContentTypes) == 0 {
		return nil
	}
	return resp.Content[resp.ContentTypes[0]]
}
