package ir

import (
	"fmt"
	"sort"
	"strings"

	"github.com/castrhq/castr/castrerrors"
	"github.com/castrhq/castr/parser"
)

// extractOperations walks paths in sorted order and methods in fixed order,
// building one Operation per method/path pair. Inline schemas above the
// complexity threshold are hoisted into named components, returned alongside
// the operations for appending to the document.
func (b *builder) extractOperations() ([]*Operation, []*Component, error) {
	h := &hoister{builder: b}

	paths := make([]string, 0, len(b.doc.Paths))
	for path := range b.doc.Paths {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var ops []*Operation
	for _, path := range paths {
		item := b.doc.Paths[path]
		if item == nil {
			continue
		}
		for _, mo := range item.Operations() {
			op, err := b.extractOperation(mo.Method, path, item, mo.Operation, h)
			if err != nil {
				return nil, nil, err
			}
			ops = append(ops, op)
		}
	}
	return ops, h.components, nil
}

func (b *builder) extractOperation(method, path string, item *parser.PathItem, src *parser.Operation, h *hoister) (*Operation, error) {
	id := src.OperationID
	if id == "" {
		id = fallbackOperationID(method, path)
		b.warn(
			fmt.Sprintf("paths.%s.%s", path, method),
			fmt.Sprintf("operation has no operationId; using generated alias %q", id),
		)
	}
	opPath := fmt.Sprintf("paths.%s.%s", path, method)

	op := &Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     src.Summary,
		Description: src.Description,
		Tags:        src.Tags,
		Deprecated:  src.Deprecated,
	}

	params, err := b.extractParameters(item, src, opPath, id, h)
	if err != nil {
		return nil, err
	}
	op.Parameters = params

	if src.RequestBody != nil {
		body, err := b.convertRequestBody(src.RequestBody, opPath+".requestBody")
		if err != nil {
			return nil, err
		}
		for ct, schema := range body.Content {
			body.Content[ct] = h.maybeHoist(schema, pascal(id)+"Body")
		}
		op.RequestBody = body
	}

	if src.Responses != nil {
		if err := b.extractResponses(op, src.Responses, opPath, id, h); err != nil {
			return nil, err
		}
	}

	return op, nil
}

// extractParameters merges path-item-level parameters with operation-level
// ones (same name+location at the operation level wins), resolves refs, tags
// locations, and forces path parameters required regardless of the source.
func (b *builder) extractParameters(item *parser.PathItem, src *parser.Operation, opPath, opID string, h *hoister) ([]*Param, error) {
	type key struct{ name, in string }

	merged := make([]*parser.Parameter, 0, len(item.Parameters)+len(src.Parameters))
	index := make(map[key]int)

	add := func(p *parser.Parameter) error {
		resolved := p
		if p.Ref != "" {
			target, err := parser.Resolve(b.doc, p.Ref)
			if err != nil {
				return err
			}
			var ok bool
			resolved, ok = target.(*parser.Parameter)
			if !ok {
				return &castrerrors.RefError{
					Ref:     p.Ref,
					Kind:    castrerrors.RefKindInvalid,
					Message: "expected a parameter component",
				}
			}
		}
		k := key{resolved.Name, resolved.In}
		if at, exists := index[k]; exists {
			merged[at] = resolved
			return nil
		}
		index[k] = len(merged)
		merged = append(merged, resolved)
		return nil
	}

	for _, p := range item.Parameters {
		if err := add(p); err != nil {
			return nil, err
		}
	}
	for _, p := range src.Parameters {
		if err := add(p); err != nil {
			return nil, err
		}
	}

	out := make([]*Param, 0, len(merged))
	for i, p := range merged {
		paramPath := fmt.Sprintf("%s.parameters[%d]", opPath, i)
		schema, err := b.paramSchema(p, paramPath)
		if err != nil {
			return nil, err
		}

		required := p.Required
		if p.In == "path" {
			// Path parameters are always required; documents that omit the
			// flag are corrected rather than propagating an impossible shape.
			required = true
		}
		schema.Metadata.Required = required
		if required {
			schema.Metadata.Chain.Presence = "required"
		}

		out = append(out, &Param{
			Name:        p.Name,
			Location:    p.In,
			Required:    required,
			Deprecated:  p.Deprecated,
			Description: p.Description,
			Schema:      h.maybeHoist(schema, pascal(opID)+pascal(p.Name)+"Param"),
		})
	}
	return out, nil
}

// paramSchema converts a parameter's schema, falling back to its content map.
// A parameter carrying neither is a spec violation.
func (b *builder) paramSchema(p *parser.Parameter, path string) (*CastrSchema, error) {
	if p.Ref != "" {
		target, err := parser.Resolve(b.doc, p.Ref)
		if err != nil {
			return nil, err
		}
		resolved, ok := target.(*parser.Parameter)
		if !ok {
			return nil, &castrerrors.RefError{
				Ref:     p.Ref,
				Kind:    castrerrors.RefKindInvalid,
				Message: "expected a parameter component",
			}
		}
		p = resolved
	}

	if p.Schema != nil {
		return b.convertSchema(p.Schema, p.Required), nil
	}
	if len(p.Content) > 0 {
		for _, ct := range sortedKeys(p.Content) {
			if media := p.Content[ct]; media != nil && media.Schema != nil {
				return b.convertSchema(media.Schema, p.Required), nil
			}
		}
	}
	return nil, &castrerrors.SpecViolationError{
		Path:    path,
		Element: p.Name,
		Message: "parameter must have either 'schema' or 'content'",
		SpecRef: "https://spec.openapis.org/oas/v3.1.0#parameter-object",
	}
}

// convertRequestBody resolves the body (possibly by ref) and converts its
// content map. Unsupported media types throw rather than silently dropping
// the body.
func (b *builder) convertRequestBody(body *parser.RequestBody, path string) (*RequestBody, error) {
	if body.Ref != "" {
		target, err := parser.Resolve(b.doc, body.Ref)
		if err != nil {
			return nil, err
		}
		resolved, ok := target.(*parser.RequestBody)
		if !ok {
			return nil, &castrerrors.RefError{
				Ref:     body.Ref,
				Kind:    castrerrors.RefKindInvalid,
				Message: "expected a requestBody component",
			}
		}
		body = resolved
	}

	out := &RequestBody{
		Required:    body.Required,
		Description: body.Description,
		Content:     make(map[string]*CastrSchema, len(body.Content)),
	}
	for _, ct := range sortedKeys(body.Content) {
		if !supportedContentType(ct) {
			return nil, &castrerrors.SpecViolationError{
				Path:    path,
				Element: ct,
				Message: fmt.Sprintf("unsupported request body content type %q", ct),
			}
		}
		media := body.Content[ct]
		var schema *parser.Schema
		if media != nil {
			schema = media.Schema
		}
		out.Content[ct] = b.convertSchema(schema, body.Required)
		out.ContentTypes = append(out.ContentTypes, ct)
	}
	return out, nil
}

// supportedContentType accepts JSON-like media types, form-urlencoded,
// multipart, octet-stream, and the */* wildcard.
func supportedContentType(ct string) bool {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	switch {
	case ct == "*/*":
		return true
	case ct == "application/json" || strings.HasSuffix(ct, "+json"):
		return true
	case ct == "application/x-www-form-urlencoded":
		return true
	case strings.HasPrefix(ct, "multipart/"):
		return true
	case ct == "application/octet-stream":
		return true
	}
	return false
}

// extractResponses converts the response map in source order, classifies
// success vs error responses, and applies the configured default-response
// policy.
func (b *builder) extractResponses(op *Operation, src *parser.Responses, opPath, opID string, h *hoister) error {
	for _, status := range src.Order {
		entry, err := b.convertResponse(status, src.Codes[status], fmt.Sprintf("%s.responses.%s", opPath, status))
		if err != nil {
			return err
		}
		for ct, schema := range entry.Content {
			entry.Content[ct] = h.maybeHoist(schema, pascal(opID)+"Response"+pascal(status))
		}
		op.Responses = append(op.Responses, entry)

		if isSuccessStatus(status) {
			if op.Main == nil {
				op.Main = entry
			} else {
				op.Errors = append(op.Errors, entry)
			}
		} else {
			op.Errors = append(op.Errors, entry)
		}
	}

	if src.Default == nil {
		return nil
	}

	switch b.cfg.defaultResponseMode {
	case DefaultResponseAutoCorrect:
		entry, err := b.convertResponse("default", src.Default, opPath+".responses.default")
		if err != nil {
			return err
		}
		for ct, schema := range entry.Content {
			entry.Content[ct] = h.maybeHoist(schema, pascal(opID)+"ResponseDefault")
		}
		op.Responses = append(op.Responses, entry)
		if op.Main != nil {
			op.Errors = append(op.Errors, entry)
		} else {
			op.Main = entry
		}
	default:
		// Spec-compliant: the fallback is ambiguous with an explicit 2xx and
		// discouraged without one, so it is dropped either way.
		op.IgnoredFallback = true
		b.info(opPath+".responses.default",
			"default response ignored under spec-compliant policy")
	}
	return nil
}

// convertResponse resolves a response (possibly by ref) and converts its
// content map. A response with no schema-bearing content is a spec violation.
func (b *builder) convertResponse(status string, resp *parser.Response, path string) (*Response, error) {
	if resp.Ref != "" {
		target, err := parser.Resolve(b.doc, resp.Ref)
		if err != nil {
			return nil, err
		}
		resolved, ok := target.(*parser.Response)
		if !ok {
			return nil, &castrerrors.RefError{
				Ref:     resp.Ref,
				Kind:    castrerrors.RefKindInvalid,
				Message: "expected a response component",
			}
		}
		resp = resolved
	}

	if len(resp.Content) == 0 {
		return nil, &castrerrors.SpecViolationError{
			Path:    path,
			Element: status,
			Message: "response must have either 'schema' or 'content'",
		}
	}

	out := &Response{
		Status:      status,
		Description: resp.Description,
		Content:     make(map[string]*CastrSchema, len(resp.Content)),
	}
	for _, ct := range sortedKeys(resp.Content) {
		media := resp.Content[ct]
		var schema *parser.Schema
		if media != nil {
			schema = media.Schema
		}
		out.Content[ct] = b.convertSchema(schema, false)
		out.ContentTypes = append(out.ContentTypes, ct)
	}
	return out, nil
}

// isSuccessStatus covers explicit 2xx codes and the 2XX wildcard.
func isSuccessStatus(status string) bool {
	return len(status) == 3 && status[0] == '2'
}

// fallbackOperationID builds a deterministic method+path alias, e.g.
// GET /pets/{petId} becomes "getPetsPetId".
func fallbackOperationID(method, path string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(method))
	for _, segment := range strings.Split(path, "/") {
		segment = strings.Trim(segment, "{}")
		sb.WriteString(pascal(segment))
	}
	return sb.String()
}
