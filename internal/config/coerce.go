package config

import (
	"encoding/json"
	"strconv"
	"strings"
)

// coercer converts string values (from environment variables and CLI
// flags) to the types the schema expects.
type coercer struct {
	root map[string]any
}

func (c *coercer) coerceValue(schema map[string]any, value any) any {
	if value == nil || schema == nil {
		return value
	}
	schema = c.resolve(schema)

	switch typed := value.(type) {
	case string:
		return c.coerceString(schema, typed)
	case map[string]any:
		return c.coerceObject(schema, typed)
	case []any:
		return c.coerceArray(schema, typed)
	case []string:
		list := make([]any, 0, len(typed))
		for _, item := range typed {
			list = append(list, item)
		}
		return c.coerceArray(schema, list)
	default:
		return value
	}
}

func (c *coercer) resolve(schema map[string]any) map[string]any {
	ref, ok := schema["$ref"].(string)
	if !ok {
		return schema
	}
	name, ok := strings.CutPrefix(ref, "#/$defs/")
	if !ok {
		return schema
	}
	defs, _ := c.root["$defs"].(map[string]any)
	if resolved, ok := defs[name].(map[string]any); ok {
		return resolved
	}
	return schema
}

func (c *coercer) coerceObject(schema, obj map[string]any) any {
	properties, _ := schema["properties"].(map[string]any)
	for key, child := range obj {
		childSchema, ok := properties[key].(map[string]any)
		if !ok {
			continue
		}
		obj[key] = c.coerceValue(childSchema, child)
	}
	return obj
}

func (c *coercer) coerceArray(schema map[string]any, arr []any) any {
	items, ok := schema["items"].(map[string]any)
	if !ok {
		return arr
	}
	for i, child := range arr {
		arr[i] = c.coerceValue(items, child)
	}
	return arr
}

func (c *coercer) coerceString(schema map[string]any, value string) any {
	types := schemaTypes(schema)
	if len(types) == 0 {
		return value
	}

	if types["boolean"] {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}

	if types["integer"] {
		if i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return i
		}
	}

	if types["array"] {
		trimmed := strings.TrimSpace(value)
		if strings.HasPrefix(trimmed, "[") {
			var arr []any
			if err := json.Unmarshal([]byte(trimmed), &arr); err == nil {
				return c.coerceArray(schema, arr)
			}
		}

		parts := splitList(value)
		list := make([]any, 0, len(parts))
		for _, part := range parts {
			list = append(list, part)
		}
		return c.coerceArray(schema, list)
	}

	return value
}

func splitList(value string) []string {
	out := []string{}
	for part := range strings.SplitSeq(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func schemaTypes(schema map[string]any) map[string]bool {
	switch v := schema["type"].(type) {
	case string:
		return map[string]bool{v: true}
	case []any:
		out := make(map[string]bool, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out[s] = true
			}
		}
		return out
	}
	return nil
}
