package service

import (
	"context"
	"encoding/json"
	"strings"
	"unicode"

	"github.com/joris-vdw/StyleCast/internal/port/llm"
)

// genKind tags the outcome of one generative call.
type genKind int

const (
	// genStructured: the model output parsed into the requested type.
	genStructured genKind = iota
	// genUnstructured: the call succeeded but the output is free text.
	genUnstructured
	// genFailed: the call itself failed.
	genFailed
)

// genResult is the tagged outcome of one generative call. Callers resolve
// all three variants into their canonical domain type in one place instead
// of scattering free-text parsing across stages.
type genResult[T any] struct {
	kind  genKind
	value T
	raw   string
	err   error
}

// generate runs one chat completion and attempts to parse the response as
// JSON into T. It never returns a partial value: either kind is
// genStructured and value is populated, genUnstructured and raw holds the
// model's text, or genFailed and err holds the call error.
func generate[T any](ctx context.Context, client llm.Client, req llm.ChatRequest) genResult[T] {
	resp, err := client.ChatCompletion(ctx, req)
	if err != nil {
		return genResult[T]{kind: genFailed, err: err}
	}

	var value T
	content := extractJSON(resp.Content)
	if err := json.Unmarshal([]byte(content), &value); err != nil {
		return genResult[T]{kind: genUnstructured, raw: strings.TrimSpace(resp.Content)}
	}
	return genResult[T]{kind: genStructured, value: value, raw: resp.Content}
}

// extractJSON attempts to extract a JSON object from a string that may contain
// markdown fences or other surrounding text.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Strip markdown code fences
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		return strings.TrimSpace(s)
	}

	// Find first { and last }
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}

	return s
}

// sanitizePromptInput strips control characters and common prompt injection
// patterns from user-supplied text before it is embedded in an LLM prompt.
func sanitizePromptInput(s string) string {
	// Strip non-printable control characters (keep newlines, tabs, spaces).
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	// Remove common prompt injection role markers at line beginnings.
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(strings.ToLower(line))
		for _, prefix := range []string{
			"system:", "assistant:", "user:", "[system]", "[assistant]",
			"<|system|>", "<|assistant|>", "<|im_start|>",
		} {
			if strings.HasPrefix(trimmed, prefix) {
				lines[i] = "[sanitized] " + line
				break
			}
		}
	}
	s = strings.Join(lines, "\n")

	const maxInputLen = 8000
	if len(s) > maxInputLen {
		s = s[:maxInputLen] + "\n[truncated]"
	}

	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
