// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package policy implements the policy rendering engine: token
// substitution over versioned templates, per-site variable aggregation,
// cookie list/table generation, and the cached read path that serves
// rendered legal documents.
package policy

import (
	"regexp"
	"time"
)

// tokenRe matches {{TOKEN}} placeholders. Token names are exact-case;
// {{company_name}} and {{COMPANY_NAME}} are different tokens.
var tokenRe = regexp.MustCompile(`\{\{([A-Za-z][A-Za-z0-9_]*)\}\}`)

// Render substitutes {{TOKEN}} placeholders in template with values from
// vars in a single left-to-right pass. Every occurrence of a token present
// in vars is replaced with its (possibly empty) value. Tokens absent from
// vars are left verbatim so that missing configuration is visible in the
// rendered page instead of silently blanked out; their names are returned
// so callers can log them. Substituted values are never re-scanned, so a
// value containing {{...}} cannot trigger further expansion. No HTML
// escaping is applied — template content and variables come from trusted
// administrative or system-collected sources.
func Render(template string, vars map[string]string) (string, []string) {
	var unresolved []string
	seen := make(map[string]bool)

	out := tokenRe.ReplaceAllStringFunc(template, func(match string) string {
		name := match[2 : len(match)-2]
		if val, ok := vars[name]; ok {
			return val
		}
		if !seen[name] {
			seen[name] = true
			unresolved = append(unresolved, name)
		}
		return match
	})

	return out, unresolved
}

// FormatDate renders a date as DD-MM-YYYY with zero-padded day and month,
// the format used for the LAST_UPDATED_DATE variable and nothing else.
func FormatDate(t time.Time) string {
	return t.Format("02-01-2006")
}
