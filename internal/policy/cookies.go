// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import (
	"strings"

	"policyhub/internal/models"
)

// noCookiesFallback is shown wherever a cookie list or table would
// otherwise be empty. Callers must never receive an empty <ul> or table.
const noCookiesFallback = `<p>No cookies have been detected on this website yet.</p>`

// categoryLabels maps scanner category identifiers to their display
// labels. An unrecognized category passes through verbatim.
var categoryLabels = map[string]string{
	"essential":   "Necessary",
	"analytics":   "Analytics",
	"functional":  "Functional",
	"advertising": "Advertising",
}

func categoryLabel(category string) string {
	if label, ok := categoryLabels[strings.ToLower(category)]; ok {
		return label
	}
	return category
}

// CookieList renders a <ul> of the cookies in the given category.
// Category matching is case-insensitive. Each entry has the form
// `name (domain, duration)` with ` - description` appended only when a
// description exists. When no cookie matches, the fixed fallback
// paragraph is returned instead of an empty list.
func CookieList(cookies []models.Cookie, category string) string {
	var b strings.Builder
	matched := false

	for _, c := range cookies {
		if !strings.EqualFold(c.Category, category) {
			continue
		}
		if !matched {
			b.WriteString("<ul>")
			matched = true
		}
		b.WriteString("<li>")
		b.WriteString(c.Name)
		b.WriteString(" (")
		b.WriteString(c.Domain)
		b.WriteString(", ")
		b.WriteString(c.Duration)
		b.WriteString(")")
		if c.Description != "" {
			b.WriteString(" - ")
			b.WriteString(c.Description)
		}
		b.WriteString("</li>")
	}

	if !matched {
		return noCookiesFallback
	}
	b.WriteString("</ul>")
	return b.String()
}

// CookieTable renders one table row per cookie with name, display
// category label, and duration columns. Empty input yields the same
// fallback paragraph as CookieList.
func CookieTable(cookies []models.Cookie) string {
	if len(cookies) == 0 {
		return noCookiesFallback
	}

	var b strings.Builder
	b.WriteString(`<table><thead><tr><th>Cookie</th><th>Category</th><th>Duration</th></tr></thead><tbody>`)
	for _, c := range cookies {
		b.WriteString("<tr><td>")
		b.WriteString(c.Name)
		b.WriteString("</td><td>")
		b.WriteString(categoryLabel(c.Category))
		b.WriteString("</td><td>")
		b.WriteString(c.Duration)
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}
