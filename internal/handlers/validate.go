package handlers

import (
	"strings"
	"unicode/utf8"

	"policyhub/internal/models"
)

// Validation limits for template and site fields.
const (
	maxTemplateLen = 500_000
	maxDomainLen   = 300
	maxEmailLen    = 300
)

// validateTemplate checks a new template's type and content, returning
// the first error found.
func validateTemplate(tmplType models.TemplateType, content string) string {
	if !tmplType.Valid() {
		return "Invalid template type."
	}
	return validateContent(content)
}

// validateContent checks template content alone (used on updates, where
// the type is immutable).
func validateContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Template content is required."
	}
	if utf8.RuneCountInString(content) > maxTemplateLen {
		return "Template content is too long (max 500,000 characters)."
	}
	return ""
}

// validateSite checks the site fields the engine depends on. The other
// company fields may legitimately be empty — the variable aggregator has
// fallbacks for them.
func validateSite(domain, contactEmail string) string {
	if strings.TrimSpace(domain) == "" {
		return "Domain is required."
	}
	if utf8.RuneCountInString(domain) > maxDomainLen {
		return "Domain is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(contactEmail) > maxEmailLen {
		return "Contact email is too long (max 300 characters)."
	}
	if contactEmail != "" && !strings.Contains(contactEmail, "@") {
		return "Contact email is invalid."
	}
	return ""
}
