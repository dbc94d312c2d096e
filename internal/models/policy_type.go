// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// PolicyType identifies one of the public legal documents a site serves.
// It is the vocabulary of the public API; each policy type maps to the
// template type that renders it. The banner template type has no policy
// type — banners are consumed by the client-side injector, not served as
// documents.
type PolicyType string

const (
	PolicyTypeCookie  PolicyType = "cookie"
	PolicyTypePrivacy PolicyType = "privacy"
)

// Valid reports whether p is a supported policy type.
func (p PolicyType) Valid() bool {
	return p == PolicyTypeCookie || p == PolicyTypePrivacy
}

// TemplateType returns the template type that renders this policy.
func (p PolicyType) TemplateType() TemplateType {
	if p == PolicyTypeCookie {
		return TemplateTypeCookieNotice
	}
	return TemplateTypePolicy
}

// PolicyTypeForTemplate returns the policy type served by a template type,
// if any.
func PolicyTypeForTemplate(t TemplateType) (PolicyType, bool) {
	switch t {
	case TemplateTypeCookieNotice:
		return PolicyTypeCookie, true
	case TemplateTypePolicy:
		return PolicyTypePrivacy, true
	}
	return "", false
}
