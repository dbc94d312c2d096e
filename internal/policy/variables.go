// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"policyhub/internal/models"
)

// Known-plugin lookup tables: installed-plugin identifiers are matched
// case-insensitively by substring against these keys. When nothing
// matches, the generic fallback term is used — a token must never stay
// unresolved just because a site runs an unknown plugin.
var formPlugins = map[string]string{
	"contact-form-7": "Contact Form 7",
	"wpforms":        "WPForms",
	"gravityforms":   "Gravity Forms",
	"ninja-forms":    "Ninja Forms",
	"formidable":     "Formidable Forms",
}

var ecomPlugins = map[string]string{
	"woocommerce":            "WooCommerce",
	"easy-digital-downloads": "Easy Digital Downloads",
	"bigcommerce":            "BigCommerce",
	"ecwid":                  "Ecwid",
}

const (
	genericFormPlugin = "contact form"
	genericEcomPlugin = "e-commerce platform"
)

// matchPlugin resolves the first installed identifier that contains a
// known plugin key, returning its display name, or fallback when none do.
func matchPlugin(installed []string, known map[string]string, fallback string) string {
	for _, id := range installed {
		lower := strings.ToLower(id)
		for key, name := range known {
			if strings.Contains(lower, key) {
				return name
			}
		}
	}
	return fallback
}

// domainHostname extracts the hostname from a site's registered domain,
// which may be stored with or without a scheme, and reduces it to the
// registrable domain (eTLD+1) so "www.example.co.uk" becomes
// "example.co.uk". Falls back to the raw host when the public suffix
// list cannot place it.
func domainHostname(domain string) string {
	host := domain
	if strings.Contains(domain, "//") {
		if u, err := url.Parse(domain); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
	} else {
		// Bare "example.com/path" style values.
		if u, err := url.Parse("https://" + domain); err == nil && u.Hostname() != "" {
			host = u.Hostname()
		}
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}

// buildVariables assembles the flat variable mapping for one site from
// its record and latest scan. scan may be nil when the site has never
// been scanned — every cookie-derived variable then resolves to the
// no-cookies fallback. lastUpdated is the serving template's own
// updated_at (or "now" for demo and built-in default content).
func buildVariables(site *models.Site, scan *models.ScanResult, lastUpdated time.Time) map[string]string {
	domainName := domainHostname(site.Domain)

	companyOrDomain := site.CompanyName
	if companyOrDomain == "" {
		companyOrDomain = domainName
	}

	var cookies []models.Cookie
	if scan != nil {
		cookies = scan.Cookies
	}

	return map[string]string{
		"DOMAIN_NAME":              domainName,
		"COMPANY_NAME":             site.CompanyName,
		"COMPANY_NAME_OR_DOMAIN":   companyOrDomain,
		"ORG_NUMBER":               site.OrgNumber,
		"COMPANY_ADDRESS":          site.CompanyAddress,
		"CONTACT_EMAIL":            site.ContactEmail,
		"LAST_UPDATED_DATE":        FormatDate(lastUpdated),
		"FORM_PLUGIN_NAME":         matchPlugin(site.Plugins, formPlugins, genericFormPlugin),
		"ECOM_PLUGIN_NAME":         matchPlugin(site.Plugins, ecomPlugins, genericEcomPlugin),
		"COOKIES_ESSENTIAL_LIST":   CookieList(cookies, "essential"),
		"COOKIES_ANALYTICS_LIST":   CookieList(cookies, "analytics"),
		"COOKIES_FUNCTIONAL_LIST":  CookieList(cookies, "functional"),
		"COOKIES_ADVERTISING_LIST": CookieList(cookies, "advertising"),
		"COOKIE_TABLE":             CookieTable(cookies),
	}
}
