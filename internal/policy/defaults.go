// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package policy

import "policyhub/internal/models"

// defaultTemplates are the built-in fallbacks served when no active
// template exists for a document type, so a legal page is available
// before an administrator has configured anything. They use the same
// {{TOKEN}} vocabulary as stored templates.
var defaultTemplates = map[models.TemplateType]string{
	models.TemplateTypeCookieNotice: `<article>
<h1>Cookie Policy for {{COMPANY_NAME_OR_DOMAIN}}</h1>
<p>Last updated: {{LAST_UPDATED_DATE}}</p>
<p>This website, {{DOMAIN_NAME}}, uses cookies to provide its services.
Below is an overview of the cookies in use.</p>
<h2>Necessary cookies</h2>
{{COOKIES_ESSENTIAL_LIST}}
<h2>Analytics cookies</h2>
{{COOKIES_ANALYTICS_LIST}}
<h2>Functional cookies</h2>
{{COOKIES_FUNCTIONAL_LIST}}
<h2>Advertising cookies</h2>
{{COOKIES_ADVERTISING_LIST}}
<h2>All detected cookies</h2>
{{COOKIE_TABLE}}
<p>Questions about this policy can be sent to {{CONTACT_EMAIL}}.</p>
</article>`,

	models.TemplateTypePolicy: `<article>
<h1>Privacy Policy for {{COMPANY_NAME_OR_DOMAIN}}</h1>
<p>Last updated: {{LAST_UPDATED_DATE}}</p>
<p>{{COMPANY_NAME_OR_DOMAIN}} (org. no. {{ORG_NUMBER}}), {{COMPANY_ADDRESS}},
operates the website {{DOMAIN_NAME}} and is the controller of personal data
collected through it.</p>
<h2>Contact forms</h2>
<p>When you submit a message through our {{FORM_PLUGIN_NAME}}, the details
you enter are stored so we can respond to your enquiry.</p>
<h2>Purchases</h2>
<p>Orders placed through our {{ECOM_PLUGIN_NAME}} require the personal data
necessary to deliver and invoice your purchase.</p>
<h2>Cookies</h2>
{{COOKIE_TABLE}}
<h2>Your rights</h2>
<p>You may request access to, correction of, or deletion of your personal
data by contacting {{CONTACT_EMAIL}}.</p>
</article>`,
}

// demoVariables is the fixed variable set behind the demo endpoints. It
// stands in for a real site record so prospective customers can preview
// a rendered document without registering.
func demoVariables() map[string]string {
	demoCookies := []models.Cookie{
		{Name: "session_id", Domain: "demo.example.com", Category: "essential", Duration: "Session"},
		{Name: "_ga", Domain: ".example.com", Category: "analytics", Duration: "2 years", Description: "Google Analytics visitor identifier"},
		{Name: "ads_pref", Domain: ".example.com", Category: "advertising", Duration: "30 days"},
	}

	return map[string]string{
		"DOMAIN_NAME":              "example.com",
		"COMPANY_NAME":             "Example Company Ltd",
		"COMPANY_NAME_OR_DOMAIN":   "Example Company Ltd",
		"ORG_NUMBER":               "123 456 789",
		"COMPANY_ADDRESS":          "1 Example Street, 0123 Exampleville",
		"CONTACT_EMAIL":            "privacy@example.com",
		"FORM_PLUGIN_NAME":         "Contact Form 7",
		"ECOM_PLUGIN_NAME":         "WooCommerce",
		"COOKIES_ESSENTIAL_LIST":   CookieList(demoCookies, "essential"),
		"COOKIES_ANALYTICS_LIST":   CookieList(demoCookies, "analytics"),
		"COOKIES_FUNCTIONAL_LIST":  CookieList(demoCookies, "functional"),
		"COOKIES_ADVERTISING_LIST": CookieList(demoCookies, "advertising"),
		"COOKIE_TABLE":             CookieTable(demoCookies),
	}
}
