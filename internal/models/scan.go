// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Cookie is one cookie detected by the client scanner.
type Cookie struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	Category    string `json:"category"`
	Duration    string `json:"duration"`
	Description string `json:"description,omitempty"`
}

// ScanResult is an immutable snapshot of what the client scanner found on
// a site at one point in time. Only the most recent snapshot per site is
// ever consulted; scans are never merged.
type ScanResult struct {
	ID         uuid.UUID `json:"id"`
	SiteID     uuid.UUID `json:"site_id"`
	Cookies    []Cookie  `json:"cookies"`
	Scripts    []string  `json:"scripts"`
	CapturedAt time.Time `json:"captured_at"`
}
