// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Site represents one registered website. It is owned by the registration
// subsystem and read-only to the policy engine; the registration subsystem
// is responsible for calling the site invalidation hook on every update.
type Site struct {
	ID             uuid.UUID `json:"id"`
	Domain         string    `json:"domain"`
	CompanyName    string    `json:"company_name"`
	ContactEmail   string    `json:"contact_email"`
	OrgNumber      string    `json:"org_number"`
	CompanyAddress string    `json:"company_address"`
	Plugins        []string  `json:"plugins"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
