package domain

import (
	"time"

	"github.com/rackworks/rackdoc/pkg/idx"
)

// Site is a tenant boundary. The documentation entities that live inside a
// site (cable runs, devices, labels) are owned elsewhere; this core only
// references sites by id for authorization.
type Site struct {
	ID        idx.ID
	Code      string // unique short code, e.g. "SYD1"
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
