// Package service composes the tenant registry, the document store and the
// library engines into the operations exposed over HTTP and the CLI.
package service

import (
	"github.com/listenupapp/readinglog-server/internal/tenant"
)

// resolveTenant maps a path token to a registered tenant id.
// Unknown tenants fail with NOT_FOUND before the store is touched.
func resolveTenant(registry *tenant.Registry, token string) (string, error) {
	profile, err := registry.Lookup(token)
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}
