// Package authz maps each protected route to the least privileged role that
// may call it. Routes without an entry are denied.
package authz

import (
	"net/http"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
)

type rule struct {
	method string
	path   string
}

// Paths use fiber route patterns as registered, including the /api prefix.
var table = map[rule]models.Role{
	{http.MethodGet, "/api/movies"}:                        models.RoleUser,
	{http.MethodGet, "/api/movies/search"}:                 models.RoleUser,
	{http.MethodGet, "/api/movies/genre/:genre"}:           models.RoleUser,
	{http.MethodGet, "/api/movies/director/:director"}:     models.RoleUser,
	{http.MethodGet, "/api/movies/random"}:                 models.RoleUser,
	{http.MethodGet, "/api/movies/recommendations/:genre"}: models.RoleUser,
	{http.MethodGet, "/api/movies/:id"}:                    models.RoleUser,
	{http.MethodPost, "/api/movies"}:                       models.RoleAdmin,
	{http.MethodPut, "/api/movies/:id"}:                    models.RoleEditor,
	{http.MethodDelete, "/api/movies/:id"}:                 models.RoleAdmin,

	{http.MethodGet, "/api/integration/search-external"}:     models.RoleAdmin,
	{http.MethodPost, "/api/integration/import/:externalId"}: models.RoleAdmin,
	{http.MethodPut, "/api/integration/sync/:id"}:            models.RoleAdmin,

	{http.MethodGet, "/api/statistics/total-movies"}:       models.RoleAdmin,
	{http.MethodGet, "/api/statistics/genres"}:             models.RoleAdmin,
	{http.MethodGet, "/api/statistics/years-distribution"}: models.RoleAdmin,
	{http.MethodGet, "/api/statistics/top-directors"}:      models.RoleAdmin,
}

// MinimumRole returns the role required for method and route pattern.
func MinimumRole(method, path string) (models.Role, bool) {
	if method == http.MethodHead {
		method = http.MethodGet
	}
	role, ok := table[rule{method: method, path: path}]
	return role, ok
}

// Allowed reports whether role may call method on the route pattern.
func Allowed(role models.Role, method, path string) bool {
	required, ok := MinimumRole(method, path)
	if !ok {
		return false
	}
	return role.AtLeast(required)
}
