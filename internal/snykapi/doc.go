// Package snykapi provides a typed client for the Snyk REST API.
//
// It defines Region helpers that resolve the regional API base URLs, the
// GroupMembership and OrganizationMembership records flattened from JSON:API
// response documents, and the Client which performs paginated listing of
// group and organization memberships. The package powers the membership
// audit CLI commands and can be reused against self-hosted endpoints.
package snykapi
