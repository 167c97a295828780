package membership

import (
	"errors"

	"github.com/temirov/snykaudit/internal/snykapi"
)

// ErrAuditFindings signals that the reconciliation surfaced members without
// organization access or per-member fetch failures.
var ErrAuditFindings = errors.New("group members without organization memberships or fetch errors detected")

// MemberOrganizations pairs a group membership with the organizations the user belongs to.
type MemberOrganizations struct {
	snykapi.GroupMembership
	Organizations     []snykapi.OrganizationMembership `json:"org_memberships"`
	OrganizationCount int                              `json:"org_membership_count"`
}

// MemberError records a per-member organization fetch failure.
type MemberError struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Endpoint string `json:"endpoint"`
	Message  string `json:"message"`
}

// ReconciliationResult classifies every fetched group membership into exactly
// one bucket: with organizations, without organizations, admin-excluded, or errored.
type ReconciliationResult struct {
	GroupMemberships            []snykapi.GroupMembership `json:"group_memberships"`
	MembersWithOrganizations    []MemberOrganizations     `json:"users_with_org_memberships"`
	MembersWithoutOrganizations []snykapi.GroupMembership `json:"users_without_org_memberships"`
	GroupAdminsExcluded         []snykapi.GroupMembership `json:"group_admins_excluded"`
	Errors                      []MemberError             `json:"errors"`
}

// HasFindings reports whether the result warrants a non-zero exit code.
func (result ReconciliationResult) HasFindings() bool {
	return len(result.MembersWithoutOrganizations) > 0 || len(result.Errors) > 0
}

// CommandOptions captures the configurable parameters for the check command.
type CommandOptions struct {
	Token      string
	GroupID    string
	RoleName   string
	Region     snykapi.Region
	APIVersion string
	OutputPath string
}
