package membership

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/snykaudit/internal/snykapi"
)

const (
	groupAdminRoleNameConstant = "Group Admin"

	fetchingMembershipsMessageConstant = "fetching group memberships"
	membershipsFetchedMessageConstant  = "group memberships fetched"
	checkingMemberMessageConstant      = "checking organization memberships"
	memberWithoutOrgsMessageConstant   = "member has no organization memberships"
	adminExcludedMessageConstant       = "group admin excluded from missing-organization findings"
	orgFetchFailedMessageConstant      = "organization membership fetch failed"

	logFieldGroupIDConstant     = "group_id"
	logFieldRoleFilterConstant  = "role_filter"
	logFieldMemberCountConstant = "member_count"
	logFieldUserIDConstant      = "user_id"
	logFieldEmailConstant       = "email"
	logFieldRoleConstant        = "role"
	logFieldOrgCountConstant    = "org_count"
	logFieldEndpointConstant    = "endpoint"
	logFieldStatusCodeConstant  = "status_code"
)

// DefaultRequestDelay paces sequential per-member fetches to avoid rate limiting.
const DefaultRequestDelay = 100 * time.Millisecond

// GroupMembershipLister fetches the memberships of a group.
type GroupMembershipLister interface {
	ListGroupMemberships(executionContext context.Context, groupID string, roleNameFilter string) ([]snykapi.GroupMembership, error)
}

// OrganizationMembershipLister fetches the organization memberships held by a user.
type OrganizationMembershipLister interface {
	ListOrganizationMemberships(executionContext context.Context, groupID string, userID string) ([]snykapi.OrganizationMembership, error)
}

// MembershipClient combines the listing operations required by the reconciliation.
type MembershipClient interface {
	GroupMembershipLister
	OrganizationMembershipLister
}

// Service reconciles group memberships against organization membership records.
type Service struct {
	logger       *zap.Logger
	client       MembershipClient
	requestDelay time.Duration
}

// NewService constructs a Service using the provided collaborators. A negative
// requestDelay selects the default pacing; zero disables pacing.
func NewService(logger *zap.Logger, client MembershipClient, requestDelay time.Duration) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if requestDelay < 0 {
		requestDelay = DefaultRequestDelay
	}
	return &Service{
		logger:       logger,
		client:       client,
		requestDelay: requestDelay,
	}
}

// Reconcile lists the group's memberships and classifies each member by
// organization access. Per-member fetch failures are recorded and do not
// abort the run; a group listing failure is fatal.
func (service *Service) Reconcile(executionContext context.Context, groupID string, roleNameFilter string) (ReconciliationResult, error) {
	service.logger.Info(
		fetchingMembershipsMessageConstant,
		zap.String(logFieldGroupIDConstant, groupID),
		zap.String(logFieldRoleFilterConstant, roleNameFilter),
	)

	groupMemberships, listError := service.client.ListGroupMemberships(executionContext, groupID, roleNameFilter)
	if listError != nil {
		return ReconciliationResult{}, listError
	}

	service.logger.Info(
		membershipsFetchedMessageConstant,
		zap.String(logFieldGroupIDConstant, groupID),
		zap.Int(logFieldMemberCountConstant, len(groupMemberships)),
	)

	result := ReconciliationResult{
		GroupMemberships:            groupMemberships,
		MembersWithOrganizations:    make([]MemberOrganizations, 0, len(groupMemberships)),
		MembersWithoutOrganizations: make([]snykapi.GroupMembership, 0),
		GroupAdminsExcluded:         make([]snykapi.GroupMembership, 0),
		Errors:                      make([]MemberError, 0),
	}

	for memberIndex, member := range groupMemberships {
		if memberIndex > 0 && service.requestDelay > 0 {
			if pauseError := pauseBetweenRequests(executionContext, service.requestDelay); pauseError != nil {
				return result, pauseError
			}
		}

		service.logger.Debug(
			checkingMemberMessageConstant,
			zap.String(logFieldUserIDConstant, member.UserID),
			zap.String(logFieldEmailConstant, member.Email),
			zap.String(logFieldRoleConstant, member.Role),
		)

		organizations, fetchError := service.client.ListOrganizationMemberships(executionContext, groupID, member.UserID)
		if fetchError != nil {
			if executionContext.Err() != nil {
				return result, fetchError
			}
			result.Errors = append(result.Errors, service.recordMemberError(member, fetchError))
			continue
		}

		switch {
		case len(organizations) > 0:
			result.MembersWithOrganizations = append(result.MembersWithOrganizations, MemberOrganizations{
				GroupMembership:   member,
				Organizations:     organizations,
				OrganizationCount: len(organizations),
			})
		case strings.EqualFold(member.Role, groupAdminRoleNameConstant):
			// Group admins hold access to every organization through their role.
			service.logger.Info(
				adminExcludedMessageConstant,
				zap.String(logFieldUserIDConstant, member.UserID),
				zap.String(logFieldEmailConstant, member.Email),
			)
			result.GroupAdminsExcluded = append(result.GroupAdminsExcluded, member)
		default:
			service.logger.Warn(
				memberWithoutOrgsMessageConstant,
				zap.String(logFieldUserIDConstant, member.UserID),
				zap.String(logFieldEmailConstant, member.Email),
				zap.Int(logFieldOrgCountConstant, 0),
			)
			result.MembersWithoutOrganizations = append(result.MembersWithoutOrganizations, member)
		}
	}

	return result, nil
}

func (service *Service) recordMemberError(member snykapi.GroupMembership, fetchError error) MemberError {
	memberError := MemberError{
		UserID:  member.UserID,
		Email:   member.Email,
		Message: fetchError.Error(),
	}

	statusCode := 0
	var apiError *snykapi.APIError
	if errors.As(fetchError, &apiError) {
		memberError.Endpoint = apiError.Endpoint
		statusCode = apiError.StatusCode
	}

	service.logger.Warn(
		orgFetchFailedMessageConstant,
		zap.String(logFieldUserIDConstant, member.UserID),
		zap.String(logFieldEmailConstant, member.Email),
		zap.String(logFieldEndpointConstant, memberError.Endpoint),
		zap.Int(logFieldStatusCodeConstant, statusCode),
	)

	return memberError
}

func pauseBetweenRequests(executionContext context.Context, requestDelay time.Duration) error {
	pauseTimer := time.NewTimer(requestDelay)
	defer pauseTimer.Stop()

	select {
	case <-executionContext.Done():
		return executionContext.Err()
	case <-pauseTimer.C:
		return nil
	}
}
