package snykapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	// DefaultAPIVersion is the REST API version requested when no override is configured.
	DefaultAPIVersion = "2025-11-05"

	defaultPageLimitConstant                 = 100
	retryMaximumConstant                     = 3
	groupMembershipsEndpointTemplateConstant = "/rest/groups/%s/memberships"
	orgMembershipsEndpointTemplateConstant   = "/rest/groups/%s/org_memberships"
	restPathPrefixConstant                   = "/rest"
	groupsPathPrefixConstant                 = "/groups/"
	versionQueryParameterConstant            = "version"
	limitQueryParameterConstant              = "limit"
	userIDQueryParameterConstant             = "user_id"
	authorizationHeaderNameConstant          = "Authorization"
	authorizationHeaderTemplateConstant      = "token %s"
	contentTypeHeaderNameConstant            = "Content-Type"
	acceptHeaderNameConstant                 = "Accept"
	jsonAPIContentTypeConstant               = "application/vnd.api+json"
	tokenMissingErrorMessageConstant         = "api token must be provided"
	requestCreationErrorTemplateConstant     = "unable to create request for %s: %w"
	requestExecutionErrorTemplateConstant    = "request to %s failed: %w"
	responseReadErrorTemplateConstant        = "unable to read response from %s: %w"
	responseDecodeErrorTemplateConstant      = "unable to decode response from %s: %w"
	pageFetchedDebugMessageConstant          = "membership page fetched"
	missingUserWarningMessageConstant        = "membership missing user identifier"
	logFieldEndpointConstant                 = "endpoint"
	logFieldPageSizeConstant                 = "page_size"
	logFieldTotalCountConstant               = "total_count"
	logFieldMembershipIDConstant             = "membership_id"
)

var (
	requestTimeoutDuration   = 30 * time.Second
	retryWaitMinimumDuration = 1 * time.Second
	retryWaitMaximumDuration = 30 * time.Second
)

// HTTPClient abstracts HTTP execution for the Snyk API client.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// ClientConfiguration captures the parameters required to reach a regional Snyk API endpoint.
type ClientConfiguration struct {
	Token      string
	Region     Region
	APIVersion string
	BaseURL    string
	PageLimit  int
}

// Client performs paginated membership queries against the Snyk REST API.
type Client struct {
	logger     *zap.Logger
	httpClient HTTPClient
	baseURL    string
	token      string
	apiVersion string
	pageLimit  int
}

// NewClient constructs a Client using the provided collaborators or sensible defaults.
func NewClient(logger *zap.Logger, httpClient HTTPClient, configuration ClientConfiguration) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedToken := strings.TrimSpace(configuration.Token)
	if len(trimmedToken) == 0 {
		return nil, errors.New(tokenMissingErrorMessageConstant)
	}

	resolvedBaseURL := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(resolvedBaseURL) == 0 {
		resolvedBaseURL = configuration.Region.BaseURL()
	}

	resolvedAPIVersion := strings.TrimSpace(configuration.APIVersion)
	if len(resolvedAPIVersion) == 0 {
		resolvedAPIVersion = DefaultAPIVersion
	}

	resolvedPageLimit := configuration.PageLimit
	if resolvedPageLimit <= 0 {
		resolvedPageLimit = defaultPageLimitConstant
	}

	resolvedHTTPClient := httpClient
	if resolvedHTTPClient == nil {
		resolvedHTTPClient = newRetryingHTTPClient(retryWaitMinimumDuration, retryWaitMaximumDuration)
	}

	return &Client{
		logger:     logger,
		httpClient: resolvedHTTPClient,
		baseURL:    resolvedBaseURL,
		token:      trimmedToken,
		apiVersion: resolvedAPIVersion,
		pageLimit:  resolvedPageLimit,
	}, nil
}

// newRetryingHTTPClient builds the default transport with bounded retries.
// Retry-After headers on 429 responses are honored by the retry policy.
func newRetryingHTTPClient(retryWaitMinimum time.Duration, retryWaitMaximum time.Duration) *http.Client {
	retryingClient := retryablehttp.NewClient()
	retryingClient.RetryMax = retryMaximumConstant
	retryingClient.RetryWaitMin = retryWaitMinimum
	retryingClient.RetryWaitMax = retryWaitMaximum
	retryingClient.Logger = nil
	retryingClient.ErrorHandler = returnLastResponseErrorHandler
	retryingClient.HTTPClient.Timeout = requestTimeoutDuration
	return retryingClient.StandardClient()
}

// returnLastResponseErrorHandler hands the final response back to the caller
// once retries are exhausted. fetchDocument then reads its status and body to
// build an APIError; the default handler would discard the response and return
// a bare transport error instead.
func returnLastResponseErrorHandler(response *http.Response, responseError error, attemptCount int) (*http.Response, error) {
	if response != nil {
		return response, nil
	}
	return nil, responseError
}

// ListGroupMemberships fetches every membership of the group, exhausting pagination.
// When roleNameFilter is non-empty only memberships whose role matches it
// case-insensitively are returned.
func (client *Client) ListGroupMemberships(executionContext context.Context, groupID string, roleNameFilter string) ([]GroupMembership, error) {
	endpointPath := fmt.Sprintf(groupMembershipsEndpointTemplateConstant, url.PathEscape(groupID))
	resources, listError := client.listResources(executionContext, endpointPath, nil)
	if listError != nil {
		return nil, listError
	}

	trimmedRoleFilter := strings.TrimSpace(roleNameFilter)
	memberships := make([]GroupMembership, 0, len(resources))
	for _, resource := range resources {
		membership := resource.groupMembership()
		if len(membership.UserID) == 0 {
			client.logger.Warn(
				missingUserWarningMessageConstant,
				zap.String(logFieldMembershipIDConstant, membership.MembershipID),
			)
			continue
		}
		if len(trimmedRoleFilter) > 0 && !strings.EqualFold(membership.Role, trimmedRoleFilter) {
			continue
		}
		memberships = append(memberships, membership)
	}

	return memberships, nil
}

// ListOrganizationMemberships fetches every organization membership held by the user
// within the group, exhausting pagination. An empty slice means the user belongs to
// no organization.
func (client *Client) ListOrganizationMemberships(executionContext context.Context, groupID string, userID string) ([]OrganizationMembership, error) {
	endpointPath := fmt.Sprintf(orgMembershipsEndpointTemplateConstant, url.PathEscape(groupID))
	additionalParameters := url.Values{}
	additionalParameters.Set(userIDQueryParameterConstant, userID)

	resources, listError := client.listResources(executionContext, endpointPath, additionalParameters)
	if listError != nil {
		return nil, listError
	}

	memberships := make([]OrganizationMembership, 0, len(resources))
	for _, resource := range resources {
		memberships = append(memberships, resource.organizationMembership())
	}

	return memberships, nil
}

func (client *Client) listResources(executionContext context.Context, endpointPath string, additionalParameters url.Values) ([]membershipResource, error) {
	requestURL := client.buildInitialRequestURL(endpointPath, additionalParameters)

	var resources []membershipResource
	for len(requestURL) > 0 {
		document, fetchError := client.fetchDocument(executionContext, requestURL)
		if fetchError != nil {
			return nil, fetchError
		}

		resources = append(resources, document.Data...)
		client.logger.Debug(
			pageFetchedDebugMessageConstant,
			zap.String(logFieldEndpointConstant, endpointPath),
			zap.Int(logFieldPageSizeConstant, len(document.Data)),
			zap.Int(logFieldTotalCountConstant, len(resources)),
		)

		requestURL = client.resolveNextRequestURL(document.Links.Next)
	}

	return resources, nil
}

func (client *Client) buildInitialRequestURL(endpointPath string, additionalParameters url.Values) string {
	queryParameters := url.Values{}
	for parameterName, parameterValues := range additionalParameters {
		for _, parameterValue := range parameterValues {
			queryParameters.Add(parameterName, parameterValue)
		}
	}
	queryParameters.Set(versionQueryParameterConstant, client.apiVersion)
	queryParameters.Set(limitQueryParameterConstant, strconv.Itoa(client.pageLimit))

	return client.baseURL + endpointPath + "?" + queryParameters.Encode()
}

// resolveNextRequestURL converts a pagination link into an absolute request URL.
// The API returns relative next links that omit the /rest prefix.
func (client *Client) resolveNextRequestURL(nextLink string) string {
	trimmedLink := strings.TrimSpace(nextLink)
	if len(trimmedLink) == 0 {
		return ""
	}

	if strings.Contains(trimmedLink, "://") {
		return trimmedLink
	}

	if strings.HasPrefix(trimmedLink, groupsPathPrefixConstant) {
		trimmedLink = restPathPrefixConstant + trimmedLink
	}

	return client.baseURL + trimmedLink
}

func (client *Client) fetchDocument(executionContext context.Context, requestURL string) (resourceDocument, error) {
	endpointPath := endpointFromRequestURL(requestURL)

	request, requestCreationError := http.NewRequestWithContext(executionContext, http.MethodGet, requestURL, nil)
	if requestCreationError != nil {
		return resourceDocument{}, fmt.Errorf(requestCreationErrorTemplateConstant, endpointPath, requestCreationError)
	}

	request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderTemplateConstant, client.token))
	request.Header.Set(contentTypeHeaderNameConstant, jsonAPIContentTypeConstant)
	request.Header.Set(acceptHeaderNameConstant, jsonAPIContentTypeConstant)

	response, requestExecutionError := client.httpClient.Do(request)
	if requestExecutionError != nil {
		return resourceDocument{}, fmt.Errorf(requestExecutionErrorTemplateConstant, endpointPath, requestExecutionError)
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return resourceDocument{}, fmt.Errorf(responseReadErrorTemplateConstant, endpointPath, readError)
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return resourceDocument{}, &APIError{
			StatusCode: response.StatusCode,
			Endpoint:   endpointPath,
			Body:       strings.TrimSpace(string(responseBody)),
		}
	}

	var document resourceDocument
	if decodeError := json.Unmarshal(responseBody, &document); decodeError != nil {
		return resourceDocument{}, fmt.Errorf(responseDecodeErrorTemplateConstant, endpointPath, decodeError)
	}

	return document, nil
}

func endpointFromRequestURL(requestURL string) string {
	parsedURL, parseError := url.Parse(requestURL)
	if parseError != nil {
		return requestURL
	}
	return parsedURL.Path
}
