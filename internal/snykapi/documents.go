package snykapi

import "strings"

const unknownAttributeValueConstant = "Unknown"

// GroupMembership describes a user's membership within a Snyk group.
type GroupMembership struct {
	MembershipID string `json:"membership_id"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
}

// OrganizationMembership describes a user's membership within an organization under a group.
type OrganizationMembership struct {
	MembershipID string `json:"membership_id"`
	OrgID        string `json:"org_id"`
	OrgName      string `json:"org_name"`
	UserID       string `json:"user_id"`
}

// resourceDocument models the JSON:API envelope returned by membership listing endpoints.
type resourceDocument struct {
	Data  []membershipResource `json:"data"`
	Links documentLinks        `json:"links"`
}

type documentLinks struct {
	Next string `json:"next"`
}

type membershipResource struct {
	ID            string                  `json:"id"`
	Relationships membershipRelationships `json:"relationships"`
}

type membershipRelationships struct {
	User relationshipObject `json:"user"`
	Role relationshipObject `json:"role"`
	Org  relationshipObject `json:"org"`
}

type relationshipObject struct {
	Data relationshipData `json:"data"`
}

type relationshipData struct {
	ID         string                 `json:"id"`
	Attributes relationshipAttributes `json:"attributes"`
}

type relationshipAttributes struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// groupMembership flattens the relationship graph of a group membership resource.
func (resource membershipResource) groupMembership() GroupMembership {
	return GroupMembership{
		MembershipID: resource.ID,
		UserID:       strings.TrimSpace(resource.Relationships.User.Data.ID),
		Email:        attributeOrUnknown(resource.Relationships.User.Data.Attributes.Email),
		Name:         attributeOrUnknown(resource.Relationships.User.Data.Attributes.Name),
		Role:         attributeOrUnknown(resource.Relationships.Role.Data.Attributes.Name),
	}
}

// organizationMembership flattens the relationship graph of an organization membership resource.
func (resource membershipResource) organizationMembership() OrganizationMembership {
	return OrganizationMembership{
		MembershipID: resource.ID,
		OrgID:        strings.TrimSpace(resource.Relationships.Org.Data.ID),
		OrgName:      attributeOrUnknown(resource.Relationships.Org.Data.Attributes.Name),
		UserID:       strings.TrimSpace(resource.Relationships.User.Data.ID),
	}
}

func attributeOrUnknown(attributeValue string) string {
	trimmedValue := strings.TrimSpace(attributeValue)
	if len(trimmedValue) == 0 {
		return unknownAttributeValueConstant
	}
	return trimmedValue
}
