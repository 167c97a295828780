package membership

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

const (
	reportBannerConstant                 = "================================================================================"
	reportSectionRuleConstant            = "--------------------------------------------------------------------------------"
	reportTitleConstant                  = "SNYK MEMBERSHIP CHECK RESULTS"
	reportGroupIDTemplateConstant        = "Group ID: %s\n"
	reportRoleFilterTemplateConstant     = "Role Filter: %s\n"
	reportTotalTemplateConstant          = "Total Group Memberships Found: %d\n"
	reportWithOrgsTemplateConstant       = "Users WITH Org Memberships: %d\n"
	reportWithoutOrgsTemplateConstant    = "Users WITHOUT Org Memberships: %d\n"
	reportAdminsExcludedTemplateConstant = "Group Admins Excluded (have access to all orgs): %d\n"
	reportErrorsTemplateConstant         = "Errors: %d\n"
	reportWithoutOrgsHeadingConstant     = "USERS WITHOUT ORGANIZATION MEMBERSHIPS:"
	reportWithOrgsHeadingConstant        = "USERS WITH ORGANIZATION MEMBERSHIPS:"
	reportAdminsHeadingConstant          = "GROUP ADMINS EXCLUDED (Have Access to All Organizations):"
	reportErrorsHeadingConstant          = "ERRORS:"
	reportMemberTemplateConstant         = "  - %s (%s)\n"
	reportUserIDTemplateConstant         = "    User ID: %s\n"
	reportRoleTemplateConstant           = "    Role: %s\n"
	reportOrgCountTemplateConstant       = "    Org Memberships: %d\n"
	reportOrgNameTemplateConstant        = "      - %s\n"
	reportErrorTemplateConstant          = "  - %s: %s\n"

	jsonReportIndentConstant          = "  "
	jsonReportFilePermissionsConstant = 0o644
	jsonMarshalErrorTemplateConstant  = "unable to encode JSON report: %w"
	jsonWriteErrorTemplateConstant    = "unable to write JSON report to %s: %w"
)

// BuildSummary renders the reconciliation result as a human-readable report.
func BuildSummary(groupID string, roleNameFilter string, result ReconciliationResult) string {
	var reportBuilder strings.Builder

	reportBuilder.WriteString(reportBannerConstant + "\n")
	reportBuilder.WriteString(reportTitleConstant + "\n")
	reportBuilder.WriteString(reportBannerConstant + "\n\n")

	fmt.Fprintf(&reportBuilder, reportGroupIDTemplateConstant, groupID)
	if len(strings.TrimSpace(roleNameFilter)) > 0 {
		fmt.Fprintf(&reportBuilder, reportRoleFilterTemplateConstant, roleNameFilter)
	}
	reportBuilder.WriteString("\n")

	fmt.Fprintf(&reportBuilder, reportTotalTemplateConstant, len(result.GroupMemberships))
	fmt.Fprintf(&reportBuilder, reportWithOrgsTemplateConstant, len(result.MembersWithOrganizations))
	fmt.Fprintf(&reportBuilder, reportWithoutOrgsTemplateConstant, len(result.MembersWithoutOrganizations))
	if len(result.GroupAdminsExcluded) > 0 {
		fmt.Fprintf(&reportBuilder, reportAdminsExcludedTemplateConstant, len(result.GroupAdminsExcluded))
	}
	if len(result.Errors) > 0 {
		fmt.Fprintf(&reportBuilder, reportErrorsTemplateConstant, len(result.Errors))
	}

	if len(result.MembersWithoutOrganizations) > 0 {
		writeSectionHeading(&reportBuilder, reportWithoutOrgsHeadingConstant)
		for _, member := range result.MembersWithoutOrganizations {
			fmt.Fprintf(&reportBuilder, reportMemberTemplateConstant, member.Email, member.Name)
			fmt.Fprintf(&reportBuilder, reportUserIDTemplateConstant, member.UserID)
			fmt.Fprintf(&reportBuilder, reportRoleTemplateConstant, member.Role)
		}
	}

	if len(result.GroupAdminsExcluded) > 0 {
		writeSectionHeading(&reportBuilder, reportAdminsHeadingConstant)
		for _, member := range result.GroupAdminsExcluded {
			fmt.Fprintf(&reportBuilder, reportMemberTemplateConstant, member.Email, member.Name)
			fmt.Fprintf(&reportBuilder, reportUserIDTemplateConstant, member.UserID)
			fmt.Fprintf(&reportBuilder, reportRoleTemplateConstant, member.Role)
		}
	}

	if len(result.MembersWithOrganizations) > 0 {
		writeSectionHeading(&reportBuilder, reportWithOrgsHeadingConstant)
		for _, member := range result.MembersWithOrganizations {
			fmt.Fprintf(&reportBuilder, reportMemberTemplateConstant, member.Email, member.Name)
			fmt.Fprintf(&reportBuilder, reportUserIDTemplateConstant, member.UserID)
			fmt.Fprintf(&reportBuilder, reportRoleTemplateConstant, member.Role)
			fmt.Fprintf(&reportBuilder, reportOrgCountTemplateConstant, member.OrganizationCount)
			for _, organization := range member.Organizations {
				fmt.Fprintf(&reportBuilder, reportOrgNameTemplateConstant, organization.OrgName)
			}
		}
	}

	if len(result.Errors) > 0 {
		writeSectionHeading(&reportBuilder, reportErrorsHeadingConstant)
		for _, memberError := range result.Errors {
			fmt.Fprintf(&reportBuilder, reportErrorTemplateConstant, memberError.UserID, memberError.Message)
		}
	}

	reportBuilder.WriteString("\n" + reportBannerConstant + "\n")
	return reportBuilder.String()
}

func writeSectionHeading(reportBuilder *strings.Builder, heading string) {
	reportBuilder.WriteString("\n" + reportSectionRuleConstant + "\n")
	reportBuilder.WriteString(heading + "\n")
	reportBuilder.WriteString(reportSectionRuleConstant + "\n")
}

// WriteJSONReport persists the reconciliation result as an indented JSON document.
func WriteJSONReport(outputPath string, result ReconciliationResult) error {
	encodedReport, marshalError := json.MarshalIndent(result, "", jsonReportIndentConstant)
	if marshalError != nil {
		return fmt.Errorf(jsonMarshalErrorTemplateConstant, marshalError)
	}

	if writeError := os.WriteFile(outputPath, encodedReport, jsonReportFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(jsonWriteErrorTemplateConstant, outputPath, writeError)
	}

	return nil
}
