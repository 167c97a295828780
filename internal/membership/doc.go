// Package membership implements the group/organization membership
// reconciliation workflow used by the snykaudit CLI.
//
// It exposes CommandBuilder for wiring the check Cobra command, Service for
// driving the reconciliation programmatically, and the result types rendered
// into text summaries and JSON reports.
package membership
