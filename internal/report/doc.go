// Package report renders check results: a plain-text terminal report, the
// JSON response document shared with the HTTP API, and Markdown. It also
// renders the stored verdict history.
//
// Writers only format. Every decision (found, unknown, risk level) has
// already been made by the time a report reaches them.
package report
