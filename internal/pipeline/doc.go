// Package pipeline runs a credential check as a fixed sequence of steps.
//
// The standard check built by NewCheck is:
//
//  1. email_breach: ask breach providers about the email
//  2. courtesy_pause: wait before contacting the next service
//  3. password_exposure: k-anonymity lookup of the password
//  4. risk_evaluation: classify the two results
//
// Each step receives the credential and the report filled in so far. The
// credential is passed alongside the report rather than stored in it, so
// the password never ends up in anything that is printed or saved.
//
// The two lookups are independent; neither step reads the other's result.
package pipeline
