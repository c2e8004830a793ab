// Package pwned checks passwords against the Pwned Passwords range API
// using k-anonymity.
//
// The password is hashed with SHA-1 locally. Only the first five hex
// characters of the digest are sent; the service answers with every
// SUFFIX:COUNT pair sharing that prefix and the match happens here.
//
// Failures never surface as errors: a lookup that cannot be completed
// yields an unknown result, which is distinct from a count of zero.
package pwned
