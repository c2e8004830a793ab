// Package main provides the entry point for the breachscan CLI.
//
// breachscan checks whether an email address appears in known data breaches
// and whether a password has been exposed, then prints a risk verdict.
// The password never leaves the machine: only the first five characters of
// its SHA-1 digest are sent to the Pwned Passwords range API.
//
// Usage:
//
//	breachscan check [email]
//	breachscan serve
//
// See --help for all available options.
package main

// main is the entry point for breachscan.
func main() {
	Execute()
}
