// Package security holds request level protections for the public endpoints.
package security
