// Package uri implements the subset of Uniform Resource Identifier (URI) handling
// an HTTP client needs: parsing absolute URLs, resolving redirect references and
// percent-encoding.
//
// Components are kept in their encoded form as received, so that a parsed URI
// can be put on the wire without being re-encoded.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc3986
package uri
