// Package validation wraps go-playground/validator for request structs,
// reporting rejected fields under their json (or query) names.
package validation
