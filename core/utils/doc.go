// Package utils provides loose value conversions used when decoding platform JSON
// and canonical field maps into typed entities.
package utils
