// Package metrics exposes job and item counters for Prometheus scraping.
package metrics
