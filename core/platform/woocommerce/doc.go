// Package woocommerce implements platform.Client over the WooCommerce REST API
// (wc/v3) and the WordPress posts API for blog posts.
//
// Reads are normalised into canonical entities; writes take payloads already
// translated to WooCommerce field names. Requests authenticate with the
// consumer key and secret over HTTP basic auth.
package woocommerce
