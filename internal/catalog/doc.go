// Package catalog defines the fixed category table for voice packs and loads
// line catalogs from JSON documents.
package catalog
