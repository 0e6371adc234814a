// Package config loads, normalizes, and validates listwise configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// LISTWISE_API_TOKEN, optionally sourced from a .env file. The Config type
// centralizes the API endpoint, account role and media limits so the wizard
// and the ingestion pipeline see the same values.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
