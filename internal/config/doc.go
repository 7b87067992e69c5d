// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// A .env file next to the process is loaded first, and the relay variables
// API_BASE_URL, PREDICT_API_KEY and PORT override whatever the file sets.
package config
