// Package config loads typed configuration from environment variables.
//
// Each component declares its own Config struct with `env` and `envDefault`
// tags understood by github.com/caarlos0/env. A .env file in the working
// directory is read once per process via github.com/joho/godotenv before the
// first parse; variables already present in the environment take precedence.
//
// Load caches one parsed value per struct type.
package config
