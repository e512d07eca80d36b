// SPDX-License-Identifier: EPL-2.0

// Package config loads engine settings from AUDTRIM_* environment variables
// with go-envconfig and checks them with go-playground/validator.
package config
