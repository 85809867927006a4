// Package ui renders account-management command events as concise console lines
// while detailed telemetry continues to flow through the structured logger.
package ui
