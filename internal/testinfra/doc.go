// Package testinfra starts throwaway service containers for integration
// tests. Everything except this comment is behind the integration build tag.
package testinfra
