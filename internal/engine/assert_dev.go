//go:build dev

package engine

const assertionsPanic = true
