// Package util holds small helpers shared across packages: size parsing for
// configuration values, pointer helpers and string cleanup.
package util
