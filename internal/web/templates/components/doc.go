// Package components holds reusable page fragments.
package components
