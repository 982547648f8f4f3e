// Package audit writes the bridge's audit trail as JSON lines.
//
// Each record notes who or what triggered an action, the action itself and
// its outcome. The file is rotated by size and age.
package audit
