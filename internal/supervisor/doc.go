// Package supervisor enables the radio once the voice plugin reports
// itself initialized.
//
// The readiness check runs immediately and then at a constant interval until
// it succeeds. The wait is bound to a context; cancelling it stops polling
// without enabling the radio.
package supervisor
