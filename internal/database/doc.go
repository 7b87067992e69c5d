// Package database provides the optional PostgreSQL order journal.
//
// The relay records every order submission and removal it forwards,
// together with the upstream answer, so operators can reconstruct what a
// dashboard user sent. Without a configured database the journal is a no-op.
package database
