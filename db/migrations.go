// Package db carries the SQL schema so the server and tests apply the same migrations.
package db

import "embed"

// Migrations holds every *.up.sql file, applied in lexical order.
//
//go:embed migrations/*.up.sql
var Migrations embed.FS
