package migrations

import "embed"

// FS - sql-миграции, вшитые в бинарь
//
//go:embed *.sql
var FS embed.FS
