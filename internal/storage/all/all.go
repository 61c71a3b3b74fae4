// Package all wires every built-in sink into the storage factory.
//
// It exists purely for side effects: blank-importing it runs the init
// functions of each concrete sink, which register their factories with the
// storage package. Importing this package makes the following sink kinds
// available at runtime:
//
//   - "csvfile"  (cleanse/internal/storage/csvfile)
//   - "sqlite"   (cleanse/internal/storage/sqlite)
//   - "postgres" (cleanse/internal/storage/postgres)
//   - "mysql"    (cleanse/internal/storage/mysql)
//   - "mssql"    (cleanse/internal/storage/mssql)
//
// A binary that only needs a subset can import the individual sink packages
// instead.
package all

import (
	_ "cleanse/internal/storage/csvfile"
	_ "cleanse/internal/storage/mssql"
	_ "cleanse/internal/storage/mysql"
	_ "cleanse/internal/storage/postgres"
	_ "cleanse/internal/storage/sqlite"
)
