package db

import "database/sql"

// DB wraps the sql handle so stores depend on one internal type.
type DB struct {
	*sql.DB
}
