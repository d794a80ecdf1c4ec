package main

import (
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// mysqlDSNWithReadOptions applies the options the snapshot reader relies on
// and lets configured credentials override the ones in the DSN.
func mysqlDSNWithReadOptions(src SourceConfig) (string, error) {
	cfg, err := mysql.ParseDSN(src.DSN)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	if src.User != "" {
		cfg.User = src.User
	}
	if src.Password != "" {
		cfg.Passwd = src.Password
	}
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}
