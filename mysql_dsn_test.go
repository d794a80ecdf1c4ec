package main

import (
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
)

func TestMySQLSourceOpenDB_InvalidDSN(t *testing.T) {
	src := &mysqlSourceDB{}
	_, err := src.OpenDB(SourceConfig{DSN: "://bad-dsn"})
	if err == nil {
		t.Fatal("expected error for invalid DSN")
	}
}

func TestMySQLDSNWithReadOptions(t *testing.T) {
	dsn, err := mysqlDSNWithReadOptions(SourceConfig{
		DSN:      "root:root@tcp(127.0.0.1:3306)/catalog",
		User:     "docs",
		Password: "s3cret",
	})
	if err != nil {
		t.Fatalf("mysqlDSNWithReadOptions() error: %v", err)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		t.Fatalf("ParseDSN(%q) error: %v", dsn, err)
	}
	if cfg.User != "docs" || cfg.Passwd != "s3cret" {
		t.Errorf("credentials = %q/%q, want docs/s3cret", cfg.User, cfg.Passwd)
	}
	if cfg.DBName != "catalog" {
		t.Errorf("DBName = %q, want catalog", cfg.DBName)
	}
	if !cfg.ParseTime || !cfg.InterpolateParams {
		t.Errorf("ParseTime=%t InterpolateParams=%t, want both true", cfg.ParseTime, cfg.InterpolateParams)
	}
	if cfg.Loc != time.UTC {
		t.Errorf("Loc = %v, want UTC", cfg.Loc)
	}
}

func TestMySQLSourceExtractUser(t *testing.T) {
	src := &mysqlSourceDB{}
	user, err := src.ExtractUser(SourceConfig{DSN: "root:root@tcp(127.0.0.1:3306)/catalog"})
	if err != nil {
		t.Fatalf("ExtractUser() error: %v", err)
	}
	if user != "ROOT" {
		t.Errorf("ExtractUser() = %q, want %q", user, "ROOT")
	}
}

func TestMySQLSourceQuoteIdentifier(t *testing.T) {
	src := &mysqlSourceDB{}
	got := src.QuoteIdentifier("my`table")
	want := "`my``table`"
	if got != want {
		t.Errorf("QuoteIdentifier() = %q, want %q", got, want)
	}
}
