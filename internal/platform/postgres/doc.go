// Package postgres implements the store interfaces on PostgreSQL,
// accessed through database/sql over the pgx stdlib driver.
package postgres
