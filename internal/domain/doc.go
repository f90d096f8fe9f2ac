// Package domain contains the core entities of the study scheduler:
// cards, review logs, study sessions, and lesson progress.
//
// Domain types are persistence-agnostic and carry their own validation.
// Scheduling math lives in the srs subpackage; stores and services depend
// on this package, never the other way around.
package domain
