// Package models holds the GORM persistence models of the connector's own
// state (channels, export runs, identity links) and the read models of the
// PIM source tables the engine consumes. Source tables are never written.
package models
