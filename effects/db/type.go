// Package db is the database effect family: four query shapes against a
// connection pool. Backends plug in through the Pool protocol; a pgx adapter
// ships here.
package db

import (
	"github.com/on-the-ground/interpret_ive_go/effects"
)

// Variant tags of the db family.
const (
	effectExecute  = "db.execute"
	effectFetch    = "db.fetch"
	effectFetchRow = "db.fetch_row"
	effectFetchVal = "db.fetch_val"
)

// Family is the closed db effect family.
var Family = effects.NewFamily("db", effectExecute, effectFetch, effectFetchRow, effectFetchVal)

// Row is one result row keyed by column name.
type Row = map[string]any

var (
	_ Effect = Execute{}
	_ Effect = Fetch{}
	_ Effect = FetchRow{}
	_ Effect = FetchVal{}
)

// Effect is a sealed interface for database operations.
// Only the predefined effect types in this package can implement it.
type Effect interface {
	effects.Effect
	dbEffect()
}

// Execute runs a statement that returns no rows.
type Execute struct {
	Query string
	Args  []any
}

func (Execute) EffectName() string { return effectExecute }

// dbEffect prevents external packages from adding variants.
func (Execute) dbEffect() {}

// CommandTag reports what an Execute did, e.g. "INSERT 0 1".
type CommandTag struct {
	Tag string
}

// Fetch runs a query and returns every row.
type Fetch struct {
	Query string
	Args  []any
}

func (Fetch) EffectName() string { return effectFetch }
func (Fetch) dbEffect()          {}

// FetchRow runs a query and returns its first row. An empty result is a
// modeled outcome (Found false), never an error.
type FetchRow struct {
	Query string
	Args  []any
}

func (FetchRow) EffectName() string { return effectFetchRow }
func (FetchRow) dbEffect()          {}

// RowResult is the outcome of a FetchRow.
type RowResult struct {
	Row   Row
	Found bool
}

// FetchVal runs a query and returns the first column of its first row.
type FetchVal struct {
	Query string
	Args  []any
}

func (FetchVal) EffectName() string { return effectFetchVal }
func (FetchVal) dbEffect()          {}

// ValueResult is the outcome of a FetchVal.
type ValueResult struct {
	Value any
	Found bool
}
