// Package sample holds the record model used by the projection command and
// the mapper integration tests.
package sample

import (
	"context"

	"caster-projection/query"
)

// Record is a stored contact record.
type Record struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecordDTO is the projected form of Record.
type RecordDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Records returns the three sample records in order.
func Records() []Record {
	return []Record{
		{ID: 1, Name: "aaa", Email: "aaa@example.com"},
		{ID: 2, Name: "bbb", Email: "bbb@example.com"},
		{ID: 3, Name: "ccc", Email: "ccc@example.com"},
	}
}

// Context is the data access surface that queries run against.
type Context interface {
	Records(ctx context.Context) query.Queryable[Record]
}

// MemoryContext serves a fixed set of records.
type MemoryContext struct {
	records []Record
}

// NewMemoryContext returns a context over records.
func NewMemoryContext(records []Record) *MemoryContext {
	return &MemoryContext{records: records}
}

// Records returns a new query over the records.
func (c *MemoryContext) Records(context.Context) query.Queryable[Record] {
	return query.FromSlice(c.records)
}
