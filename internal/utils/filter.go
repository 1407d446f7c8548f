package utils

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FilterBuilder collects optional query conditions as typed predicates and
// validates field names against an allow-list before anything reaches the
// driver. Replaces building bson maps straight from query strings.
type FilterBuilder struct {
	allowed    map[string]bool
	conditions []condition
	errs       []error
}

type condition struct {
	field string
	op    string
	value interface{}
}

func NewFilterBuilder(allowedFields ...string) *FilterBuilder {
	allowed := make(map[string]bool, len(allowedFields))
	for _, f := range allowedFields {
		allowed[f] = true
	}
	return &FilterBuilder{allowed: allowed}
}

func (b *FilterBuilder) add(field, op string, value interface{}) *FilterBuilder {
	if !b.allowed[field] {
		b.errs = append(b.errs, fmt.Errorf("field %q is not filterable", field))
		return b
	}
	b.conditions = append(b.conditions, condition{field: field, op: op, value: value})
	return b
}

// Eq adds an equality condition. Empty string values are skipped so
// handlers can pass through optional query params unconditionally.
func (b *FilterBuilder) Eq(field string, value interface{}) *FilterBuilder {
	if s, ok := value.(string); ok && s == "" {
		return b
	}
	return b.add(field, "$eq", value)
}

func (b *FilterBuilder) In(field string, values ...interface{}) *FilterBuilder {
	if len(values) == 0 {
		return b
	}
	return b.add(field, "$in", values)
}

func (b *FilterBuilder) ObjectID(field, hex string) *FilterBuilder {
	if hex == "" {
		return b
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: invalid object id %q", field, hex))
		return b
	}
	return b.add(field, "$eq", id)
}

func (b *FilterBuilder) DateRange(field string, from, to *time.Time) *FilterBuilder {
	if from != nil {
		b.add(field, "$gte", *from)
	}
	if to != nil {
		b.add(field, "$lte", *to)
	}
	return b
}

func (b *FilterBuilder) Gte(field string, value interface{}) *FilterBuilder {
	return b.add(field, "$gte", value)
}

func (b *FilterBuilder) Lte(field string, value interface{}) *FilterBuilder {
	return b.add(field, "$lte", value)
}

// Build returns the bson filter, or the first validation error. An empty
// builder yields an empty filter that matches everything.
func (b *FilterBuilder) Build() (bson.M, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	filter := bson.M{}
	for _, c := range b.conditions {
		existing, ok := filter[c.field].(bson.M)
		if !ok {
			existing = bson.M{}
		}
		existing[c.op] = c.value
		filter[c.field] = existing
	}
	return filter, nil
}
