// Package query turns raw query-string parameters into filtered, sorted,
// paginated and field-selected MongoDB queries, and executes them with
// pagination metadata. Every list endpoint goes through it.
package query

import (
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultLimit is the page size applied when the request carries none.
const DefaultLimit = 25

// reserved query keys that never participate in filtering.
var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// operators is the allow-list translation table from query-string operator
// sub-keys to Mongo comparison operators. Unrecognized operator keys are
// dropped from the filter rather than forwarded to the engine.
var operators = map[string]string{
	"gt":  "$gt",
	"gte": "$gte",
	"lt":  "$lt",
	"lte": "$lte",
	"in":  "$in",
}

// Plan is the normalized execution plan for one list request.
type Plan struct {
	Filter     bson.M
	Projection bson.D
	Sort       bson.D
	Page       int64
	Limit      int64
}

// Skip returns the number of documents to skip for the requested page.
func (p Plan) Skip() int64 {
	return (p.Page - 1) * p.Limit
}

// ParsePlan builds a Plan from flat query parameters. Operator filters
// arrive as "field[op]" keys, the way Fiber exposes bracketed query
// strings.
func ParsePlan(params map[string]string) Plan {
	plan := Plan{
		Filter: bson.M{},
		Page:   1,
		Limit:  DefaultLimit,
		Sort:   bson.D{{Key: "created_at", Value: -1}},
	}

	for key, value := range params {
		field, op, hasOp := splitOperator(key)
		if reserved[field] {
			continue
		}
		if !hasOp {
			plan.Filter[field] = coerce(value)
			continue
		}
		mongoOp, ok := operators[op]
		if !ok {
			continue
		}
		sub, ok := plan.Filter[field].(bson.M)
		if !ok {
			sub = bson.M{}
			plan.Filter[field] = sub
		}
		if op == "in" {
			parts := strings.Split(value, ",")
			vals := make([]interface{}, 0, len(parts))
			for _, p := range parts {
				vals = append(vals, coerce(p))
			}
			sub[mongoOp] = vals
		} else {
			sub[mongoOp] = coerce(value)
		}
	}

	if sel := params["select"]; sel != "" {
		for _, field := range strings.Split(sel, ",") {
			if field = strings.TrimSpace(field); field != "" {
				plan.Projection = append(plan.Projection, bson.E{Key: field, Value: 1})
			}
		}
	}

	if sort := params["sort"]; sort != "" {
		plan.Sort = bson.D{}
		for _, field := range strings.Split(sort, ",") {
			if field = strings.TrimSpace(field); field == "" {
				continue
			}
			order := 1
			if strings.HasPrefix(field, "-") {
				order = -1
				field = field[1:]
			}
			plan.Sort = append(plan.Sort, bson.E{Key: field, Value: order})
		}
	}

	if page, err := strconv.ParseInt(params["page"], 10, 64); err == nil && page > 0 {
		plan.Page = page
	}
	if limit, err := strconv.ParseInt(params["limit"], 10, 64); err == nil && limit > 0 {
		plan.Limit = limit
	}

	return plan
}

// splitOperator parses "price[gt]" into ("price", "gt", true). Plain keys
// come back unchanged.
func splitOperator(key string) (field, op string, ok bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}

// coerce turns numeric-looking values into numbers so comparisons work the
// way callers expect. Anything else stays a string; a malformed number is
// passed through and simply matches nothing.
func coerce(value string) interface{} {
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}
