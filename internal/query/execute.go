package query

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageRef points at an adjacent page using the current limit.
type PageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

// Pagination carries the next/prev references for the current page.
type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Result is the list-endpoint response envelope. Count is the size of the
// returned page, not the total match count.
type Result struct {
	Success    bool       `json:"success"`
	Count      int        `json:"count"`
	Pagination Pagination `json:"pagination"`
	Data       []bson.M   `json:"data"`
}

// Populate embeds related documents into a fetched page.
type Populate interface {
	apply(ctx context.Context, docs []bson.M) error
}

// Ref replaces a stored foreign-key ObjectID at Path with the referenced
// document from From, optionally projected down to Select fields.
type Ref struct {
	Path   string
	From   *mongo.Collection
	Select []string
}

// Children embeds at Path all documents from From whose ForeignKey field
// references the parent document's id (reverse populate).
type Children struct {
	Path       string
	From       *mongo.Collection
	ForeignKey string
}

// Execute runs the plan against a collection: one count over the full
// filter, one paginated fetch, then any populates. Both reflect the same
// filter.
func Execute(ctx context.Context, coll *mongo.Collection, plan Plan, populates ...Populate) (*Result, error) {
	total, err := coll.CountDocuments(ctx, plan.Filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(plan.Sort).
		SetSkip(plan.Skip()).
		SetLimit(plan.Limit)
	if len(plan.Projection) > 0 {
		opts.SetProjection(plan.Projection)
	}

	cursor, err := coll.Find(ctx, plan.Filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []bson.M{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	for _, p := range populates {
		if err := p.apply(ctx, docs); err != nil {
			return nil, err
		}
	}

	return &Result{
		Success:    true,
		Count:      len(docs),
		Pagination: paginate(plan, total),
		Data:       docs,
	}, nil
}

// PopulateOne applies a populate to a single fetched document, for
// get-by-id endpoints that embed a relation the same way list endpoints
// do.
func PopulateOne(ctx context.Context, doc bson.M, populates ...Populate) error {
	for _, p := range populates {
		if err := p.apply(ctx, []bson.M{doc}); err != nil {
			return err
		}
	}
	return nil
}

// paginate computes next/prev: next exists while documents remain beyond
// the current page, prev whenever anything was skipped.
func paginate(plan Plan, total int64) Pagination {
	var pg Pagination
	if plan.Skip()+plan.Limit < total {
		pg.Next = &PageRef{Page: plan.Page + 1, Limit: plan.Limit}
	}
	if plan.Skip() > 0 {
		pg.Prev = &PageRef{Page: plan.Page - 1, Limit: plan.Limit}
	}
	return pg
}

func (r Ref) apply(ctx context.Context, docs []bson.M) error {
	ids := make([]primitive.ObjectID, 0, len(docs))
	seen := make(map[primitive.ObjectID]bool)
	for _, doc := range docs {
		id, ok := doc[r.Path].(primitive.ObjectID)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	opts := options.Find()
	if len(r.Select) > 0 {
		projection := bson.D{}
		for _, field := range r.Select {
			projection = append(projection, bson.E{Key: field, Value: 1})
		}
		opts.SetProjection(projection)
	}

	cursor, err := r.From.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var refs []bson.M
	if err := cursor.All(ctx, &refs); err != nil {
		return err
	}

	byID := make(map[primitive.ObjectID]bson.M, len(refs))
	for _, ref := range refs {
		if id, ok := ref["_id"].(primitive.ObjectID); ok {
			byID[id] = ref
		}
	}

	for _, doc := range docs {
		if id, ok := doc[r.Path].(primitive.ObjectID); ok {
			if ref, found := byID[id]; found {
				doc[r.Path] = ref
			}
		}
	}
	return nil
}

func (c Children) apply(ctx context.Context, docs []bson.M) error {
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, doc := range docs {
		if id, ok := doc["_id"].(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := c.From.Find(ctx, bson.M{c.ForeignKey: bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var children []bson.M
	if err := cursor.All(ctx, &children); err != nil {
		return err
	}

	byParent := make(map[primitive.ObjectID][]bson.M)
	for _, child := range children {
		if parent, ok := child[c.ForeignKey].(primitive.ObjectID); ok {
			byParent[parent] = append(byParent[parent], child)
		}
	}

	for _, doc := range docs {
		id, ok := doc["_id"].(primitive.ObjectID)
		if !ok {
			continue
		}
		group := byParent[id]
		if group == nil {
			group = []bson.M{}
		}
		doc[c.Path] = group
	}
	return nil
}
