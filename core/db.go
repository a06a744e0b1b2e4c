package core

// DBOrdering is one sort key of a listing query.
type DBOrdering struct {
	Field     string
	Ascending bool
}

// NewestFirst orders documents by creation date, breaking ties on id.
var NewestFirst = []DBOrdering{{Field: "createdAt"}, {Field: "_id"}}
