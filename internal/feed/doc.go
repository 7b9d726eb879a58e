// Package feed implements the whisper feed query engine and the aggregation
// helpers behind the mood analytics and profile views.
//
// Everything here is a pure transformation over an in-memory snapshot: the
// caller supplies the collection, the query parameters and "now", and gets
// back an ordered, paginated page. Input slices are never mutated.
package feed
