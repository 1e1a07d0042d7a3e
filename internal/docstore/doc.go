// Package docstore layers named collections of JSON documents over the
// Pebble store.
//
// Each document lives under col/{collection}/doc/{id}. The adapter offers
// Mongo-shaped CRUD (InsertOne, FindOne, FindMany, UpdateOne with upsert,
// DeleteMany) and carries no business logic; filters are top-level field
// equality only, and FindMany returns documents in store-native key order.
package docstore
