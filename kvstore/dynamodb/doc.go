// Package dynamodb implements kvstore.Store backed by Amazon DynamoDB.
//
// Each cache id maps to one item holding the serialized snapshot document.
// Expiry uses DynamoDB's native TTL on the "ttl" attribute, so stale
// documents vanish without any sweeper process. DynamoDB's 400KB item limit
// is the reason for the kvstore compression envelope and its size ceiling.
package dynamodb
