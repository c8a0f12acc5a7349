// Package s3 implements kvstore.Store backed by Amazon S3.
//
// Each cache id maps to one JSON object under the configured prefix. Unlike
// DynamoDB, S3 has no per-item expiry; use bucket lifecycle rules if remote
// documents should age out. There is also no 400KB item limit, but documents
// still pass through the kvstore compression envelope so the two backends
// stay interchangeable.
package s3
