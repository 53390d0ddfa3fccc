// Package artifact stores named text artifacts such as saved documents and
// conversation transcripts.
//
// Store is the contract; this package ships an in-memory implementation for
// tests and a file system implementation rooted at an output directory. The
// s3 sub-package provides an S3 (or S3 compatible) backend. Callers should
// depend on Store so backends can be swapped without touching calling code.
package artifact
