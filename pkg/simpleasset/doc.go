// Package simpleasset provides a reusable library for managing a catalog of
// binary assets backed by pluggable repositories and blob storage backends.
//
// It exposes a single Service interface that orchestrates importing files
// from disk into managed storage, asset creation, and lookups. An import
// allocates a file record, copies the bytes into the configured blob store
// under a name derived from the record's identifier, and rolls the record
// back if the copy fails, so the catalog never references bytes that are not
// actually in storage. Implementations of repositories (memory, Postgres)
// and blob stores (memory, filesystem, S3) are provided under subpackages.
package simpleasset
