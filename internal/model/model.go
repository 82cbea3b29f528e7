// Package model defines the persisted contact registry and its JSON codec.
//
// The registry lives in a single JSON file on the remote store and is never
// held between requests: every request decodes a fresh copy, mutates it and
// encodes it back.
package model
