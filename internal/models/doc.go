// Package models defines the core domain models for tripsplit.
//
// # Conventions
//
// All monetary fields are integer cents (minor currency units) in the
// trip's reporting currency; conversion to display decimals happens only
// at the formatting boundary. Relationships use ID strings rather than
// pointers to avoid circular references.
//
// The engine in internal/calculator consumes a read snapshot built from
// these models and owns none of their lifecycles.
package models
