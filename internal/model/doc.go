// Package model defines the data types shared across webdrift.
//
// The types here are plain data holders with no behavior beyond small
// convenience methods. They are produced by the fetch and crawler
// packages and consumed by the report and database packages.
package model
