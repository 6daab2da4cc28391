// Package model defines the value types shared across the form builder: the
// field entity with its constraint attributes, saved forms, seed templates,
// and submissions. The types carry no behavior beyond default fallbacks;
// validation lives in pkg/validation and all mutation goes through
// pkg/store.
package model
