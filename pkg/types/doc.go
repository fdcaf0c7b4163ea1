// Package types defines the Recipe interface, the package Descriptor and its
// Requirement and Options values, consumer metadata, and the standard error
// types for the slpack packager.
//
// See DESIGN.md § Package Descriptor.
package types
