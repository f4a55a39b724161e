// Package shared holds code used across packages that belongs to no single
// layer. Today that is only the testutil subpackage: a recording slog handler
// and dataset fixture writers shared by the package tests.
package shared
