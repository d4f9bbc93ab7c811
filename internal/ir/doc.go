// Package ir defines the data types shared by every fsproj package.
//
// This package contains type definitions and identity helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Rules are a sealed sum type; dispatch goes through RuleVisitor so that a
//     new rule kind fails to compile until every visitor handles it
//   - Fiscal years are plain integers; only yearly periods exist
//   - StableID is the only way to derive cell and node keys
//   - All JSON tags use snake_case
package ir
