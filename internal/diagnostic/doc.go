// Package diagnostic collects errors, warnings and infos produced while a
// type pair is resolved into a mapping plan.
//
// Typical entries:
//   - unmapped target fields
//   - ambiguous fuzzy matches with their top candidates
//   - conversions rejected by the allowed categories
package diagnostic
