// Package plan resolves a source/target struct pair into a ResolvedTypePair:
// one ResolvedFieldMapping per target field with the conversion strategy
// the mapper executes.
//
// Resolution pipeline for a pair:
//  1. Apply explicit rules (121, fields, ignore, auto) in priority order
//  2. For remaining target fields, rank candidates with the fuzzy matcher
//  3. Auto-accept only on high confidence, otherwise report the field as
//     unmapped with suggestions
//  4. Resolve nested struct pairs reached through fields, pointers and slices
package plan
