// Package match scores how well a source struct field fits a target field.
//
// Names are compared after normalization (CamelCase tokenizing, separator
// stripping, optional id/at suffix stripping) with a normalized Levenshtein
// similarity. Types are compared with reflect assignability and
// convertibility. RankCandidates combines both into a sorted CandidateList.
package match
