// Package mapping provides the YAML schema, parsing, validation and the
// transform registry for explicit field mappings.
//
// # Schema Overview
//
//	version: "1"
//	mappings:
//	  - source: sample.Record
//	    target: sample.RecordDTO
//	    # 1:1 shorthand, highest priority
//	    121:
//	      Email: Mail
//	    # explicit field mappings
//	    fields:
//	      - target: Status
//	        default: "active"
//	      - target: Display
//	        source: [Name, Email]
//	        transform: JoinContact
//	    # target fields left untouched
//	    ignore:
//	      - Internal
//	    # reviewed auto matches, lowest priority
//	    auto:
//	      - target: ID
//	        source: ID
//	transforms:
//	  - name: JoinContact
//	    source_type: string
//	    target_type: string
//
// # Priority Order
//
//  1. "121" shorthand mappings (highest)
//  2. "fields" explicit mappings
//  3. "ignore" list
//  4. "auto" matches (lowest)
//
// # Path Syntax
//
// Paths select fields ("Name") and nested fields ("Address.Street"). The
// slice element syntax "Items[]" is parsed and validated but mapping
// element-wise through a path is left to the nested type pair.
//
// # Transforms
//
// Transform functions are registered at runtime by name. ParseCaster checks
// their signature; the file's transforms section documents them and is
// checked against what was registered.
package mapping
