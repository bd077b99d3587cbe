// Package analyze builds a type graph from reflect.Type values.
//
// Types are inspected on demand and cached by identity, so cyclic struct
// graphs (a Node holding *Node) resolve to a single TypeInfo.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/pointer/slice/array/map/external)
//   - FieldInfo: describes field name, type, tags, embedding and index path
package analyze
