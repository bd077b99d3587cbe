// Package mapper maps values between struct types at runtime and projects
// queries through those maps.
//
// A Configuration holds the maps. Each map is resolved from, in priority
// order, the rules of loaded YAML mapping files, programmatic rules passed
// to CreateMap and fuzzy matching of the remaining target fields:
//
//	cfg := mapper.NewConfiguration()
//	if err := mapper.CreateMap[Record, RecordDTO](cfg, mapper.Ignore("Internal")); err != nil {
//		return err
//	}
//	dto, err := mapper.Map[RecordDTO](cfg, record)
//
// ProjectTo appends the map as a projection to a query:
//
//	dtos, err := mapper.ProjectTo[RecordDTO](records, cfg)
//
// Scalar conversions beyond Go conversions are limited to the categories
// set with WithCategories.
package mapper
