// Package dataset materializes decoded survey files.
//
// A Loader resolves the schema and data sources through a source.Opener,
// decodes up to MaxRows lines, and runs a pluggable cleaning step. Cleaning
// never modifies a dataset in place; it returns a new one, which keeps later
// validation deterministic.
//
// # Usage
//
//	loader := dataset.NewLoader(source.FileOpener{Root: "data"}, nil, logger)
//	resp, err := loader.Load(ctx, dataset.Options{
//	    Role:         dataset.RoleRespondent,
//	    SchemaSource: "2002FemResp.dct",
//	    DataSource:   "2002FemResp.dat.gz",
//	})
package dataset
