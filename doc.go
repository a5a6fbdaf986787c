// Package axiosgen generates TypeScript declarations and an axios client from
// a catalog of server operations.
//
// Every enum and every composite type inside the scanned namespaces that an
// operation references is written to its own <Name>.ts file. A single client
// file (api.ts by default) holds one exported function per operation plus
// setDefaultHeader and setBaseUrl.
//
//	res, err := axiosgen.FromCatalog(catalog).
//	    ScanPackages("com.example.app").
//	    ToDir(ctx, "./client/src/api")
//
// Catalogs come from a YAML manifest (provider.LoadManifest) or from Go
// types via provider.Reflector.
package axiosgen
