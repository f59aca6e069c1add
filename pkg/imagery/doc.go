// Package imagery provides the raster data objects mapvis displays: images
// with named bands over a geographic extent, time-ordered collections of
// them, and reducers that summarize a band over a region.
//
// Images are small in-memory grids. Row 0 is the northern edge and column 0
// the western edge of [Image.Bounds]; NaN marks missing data.
//
// # Region Series
//
// [Series] reduces every image of a collection over a region and returns one
// chart series per band, ordered by image time:
//
//	region, _ := imagery.LoadRegion("field.geojson")
//	series, err := imagery.Series(coll, region, imagery.Mean, 2000)
//
// Sampling uses a lattice with the given spacing (in the collection's
// projected units) over the region's bounding box; lattice points outside the
// region are skipped.
package imagery
