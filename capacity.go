package geoarrow

// Capacity counters. A capacity value records, per nesting level, exactly how
// many slots a builder must pre-allocate to hold a set of geometries without
// any incremental growth. The WKB reader runs these counters over every
// decoded record before touching a single buffer.

// PointCapacity counts point geometries.
type PointCapacity struct {
	Geoms int
}

// AddPoint counts one point (or null when nil).
func (c *PointCapacity) AddPoint(g PointGeometry) {
	c.Geoms++
}

// Add accumulates another capacity.
func (c *PointCapacity) Add(other PointCapacity) {
	c.Geoms += other.Geoms
}

// LineStringCapacity counts line strings and their vertices.
type LineStringCapacity struct {
	Geoms  int
	Coords int
}

// AddLineString counts one line string (or null when nil).
func (c *LineStringCapacity) AddLineString(g LineStringGeometry) {
	c.Geoms++
	if g != nil {
		c.Coords += g.NumCoords()
	}
}

// Add accumulates another capacity.
func (c *LineStringCapacity) Add(other LineStringCapacity) {
	c.Geoms += other.Geoms
	c.Coords += other.Coords
}

// PolygonCapacity counts polygons, rings, and vertices.
type PolygonCapacity struct {
	Geoms  int
	Rings  int
	Coords int
}

// AddPolygon counts one polygon (or null when nil).
func (c *PolygonCapacity) AddPolygon(g PolygonGeometry) {
	c.Geoms++
	if g == nil {
		return
	}
	c.Rings += g.NumRings()
	for i := 0; i < g.NumRings(); i++ {
		c.Coords += g.Ring(i).NumCoords()
	}
}

// Add accumulates another capacity.
func (c *PolygonCapacity) Add(other PolygonCapacity) {
	c.Geoms += other.Geoms
	c.Rings += other.Rings
	c.Coords += other.Coords
}

// MultiPointCapacity counts multi-points and their member points.
type MultiPointCapacity struct {
	Geoms  int
	Coords int
}

// AddMultiPoint counts one multi-point (or null when nil).
func (c *MultiPointCapacity) AddMultiPoint(g MultiPointGeometry) {
	c.Geoms++
	if g != nil {
		c.Coords += g.NumPoints()
	}
}

// AddPoint counts one point stored as a length-1 multi-point.
func (c *MultiPointCapacity) AddPoint(g PointGeometry) {
	c.Geoms++
	if g != nil {
		c.Coords++
	}
}

// Add accumulates another capacity.
func (c *MultiPointCapacity) Add(other MultiPointCapacity) {
	c.Geoms += other.Geoms
	c.Coords += other.Coords
}

// MultiLineStringCapacity counts multi-line-strings, their member line
// strings, and vertices.
type MultiLineStringCapacity struct {
	Geoms       int
	LineStrings int
	Coords      int
}

// AddMultiLineString counts one multi-line-string (or null when nil).
func (c *MultiLineStringCapacity) AddMultiLineString(g MultiLineStringGeometry) {
	c.Geoms++
	if g == nil {
		return
	}
	c.LineStrings += g.NumLineStrings()
	for i := 0; i < g.NumLineStrings(); i++ {
		c.Coords += g.LineStringAt(i).NumCoords()
	}
}

// AddLineString counts one line string stored as a length-1
// multi-line-string.
func (c *MultiLineStringCapacity) AddLineString(g LineStringGeometry) {
	c.Geoms++
	if g != nil {
		c.LineStrings++
		c.Coords += g.NumCoords()
	}
}

// Add accumulates another capacity.
func (c *MultiLineStringCapacity) Add(other MultiLineStringCapacity) {
	c.Geoms += other.Geoms
	c.LineStrings += other.LineStrings
	c.Coords += other.Coords
}

// MultiPolygonCapacity counts multi-polygons, member polygons, rings, and
// vertices: four nested levels.
type MultiPolygonCapacity struct {
	Geoms    int
	Polygons int
	Rings    int
	Coords   int
}

// AddMultiPolygon counts one multi-polygon (or null when nil).
func (c *MultiPolygonCapacity) AddMultiPolygon(g MultiPolygonGeometry) {
	c.Geoms++
	if g == nil {
		return
	}
	c.Polygons += g.NumPolygons()
	for i := 0; i < g.NumPolygons(); i++ {
		p := g.PolygonAt(i)
		c.Rings += p.NumRings()
		for j := 0; j < p.NumRings(); j++ {
			c.Coords += p.Ring(j).NumCoords()
		}
	}
}

// AddPolygon counts one polygon stored as a length-1 multi-polygon.
func (c *MultiPolygonCapacity) AddPolygon(g PolygonGeometry) {
	c.Geoms++
	if g == nil {
		return
	}
	c.Polygons++
	c.Rings += g.NumRings()
	for i := 0; i < g.NumRings(); i++ {
		c.Coords += g.Ring(i).NumCoords()
	}
}

// Add accumulates another capacity.
func (c *MultiPolygonCapacity) Add(other MultiPolygonCapacity) {
	c.Geoms += other.Geoms
	c.Polygons += other.Polygons
	c.Rings += other.Rings
	c.Coords += other.Coords
}

// MixedCapacity counts geometries per child kind of a mixed array.
type MixedCapacity struct {
	Points           PointCapacity
	LineStrings      LineStringCapacity
	Polygons         PolygonCapacity
	MultiPoints      MultiPointCapacity
	MultiLineStrings MultiLineStringCapacity
	MultiPolygons    MultiPolygonCapacity
}

// TotalGeoms returns the total number of logical elements across all child
// kinds.
func (c *MixedCapacity) TotalGeoms() int {
	return c.Points.Geoms + c.LineStrings.Geoms + c.Polygons.Geoms +
		c.MultiPoints.Geoms + c.MultiLineStrings.Geoms + c.MultiPolygons.Geoms
}

// AddGeometry counts one geometry, routed the same way MixedBuilder routes
// pushes. With preferMulti set, single-part kinds are counted against their
// multi-part child. A nested collection is only accepted when it has exactly
// one member.
func (c *MixedCapacity) AddGeometry(g Geometry, preferMulti bool) error {
	if g == nil {
		// Nulls are deferred by the builder; they consume a slot in whichever
		// child receives them, counted conservatively against points.
		if preferMulti {
			c.MultiPoints.AddMultiPoint(nil)
		} else {
			c.Points.AddPoint(nil)
		}
		return nil
	}
	switch g.GeometryType() {
	case TypePoint:
		if preferMulti {
			c.MultiPoints.AddPoint(g.(PointGeometry))
		} else {
			c.Points.AddPoint(g.(PointGeometry))
		}
	case TypeLineString:
		if preferMulti {
			c.MultiLineStrings.AddLineString(g.(LineStringGeometry))
		} else {
			c.LineStrings.AddLineString(g.(LineStringGeometry))
		}
	case TypePolygon:
		if preferMulti {
			c.MultiPolygons.AddPolygon(g.(PolygonGeometry))
		} else {
			c.Polygons.AddPolygon(g.(PolygonGeometry))
		}
	case TypeMultiPoint:
		c.MultiPoints.AddMultiPoint(g.(MultiPointGeometry))
	case TypeMultiLineString:
		c.MultiLineStrings.AddMultiLineString(g.(MultiLineStringGeometry))
	case TypeMultiPolygon:
		c.MultiPolygons.AddMultiPolygon(g.(MultiPolygonGeometry))
	case TypeGeometryCollection:
		coll := g.(CollectionGeometry)
		if coll.NumGeometries() != 1 {
			return ErrNestedCollection
		}
		return c.AddGeometry(coll.GeometryAt(0), preferMulti)
	default:
		return mismatch(TypePoint, g.GeometryType())
	}
	return nil
}

// Add accumulates another capacity.
func (c *MixedCapacity) Add(other MixedCapacity) {
	c.Points.Add(other.Points)
	c.LineStrings.Add(other.LineStrings)
	c.Polygons.Add(other.Polygons)
	c.MultiPoints.Add(other.MultiPoints)
	c.MultiLineStrings.Add(other.MultiLineStrings)
	c.MultiPolygons.Add(other.MultiPolygons)
}

// GeometryCollectionCapacity counts collections and their members.
type GeometryCollectionCapacity struct {
	Geoms int
	Mixed MixedCapacity
}

// AddCollection counts one collection (or null when nil) and every member
// geometry.
func (c *GeometryCollectionCapacity) AddCollection(g CollectionGeometry, preferMulti bool) error {
	c.Geoms++
	if g == nil {
		return nil
	}
	for i := 0; i < g.NumGeometries(); i++ {
		if err := c.Mixed.AddGeometry(g.GeometryAt(i), preferMulti); err != nil {
			return err
		}
	}
	return nil
}

// AddGeometry counts one geometry of any kind as a collection element: a
// non-collection geometry counts as a length-1 collection.
func (c *GeometryCollectionCapacity) AddGeometry(g Geometry, preferMulti bool) error {
	if g == nil {
		c.Geoms++
		return nil
	}
	if coll, ok := g.(CollectionGeometry); ok && g.GeometryType() == TypeGeometryCollection {
		return c.AddCollection(coll, preferMulti)
	}
	c.Geoms++
	return c.Mixed.AddGeometry(g, preferMulti)
}
