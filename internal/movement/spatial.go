package movement

import "math"

type cellKey struct {
	cx int
	cy int
}

type spatialEntry struct {
	pos  Position
	cell cellKey
}

// SpatialIndex is a grid-bucketed store of entity positions answering
// "who is near P" and "where is E" in amortized O(1) per operation.
//
// Query results are snapshot copies, never live views, so callers may
// mutate the index while iterating results. No ordering is guaranteed.
type SpatialIndex struct {
	cellSize float64
	cells    map[cellKey]map[string]struct{}
	entries  map[string]spatialEntry
}

// DefaultSpatialCellSize is the bucket edge length in world units.
const DefaultSpatialCellSize = 4.0

// NewSpatialIndex creates an index with the given bucket size. A zero or
// negative size falls back to DefaultSpatialCellSize.
func NewSpatialIndex(cellSize float64) *SpatialIndex {
	if cellSize <= 0 {
		cellSize = DefaultSpatialCellSize
	}
	return &SpatialIndex{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[string]struct{}),
		entries:  make(map[string]spatialEntry),
	}
}

func (s *SpatialIndex) keyFor(pos Position) cellKey {
	return cellKey{
		cx: int(math.Floor(pos.X / s.cellSize)),
		cy: int(math.Floor(pos.Y / s.cellSize)),
	}
}

// UpdateEntity upserts an entity's position, overwriting on conflict.
func (s *SpatialIndex) UpdateEntity(id string, pos Position) {
	key := s.keyFor(pos)
	if old, ok := s.entries[id]; ok {
		if old.cell == key {
			s.entries[id] = spatialEntry{pos: pos, cell: key}
			return
		}
		s.removeFromCell(id, old.cell)
	}
	bucket, ok := s.cells[key]
	if !ok {
		bucket = make(map[string]struct{})
		s.cells[key] = bucket
	}
	bucket[id] = struct{}{}
	s.entries[id] = spatialEntry{pos: pos, cell: key}
}

// RemoveEntity drops an entity from the index. Unknown ids are a no-op.
func (s *SpatialIndex) RemoveEntity(id string) {
	entry, ok := s.entries[id]
	if !ok {
		return
	}
	s.removeFromCell(id, entry.cell)
	delete(s.entries, id)
}

func (s *SpatialIndex) removeFromCell(id string, key cellKey) {
	if bucket, ok := s.cells[key]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(s.cells, key)
		}
	}
}

// EntityPosition returns the last known position for id.
func (s *SpatialIndex) EntityPosition(id string) (Position, bool) {
	entry, ok := s.entries[id]
	return entry.pos, ok
}

// EntitiesInCell returns a snapshot of the ids stored in the bucket
// containing pos.
func (s *SpatialIndex) EntitiesInCell(pos Position) []string {
	bucket, ok := s.cells[s.keyFor(pos)]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(bucket))
	for id := range bucket {
		out = append(out, id)
	}
	return out
}

// EntitiesInRadius returns a snapshot of ids whose positions lie within
// radius of pos.
func (s *SpatialIndex) EntitiesInRadius(pos Position, radius float64) []string {
	if radius <= 0 {
		return nil
	}
	span := int(math.Ceil(radius/s.cellSize)) + 1
	center := s.keyFor(pos)
	radiusSq := radius * radius

	var out []string
	for dy := -span; dy <= span; dy++ {
		for dx := -span; dx <= span; dx++ {
			bucket, ok := s.cells[cellKey{cx: center.cx + dx, cy: center.cy + dy}]
			if !ok {
				continue
			}
			for id := range bucket {
				entry := s.entries[id]
				ddx := entry.pos.X - pos.X
				ddy := entry.pos.Y - pos.Y
				if ddx*ddx+ddy*ddy <= radiusSq {
					out = append(out, id)
				}
			}
		}
	}
	return out
}

// Len returns the number of tracked entities.
func (s *SpatialIndex) Len() int {
	return len(s.entries)
}
