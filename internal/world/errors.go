package world

import "fmt"

// InsufficientSitesError reports that the site set was too small or too
// degenerate to produce any bounded cell. No province exists when it is returned.
type InsufficientSitesError struct {
	Sites int
	Err   error
}

func (e *InsufficientSitesError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insufficient sites (%d): %v", e.Sites, e.Err)
	}
	return fmt.Sprintf("insufficient sites (%d)", e.Sites)
}

func (e *InsufficientSitesError) Unwrap() error { return e.Err }

// GeometryError reports a tile whose polygon could not be merged into its
// continent outline. The merger recovers from it by leaving the tile unclaimed.
type GeometryError struct {
	Tile   int
	Reason string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("tile %d: %s", e.Tile, e.Reason)
}

// GenerationError is returned by Generate for any fatal failure outside
// tessellation.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate world (%s): %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
