package nav

// Default cost model.
const (
	// ObstacleThreshold is the height difference above which a tile blocks movement
	// from its reference tile.
	ObstacleThreshold = 0.2
	// HeightWeight scales |Δheight| into movement cost.
	HeightWeight = 2.0
	// CornerBuffer and ObstaclePenaltyFactor form the surcharge for steps touching
	// a tile that borders an obstacle.
	CornerBuffer          = 1.0
	ObstaclePenaltyFactor = 10.0
)

// Smoothing.
const (
	SmoothPasses = 3
)

type direction struct {
	dx, dy int
}

// directions is the fixed neighbour order: N, NE, E, SE, S, SW, W, NW.
// Y grows southward.
var directions = [8]direction{
	{0, -1},
	{1, -1},
	{1, 0},
	{1, 1},
	{0, 1},
	{-1, 1},
	{-1, 0},
	{-1, -1},
}
