package resource

// CacheBuilderOption is a functional option for configuring a Cache.
// Use the With* functions to create options.
type CacheBuilderOption func(c *Cache)

// WithWorkers sets how many goroutines generate mesh geometry.
//
// Parameters:
//   - n: worker count, at least 1
//
// Returns:
//   - CacheBuilderOption: option function to apply
func WithWorkers(n int) CacheBuilderOption {
	return func(c *Cache) {
		c.workers = max(n, 1)
	}
}

// WithCircleResolution sets the rim vertex count of the circle meshes.
func WithCircleResolution(n int) CacheBuilderOption {
	return func(c *Cache) {
		c.circleResolution = n
	}
}

// WithSphereResolution sets the longitude and latitude subdivisions of the sphere meshes.
func WithSphereResolution(sectors, stacks int) CacheBuilderOption {
	return func(c *Cache) {
		c.sphereSectors = sectors
		c.sphereStacks = stacks
	}
}
