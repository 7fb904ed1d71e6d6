package resource

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-frame/common"
	"github.com/Carmen-Shannon/oxy-frame/engine/gpu"
)

// Names of the primitive meshes every cache holds.
const (
	MeshCircle        = "circle"
	MeshWireCircle    = "wire_circle"
	MeshRectangle     = "rectangle"
	MeshWireRectangle = "wire_rectangle"
	MeshSphere        = "sphere"
	MeshWireSphere    = "wire_sphere"
	MeshCuboid        = "cuboid"
	MeshWireCuboid    = "wire_cuboid"
)

// Cache owns the shared meshes of one device. It is created once, after the
// device, and passed explicitly to whatever draws with it.
type Cache struct {
	device gpu.Device
	queue  gpu.Queue
	meshes map[string]*Mesh

	workers          int
	circleResolution int
	sphereSectors    int
	sphereStacks     int

	pool worker.DynamicWorkerPool
}

// NewCache generates and uploads the primitive meshes.
// Applies default values first, then each option in order.
//
// Parameters:
//   - device: the device meshes are allocated on
//   - queue: the queue used for uploads
//   - options: variadic list of CacheBuilderOption
//
// Returns:
//   - *Cache: the cache holding every primitive mesh
//   - error: error if any upload fails; meshes uploaded so far are released
func NewCache(device gpu.Device, queue gpu.Queue, options ...CacheBuilderOption) (*Cache, error) {
	c := &Cache{
		device:           device,
		queue:            queue,
		meshes:           make(map[string]*Mesh),
		workers:          4,
		circleResolution: 32,
		sphereSectors:    32,
		sphereStacks:     16,
	}
	for _, opt := range options {
		opt(c)
	}
	c.pool = worker.NewDynamicWorkerPool(c.workers, 64, time.Second)

	err := c.AddAll(map[string]MeshBuilder{
		MeshCircle:        func() MeshData { return CircleMesh(c.circleResolution, false) },
		MeshWireCircle:    func() MeshData { return CircleMesh(c.circleResolution, true) },
		MeshRectangle:     func() MeshData { return RectangleMesh(1, 1, false) },
		MeshWireRectangle: func() MeshData { return RectangleMesh(1, 1, true) },
		MeshSphere:        func() MeshData { return SphereMesh(1, c.sphereSectors, c.sphereStacks, false) },
		MeshWireSphere:    func() MeshData { return SphereMesh(1, c.sphereSectors, c.sphereStacks, true) },
		MeshCuboid:        func() MeshData { return CuboidMesh(0.5, 0.5, 0.5, false) },
		MeshWireCuboid:    func() MeshData { return CuboidMesh(0.5, 0.5, 0.5, true) },
	})
	if err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// AddAll generates every mesh on the worker pool, waits for all of them, then
// uploads them in name order on the calling goroutine. Existing meshes with the
// same name are replaced.
//
// Parameters:
//   - builders: mesh name to generator
//
// Returns:
//   - error: the first upload error
func (c *Cache) AddAll(builders map[string]MeshBuilder) error {
	names := slices.Sorted(maps.Keys(builders))
	results := make([]MeshData, len(names))

	// The pool's own Wait blocks until workers idle out, so a WaitGroup is the barrier.
	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		build := builders[name]
		c.pool.SubmitTask(worker.Task{
			ID:      i,
			Payload: name,
			Do: func() (any, error) {
				defer wg.Done()
				results[i] = build()
				return nil, nil
			},
		})
	}
	wg.Wait()

	for i, name := range names {
		if _, err := c.Add(name, results[i]); err != nil {
			return err
		}
	}
	common.Logger().Debug("meshes uploaded", "count", len(names))
	return nil
}

// Add uploads one mesh under name, replacing any mesh already stored there.
//
// Parameters:
//   - name: the cache key
//   - data: the geometry
//
// Returns:
//   - *Mesh: the uploaded mesh
//   - error: error if the upload fails
func (c *Cache) Add(name string, data MeshData) (*Mesh, error) {
	m, err := Upload(c.device, c.queue, name, data)
	if err != nil {
		return nil, fmt.Errorf("resource: add %q: %w", name, err)
	}
	if old, ok := c.meshes[name]; ok {
		old.Release()
	}
	c.meshes[name] = m
	return m, nil
}

// Mesh returns the mesh stored under name, or nil.
func (c *Cache) Mesh(name string) *Mesh {
	return c.meshes[name]
}

// Names returns the stored mesh names in sorted order.
func (c *Cache) Names() []string {
	return slices.Sorted(maps.Keys(c.meshes))
}

func (c *Cache) Circle() *Mesh        { return c.meshes[MeshCircle] }
func (c *Cache) WireCircle() *Mesh    { return c.meshes[MeshWireCircle] }
func (c *Cache) Rectangle() *Mesh     { return c.meshes[MeshRectangle] }
func (c *Cache) WireRectangle() *Mesh { return c.meshes[MeshWireRectangle] }
func (c *Cache) Sphere() *Mesh        { return c.meshes[MeshSphere] }
func (c *Cache) WireSphere() *Mesh    { return c.meshes[MeshWireSphere] }
func (c *Cache) Cuboid() *Mesh        { return c.meshes[MeshCuboid] }
func (c *Cache) WireCuboid() *Mesh    { return c.meshes[MeshWireCuboid] }

// Release frees every mesh and stops the worker pool.
func (c *Cache) Release() {
	for name, m := range c.meshes {
		m.Release()
		delete(c.meshes, name)
	}
	if c.pool != nil {
		c.pool.Stop()
		c.pool = nil
	}
}
